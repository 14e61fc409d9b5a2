/*
Package depot provides the storage engine of an Entity-Component-System (ECS).

Entities that share the exact same set of component types live in one archetype.
An archetype is split into fixed-capacity chunks, and every chunk stores each
component in its own contiguous column next to the list of entity ids. Removing an
entity swap-removes it and refills the hole from the archetype's last chunk, so
every chunk except the last stays full.

Core Concepts:

  - Registry: assigns a ComponentID to each Go type used as a component.
  - DataManager: owns archetypes, the entity index and the free-id list.
  - Query: required, excluded and optional components, matched per archetype.
  - Accessor: locked, typed access to the columns a query matched.

Basic Usage:

	registry := depot.Factory.NewRegistry()
	position := depot.RegisterComponent[Position](registry)
	velocity := depot.RegisterComponent[Velocity](registry)

	data := depot.Factory.NewDataManager(registry)
	data.AddEntity(position.Value(Position{}), velocity.Value(Velocity{X: 1}))

	query := depot.Factory.NewQuery().
		Require(position, depot.ReadWrite).
		Require(velocity, depot.ReadOnly)

	accessor := data.Resolve(query)
	defer accessor.Release()

	cursor := depot.Factory.NewCursor(accessor)
	for cursor.Next() {
		pos := position.GetFromCursor(cursor)
		vel, _ := velocity.ReadFromCursor(cursor)
		pos.X += vel.X
	}

Systems that run these queries once per tick are scheduled by package schedule.
*/
package depot
