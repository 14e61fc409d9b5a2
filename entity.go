package depot

import (
	"slices"
)

// entitySlot is one entry of the entity index.
type entitySlot struct {
	generation uint32
	alive      bool
	key        ArchetypeKey
}

// EntityBuilder creates an entity whose component set is declared up front.
type EntityBuilder struct {
	dm       *DataManager
	expected []ComponentID
	values   []ComponentValue
}

// NewEntity starts building an entity that must end up with exactly the expected
// components.
func (dm *DataManager) NewEntity(expected ...Component) *EntityBuilder {
	ids := make([]ComponentID, len(expected))
	for i, c := range expected {
		ids[i] = c.ComponentID()
	}
	return &EntityBuilder{dm: dm, expected: ids}
}

// With adds one component value to the entity under construction.
func (b *EntityBuilder) With(v ComponentValue) *EntityBuilder {
	b.values = append(b.values, v)
	return b
}

// Build validates the supplied values against the declared component set and
// creates the entity.
func (b *EntityBuilder) Build() (EntityID, error) {
	expected := slices.Clone(b.expected)
	slices.Sort(expected)
	actual := make([]ComponentID, len(b.values))
	for i, v := range b.values {
		actual[i] = v.ID
	}
	slices.Sort(actual)
	if !slices.Equal(expected, actual) {
		return EntityID{}, MismatchedArchetypeError{Expected: expected, Actual: actual}
	}
	return b.dm.AddEntity(b.values...)
}
