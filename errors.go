package depot

import (
	"errors"
	"fmt"
)

var errChunkFull = errors.New("chunk is full")

type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return fmt.Sprintf("storage is currently locked")
}

// ComponentNotRegisteredError is returned when an entity is built from a component
// the data manager's registry does not know, or from a value whose type differs
// from the registered one.
type ComponentNotRegisteredError struct {
	ID    ComponentID
	Value any
}

func (e ComponentNotRegisteredError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("component %d is not registered for value of type %T", e.ID, e.Value)
	}
	return fmt.Sprintf("component %d is not registered", e.ID)
}

type MismatchedArchetypeError struct {
	Expected []ComponentID
	Actual   []ComponentID
}

func (e MismatchedArchetypeError) Error() string {
	return fmt.Sprintf("expected archetype %v, found archetype %v", e.Expected, e.Actual)
}

type EntityNotFoundError struct {
	ID EntityID
}

func (e EntityNotFoundError) Error() string {
	return fmt.Sprintf("entity %d (generation %d) does not exist", e.ID.Index, e.ID.Generation)
}

type ComponentNotFoundError struct {
	ID     ComponentID
	Entity EntityID
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component %d does not exist on entity %d", e.ID, e.Entity.Index)
}

// ColumnBusyError is returned by Get and Set when an accessor holds the column in
// a conflicting mode, including an accessor owned by the caller.
type ColumnBusyError struct {
	ID     ComponentID
	Entity EntityID
}

func (e ColumnBusyError) Error() string {
	return fmt.Sprintf("component %d of entity %v is held by an accessor", e.ID, e.Entity)
}
