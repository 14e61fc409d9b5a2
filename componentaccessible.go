package depot

// AccessibleComponent is the typed handle returned by RegisterComponent.
type AccessibleComponent[T any] struct {
	id ComponentID
}

func (c AccessibleComponent[T]) ComponentID() ComponentID {
	return c.id
}

// Value wraps v for entity creation.
func (c AccessibleComponent[T]) Value(v T) ComponentValue {
	return ComponentValue{ID: c.id, Value: v}
}

// GetFromCursor returns a pointer to the component of the entity under the
// cursor. It returns nil when the component was not resolved read-write.
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	if cursor.current == nil {
		return nil
	}
	data, ok := Write[T](cursor.current, c)
	if !ok {
		return nil
	}
	return &data[cursor.row-1]
}

// ReadFromCursor returns a copy of the component of the entity under the cursor.
func (c AccessibleComponent[T]) ReadFromCursor(cursor *Cursor) (T, bool) {
	var zero T
	if cursor.current == nil {
		return zero, false
	}
	data, ok := Read[T](cursor.current, c)
	if !ok {
		return zero, false
	}
	return data[cursor.row-1], true
}

// CheckCursor determines if the component was resolved for the view under the cursor.
func (c AccessibleComponent[T]) CheckCursor(cursor *Cursor) bool {
	return cursor.current != nil && cursor.current.Has(c)
}

// GetFromEntity returns a copy of the component stored for id.
func (c AccessibleComponent[T]) GetFromEntity(dm *DataManager, id EntityID) (T, error) {
	return Get[T](dm, c, id)
}

// SetOnEntity overwrites the component stored for id.
func (c AccessibleComponent[T]) SetOnEntity(dm *DataManager, id EntityID, v T) error {
	return Set[T](dm, c, id, v)
}
