package schedule

var _ Arena[any] = &SimpleArena[any]{}

// SimpleArena interns string keys into dense indices. Items are never removed, so
// an index stays valid for the arena's lifetime.
type SimpleArena[T any] struct {
	items       []T
	itemIndices map[string]int
	maxCapacity int
}

func newArena[T any](cap int) *SimpleArena[T] {
	return &SimpleArena[T]{
		itemIndices: make(map[string]int),
		maxCapacity: cap,
	}
}

func (a *SimpleArena[T]) GetIndex(key string) (int, bool) {
	index, ok := a.itemIndices[key]
	return index, ok
}

func (a *SimpleArena[T]) GetItem(index int) *T {
	return &a.items[index]
}

func (a *SimpleArena[T]) Register(key string, item T) (int, error) {
	if index, ok := a.itemIndices[key]; ok {
		a.items[index] = item
		return index, nil
	}
	if len(a.items) >= a.maxCapacity {
		return -1, ArenaFullError{Capacity: a.maxCapacity}
	}
	index := len(a.items)
	a.itemIndices[key] = index
	a.items = append(a.items, item)
	return index, nil
}

func (a *SimpleArena[T]) Len() int {
	return len(a.items)
}
