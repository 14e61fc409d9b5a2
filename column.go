package depot

import "sync"

// column is the type-erased view of one component array inside a chunk. Every
// implementation is a typedColumn[T] produced by the registry's factory.
type column interface {
	accepts(v any) bool
	push(v any) bool
	swapRemove(row int) any
	value(row int) any
	len() int
	rw() *sync.RWMutex
}

var _ column = &typedColumn[struct{}]{}

type typedColumn[T any] struct {
	mu   sync.RWMutex
	data []T
}

func newTypedColumn[T any](capacity int) *typedColumn[T] {
	return &typedColumn[T]{data: make([]T, 0, capacity)}
}

func (c *typedColumn[T]) accepts(v any) bool {
	_, ok := v.(T)
	return ok
}

func (c *typedColumn[T]) push(v any) bool {
	val, ok := v.(T)
	if !ok {
		return false
	}
	c.data = append(c.data, val)
	return true
}

// swapRemove moves the last element into row and shrinks the column by one.
func (c *typedColumn[T]) swapRemove(row int) any {
	last := len(c.data) - 1
	removed := c.data[row]
	c.data[row] = c.data[last]
	var zero T
	c.data[last] = zero
	c.data = c.data[:last]
	return removed
}

func (c *typedColumn[T]) value(row int) any {
	return c.data[row]
}

func (c *typedColumn[T]) len() int {
	return len(c.data)
}

func (c *typedColumn[T]) rw() *sync.RWMutex {
	return &c.mu
}
