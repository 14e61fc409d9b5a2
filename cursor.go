package depot

import (
	"iter"
)

var _ iCursor = &Cursor{}

// Cursor walks the entities of an accessor one row at a time.
type Cursor struct {
	accessor  *Accessor
	viewIndex int
	row       int
	current   *ChunkView
}

func newCursor(accessor *Accessor) *Cursor {
	return &Cursor{accessor: accessor}
}

// Next advances to the next entity and reports whether there was one. After the
// last entity the cursor resets itself.
func (c *Cursor) Next() bool {
	views := c.accessor.views
	for c.viewIndex < len(views) {
		view := views[c.viewIndex]
		if c.row < view.Len() {
			c.current = view
			c.row++
			return true
		}
		c.viewIndex++
		c.row = 0
	}
	c.Reset()
	return false
}

// Rows yields every (row, view) pair of the accessor.
func (c *Cursor) Rows() iter.Seq2[int, *ChunkView] {
	return func(yield func(int, *ChunkView) bool) {
		defer c.Reset()
		for _, view := range c.accessor.views {
			c.current = view
			for row := 0; row < view.Len(); row++ {
				c.row = row + 1
				if !yield(row, view) {
					return
				}
			}
		}
	}
}

func (c *Cursor) Reset() {
	c.viewIndex = 0
	c.row = 0
	c.current = nil
}

// Entity returns the id of the entity under the cursor, or the zero id when the
// cursor is not on an entity.
func (c *Cursor) Entity() EntityID {
	if c.current == nil {
		return EntityID{}
	}
	return c.current.chunk.entities[c.row-1]
}

// CurrentEntity returns the row and view of the entity under the cursor.
func (c *Cursor) CurrentEntity() (int, *ChunkView) {
	return c.row - 1, c.current
}

func (c *Cursor) RemainingInView() int {
	if c.current == nil {
		return 0
	}
	return c.current.Len() - c.row
}

func (c *Cursor) Total() int {
	return c.accessor.Len()
}
