package depot

import (
	"maps"
	"slices"

	iter_util "github.com/TheBitDrifter/util/iter"
)

// entityIDSize is the per-entity footprint of the id list.
const entityIDSize = 8

// Chunk is a fixed-capacity page of one archetype's storage. Row i of every column
// and of the entity list belong to the same entity.
type Chunk struct {
	entities   []EntityID
	columns    map[ComponentID]column
	components []ComponentID
	capacity   int
}

func newChunk(capacity int, columns map[ComponentID]column) *Chunk {
	components := iter_util.Collect(maps.Keys(columns))
	slices.Sort(components)
	return &Chunk{
		entities:   make([]EntityID, 0, capacity),
		columns:    columns,
		components: components,
		capacity:   capacity,
	}
}

// chunkCapacity derives how many entities of the given per-component sizes fit the
// byte budget.
func chunkCapacity(budget int, sizes ...uintptr) int {
	footprint := uintptr(entityIDSize)
	for _, size := range sizes {
		footprint += size
	}
	return max(budget/int(footprint), 1)
}

func (c *Chunk) Len() int {
	return len(c.entities)
}

func (c *Chunk) Cap() int {
	return c.capacity
}

func (c *Chunk) Full() bool {
	return len(c.entities) == c.capacity
}

func (c *Chunk) Empty() bool {
	return len(c.entities) == 0
}

// Entities returns the ids stored in the chunk in row order. The slice is shared
// with the chunk and must not be modified.
func (c *Chunk) Entities() []EntityID {
	return c.entities
}

// insert appends one entity. data must carry exactly one value per column.
func (c *Chunk) insert(data EntityData) error {
	if c.Full() {
		return errChunkFull
	}
	if len(data.Components) != len(c.columns) {
		return c.mismatch(data)
	}
	for id, col := range c.columns {
		v, ok := data.Components[id]
		if !ok {
			return c.mismatch(data)
		}
		if !col.accepts(v) {
			return ComponentNotRegisteredError{ID: id, Value: v}
		}
	}
	for id, col := range c.columns {
		col.push(data.Components[id])
	}
	c.entities = append(c.entities, data.ID)
	return nil
}

// removeAt swap-removes the entity at row. The entity previously stored last, if
// any, now lives at row.
func (c *Chunk) removeAt(row int) EntityData {
	components := make(map[ComponentID]any, len(c.columns))
	for id, col := range c.columns {
		components[id] = col.swapRemove(row)
	}
	last := len(c.entities) - 1
	removed := c.entities[row]
	c.entities[row] = c.entities[last]
	c.entities = c.entities[:last]
	return EntityData{ID: removed, Components: components}
}

func (c *Chunk) mismatch(data EntityData) error {
	actual := iter_util.Collect(maps.Keys(data.Components))
	slices.Sort(actual)
	return MismatchedArchetypeError{
		Expected: slices.Clone(c.components),
		Actual:   actual,
	}
}
