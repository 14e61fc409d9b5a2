package depot

import "errors"

type archetypeID uint32

type location struct {
	chunk int
	row   int
}

// Archetype stores every entity whose component set equals its key. All chunks but
// the last are full.
type Archetype struct {
	id         archetypeID
	key        ArchetypeKey
	components []ComponentID
	chunks     []*Chunk
	newChunk   func() *Chunk
	rows       map[uint32]location
	length     int
}

func newArchetype(id archetypeID, key ArchetypeKey, components []ComponentID, newChunk func() *Chunk) *Archetype {
	return &Archetype{
		id:         id,
		key:        key,
		components: components,
		newChunk:   newChunk,
		rows:       make(map[uint32]location),
	}
}

func (a *Archetype) ID() uint32 {
	return uint32(a.id)
}

func (a *Archetype) Key() ArchetypeKey {
	return a.key
}

// Components returns the archetype's component ids in ascending order.
func (a *Archetype) Components() []ComponentID {
	return a.components
}

func (a *Archetype) Chunks() []*Chunk {
	return a.chunks
}

func (a *Archetype) Len() int {
	return a.length
}

func (a *Archetype) Empty() bool {
	return len(a.chunks) == 0
}

func (a *Archetype) locate(id EntityID) (*Chunk, int, bool) {
	loc, ok := a.rows[id.Index]
	if !ok {
		return nil, 0, false
	}
	chunk := a.chunks[loc.chunk]
	if chunk.entities[loc.row] != id {
		return nil, 0, false
	}
	return chunk, loc.row, true
}

func (a *Archetype) addEntity(data EntityData) error {
	if n := len(a.chunks); n > 0 {
		tail := a.chunks[n-1]
		err := tail.insert(data)
		if err == nil {
			a.rows[data.ID.Index] = location{chunk: n - 1, row: tail.Len() - 1}
			a.length++
			return nil
		}
		if !errors.Is(err, errChunkFull) {
			return err
		}
	}
	chunk := a.newChunk()
	if err := chunk.insert(data); err != nil {
		return err
	}
	a.chunks = append(a.chunks, chunk)
	a.rows[data.ID.Index] = location{chunk: len(a.chunks) - 1, row: 0}
	a.length++
	return nil
}

func (a *Archetype) removeEntity(id EntityID) (EntityData, error) {
	loc, ok := a.rows[id.Index]
	if !ok || a.chunks[loc.chunk].entities[loc.row] != id {
		return EntityData{}, EntityNotFoundError{ID: id}
	}
	chunk := a.chunks[loc.chunk]
	data := chunk.removeAt(loc.row)
	delete(a.rows, id.Index)
	a.length--
	if loc.row < chunk.Len() {
		a.rows[chunk.entities[loc.row].Index] = loc
	}

	tailIndex := len(a.chunks) - 1
	if loc.chunk == tailIndex {
		if chunk.Empty() {
			a.popTail()
		}
		return data, nil
	}

	// Refill the hole from the tail so only the tail may be partially filled.
	tail := a.chunks[tailIndex]
	moved := tail.removeAt(tail.Len() - 1)
	if err := chunk.insert(moved); err != nil {
		return data, err
	}
	a.rows[moved.ID.Index] = location{chunk: loc.chunk, row: chunk.Len() - 1}
	if tail.Empty() {
		a.popTail()
	}
	return data, nil
}

func (a *Archetype) popTail() {
	last := len(a.chunks) - 1
	a.chunks[last] = nil
	a.chunks = a.chunks[:last]
}
