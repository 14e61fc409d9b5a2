package depot

import (
	"sync"
)

type handle struct {
	readOnly bool
	col      column
}

// ChunkView exposes the handles a query resolved for one chunk.
type ChunkView struct {
	archetype *Archetype
	chunk     *Chunk
	order     []ComponentID
	handles   map[ComponentID]handle
	released  bool
}

// Accessor holds the column locks for every chunk a query matched. The data
// manager stays locked against structural changes until Release.
type Accessor struct {
	dm    *DataManager
	views []*ChunkView
	once  sync.Once
	err   error
}

// Resolve builds an accessor over every chunk of every archetype matching q,
// taking a read lock on read-only columns and a write lock on the others. Locks
// are taken in archetype, chunk, component order.
func (dm *DataManager) Resolve(q *Query) *Accessor {
	dm.mu.Lock()
	dm.locks++
	views := dm.views(q)
	dm.mu.Unlock()

	for _, view := range views {
		for _, id := range view.order {
			h := view.handles[id]
			if h.readOnly {
				h.col.rw().RLock()
			} else {
				h.col.rw().Lock()
			}
		}
	}
	return &Accessor{dm: dm, views: views}
}

// TryResolve is Resolve without waiting: when any column q needs is held in a
// conflicting mode it takes no lock at all and reports false.
func (dm *DataManager) TryResolve(q *Query) (*Accessor, bool) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	views := dm.views(q)

	var taken []handle
	for _, view := range views {
		for _, id := range view.order {
			h := view.handles[id]
			var ok bool
			if h.readOnly {
				ok = h.col.rw().TryRLock()
			} else {
				ok = h.col.rw().TryLock()
			}
			if !ok {
				for i := len(taken) - 1; i >= 0; i-- {
					taken[i].unlock()
				}
				return nil, false
			}
			taken = append(taken, h)
		}
	}
	dm.locks++
	return &Accessor{dm: dm, views: views}, true
}

// views lists one view per chunk of every archetype matching q. The caller holds
// dm.mu.
func (dm *DataManager) views(q *Query) []*ChunkView {
	var views []*ChunkView
	for _, arch := range dm.ordered {
		if !q.Matches(arch.key) {
			continue
		}
		accesses := q.accesses(arch.key)
		for _, chunk := range arch.chunks {
			view := &ChunkView{
				archetype: arch,
				chunk:     chunk,
				order:     make([]ComponentID, 0, len(accesses)),
				handles:   make(map[ComponentID]handle, len(accesses)),
			}
			for _, a := range accesses {
				col, ok := chunk.columns[a.ID]
				if !ok {
					continue
				}
				view.order = append(view.order, a.ID)
				view.handles[a.ID] = handle{readOnly: a.ReadOnly, col: col}
			}
			views = append(views, view)
		}
	}
	return views
}

func (h handle) unlock() {
	if h.readOnly {
		h.col.rw().RUnlock()
	} else {
		h.col.rw().Unlock()
	}
}

// Views returns one view per matched chunk.
func (a *Accessor) Views() []*ChunkView {
	return a.views
}

// Len reports the number of entities across all views.
func (a *Accessor) Len() int {
	total := 0
	for _, v := range a.views {
		total += v.Len()
	}
	return total
}

// Release drops every column lock and the structural lock. Releasing the last
// structural lock applies queued operations; their error is returned. Release is
// safe to call more than once.
func (a *Accessor) Release() error {
	a.once.Do(func() {
		for i := len(a.views) - 1; i >= 0; i-- {
			view := a.views[i]
			for j := len(view.order) - 1; j >= 0; j-- {
				view.handles[view.order[j]].unlock()
			}
			view.released = true
		}
		a.err = a.dm.Unlock()
	})
	return a.err
}

func (v *ChunkView) Archetype() *Archetype {
	return v.archetype
}

func (v *ChunkView) Len() int {
	return v.chunk.Len()
}

// Entities returns the ids of the chunk's entities in row order.
func (v *ChunkView) Entities() []EntityID {
	return v.chunk.Entities()
}

// Has reports whether the view holds a handle for c.
func (v *ChunkView) Has(c Component) bool {
	_, ok := v.handles[c.ComponentID()]
	return ok && !v.released
}

// ReadOnly reports whether the handle for c is read-only. Absent handles report true.
func (v *ChunkView) ReadOnly(c Component) bool {
	h, ok := v.handles[c.ComponentID()]
	return !ok || h.readOnly
}

// Read returns the column for c. The slice is shared with the chunk and must not
// be modified.
func Read[T any](v *ChunkView, c Component) ([]T, bool) {
	if v.released {
		return nil, false
	}
	h, ok := v.handles[c.ComponentID()]
	if !ok {
		return nil, false
	}
	typed, ok := h.col.(*typedColumn[T])
	if !ok {
		return nil, false
	}
	return typed.data, true
}

// Write returns the column for c when it was resolved read-write.
func Write[T any](v *ChunkView, c Component) ([]T, bool) {
	if v.released {
		return nil, false
	}
	h, ok := v.handles[c.ComponentID()]
	if !ok || h.readOnly {
		return nil, false
	}
	typed, ok := h.col.(*typedColumn[T])
	if !ok {
		return nil, false
	}
	return typed.data, true
}
