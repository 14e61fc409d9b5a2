package depot

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/TheBitDrifter/table"
)

// Registry assigns component ids to Go types. Each data manager is bound to exactly
// one registry; components registered on another registry are rejected by it.
type Registry struct {
	mu     sync.RWMutex
	schema table.Schema
	byType map[reflect.Type]ComponentID
	infos  map[ComponentID]ComponentInfo
}

func newRegistry() *Registry {
	return &Registry{
		schema: table.Factory.NewSchema(),
		byType: make(map[reflect.Type]ComponentID),
		infos:  make(map[ComponentID]ComponentInfo),
	}
}

// RegisterComponent registers T with the registry and returns its handle. Calling it
// again for the same type returns the same id.
func RegisterComponent[T any](r *Registry) AccessibleComponent[T] {
	typ := reflect.TypeFor[T]()

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byType[typ]; ok {
		return AccessibleComponent[T]{id: id}
	}
	if len(r.byType) >= MaxComponents {
		panic(fmt.Sprintf("depot: cannot register %v, registry already holds %d component types", typ, MaxComponents))
	}

	elem := table.FactoryNewElementType[T]()
	r.schema.Register(elem)
	id := ComponentID(r.schema.RowIndexFor(elem))
	if id >= MaxComponents {
		panic(fmt.Sprintf("depot: component id %d for %v exceeds the archetype key width", id, typ))
	}
	if existing, taken := r.infos[id]; taken {
		panic(fmt.Sprintf("depot: component id %d already assigned to %v", id, existing.Type))
	}

	var zero T
	r.infos[id] = ComponentInfo{
		ID:   id,
		Size: unsafe.Sizeof(zero),
		Type: typ,
		newColumn: func(capacity int) column {
			return newTypedColumn[T](capacity)
		},
	}
	r.byType[typ] = id
	return AccessibleComponent[T]{id: id}
}

// Info returns the registration record for id.
func (r *Registry) Info(id ComponentID) (ComponentInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.infos[id]
	return info, ok
}

// Len reports the number of registered component types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.infos)
}

// newColumn builds an empty column for id. It returns false for unknown ids.
func (r *Registry) newColumn(id ComponentID, capacity int) (column, bool) {
	info, ok := r.Info(id)
	if !ok {
		return nil, false
	}
	return info.newColumn(capacity), true
}
