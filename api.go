package depot

import (
	"iter"
	"reflect"

	"github.com/TheBitDrifter/mask"
)

// ComponentID is the stable identifier a Registry assigns to a component type.
type ComponentID uint32

// Component is anything that names a registered component type.
type Component interface {
	ComponentID() ComponentID
}

// ComponentValue pairs a component id with one value of that component's type.
type ComponentValue struct {
	ID    ComponentID
	Value any
}

// EntityID identifies an entity. Index is a dense slot reused through a free list,
// Generation grows every time the slot is recycled.
type EntityID struct {
	Index      uint32
	Generation uint32
}

// ArchetypeKey is the set of components an entity has. Equal sets produce equal
// keys regardless of the order the components were supplied in.
type ArchetypeKey struct {
	bits mask.Mask
}

// AccessMode tags a query handle as read-only or read-write.
type AccessMode bool

const (
	ReadWrite AccessMode = false
	ReadOnly  AccessMode = true
)

// Access is one component requested by a query together with its access mode.
type Access struct {
	ID       ComponentID
	ReadOnly bool
}

// ComponentInfo describes a registered component type.
type ComponentInfo struct {
	ID        ComponentID
	Size      uintptr
	Type      reflect.Type
	newColumn func(capacity int) column
}

// accepts reports whether v can be stored in a column of this component.
func (info ComponentInfo) accepts(v any) bool {
	if v == nil {
		return false
	}
	typ := reflect.TypeOf(v)
	if info.Type.Kind() == reflect.Interface {
		return typ.Implements(info.Type)
	}
	return typ == info.Type
}

// EntityData is the full component payload of one entity, keyed by component id.
type EntityData struct {
	ID         EntityID
	Components map[ComponentID]any
}

// Storage is the structural surface of a DataManager.
type Storage interface {
	AddEntity(...ComponentValue) (EntityID, error)
	EnqueueAddEntity(...ComponentValue) error
	RemoveEntity(EntityID) error
	EnqueueRemoveEntity(EntityID) error
	Alive(EntityID) bool
	Resolve(*Query) *Accessor
	TryResolve(*Query) (*Accessor, bool)
	Locked() bool
	Lock()
	Unlock() error
}

type iCursor interface {
	Rows() iter.Seq2[int, *ChunkView]
	Next() bool
}
