package depot

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
)

var _ Storage = &DataManager{}

// DataManager owns the archetypes, the entity index and the free-id list of one
// ECS instance.
type DataManager struct {
	mu       sync.RWMutex
	registry *Registry

	archetypes      map[ArchetypeKey]*Archetype
	ordered         []*Archetype
	nextArchetypeID archetypeID

	slots []entitySlot
	free  []uint32
	live  int

	locks   int
	opQueue opQueue

	chunkCapacity   int
	chunkByteBudget int
	log             *logrus.Entry
}

func newDataManager(registry *Registry) *DataManager {
	return &DataManager{
		registry:        registry,
		archetypes:      make(map[ArchetypeKey]*Archetype),
		nextArchetypeID: 1,
		opQueue:         newOpQueue(),
		chunkCapacity:   Config.chunkCapacity,
		chunkByteBudget: Config.chunkByteBudget,
		log:             Config.log().WithField("component", "data"),
	}
}

// Registry returns the registry the manager resolves component ids against.
func (dm *DataManager) Registry() *Registry {
	return dm.registry
}

// AddEntity creates an entity holding the given component values.
func (dm *DataManager) AddEntity(values ...ComponentValue) (EntityID, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if dm.locks > 0 {
		return EntityID{}, LockedStorageError{}
	}
	return dm.addEntity(values)
}

func (dm *DataManager) addEntity(values []ComponentValue) (EntityID, error) {
	key, components, err := dm.keyFor(values)
	if err != nil {
		return EntityID{}, err
	}
	arch := dm.archetypeFor(key, components)

	id := dm.allocate()
	data := EntityData{ID: id, Components: make(map[ComponentID]any, len(values))}
	for _, v := range values {
		data.Components[v.ID] = v.Value
	}
	if err := arch.addEntity(data); err != nil {
		dm.release(id.Index)
		return EntityID{}, fmt.Errorf("failed to store entity: %w", err)
	}
	dm.slots[id.Index] = entitySlot{generation: id.Generation, alive: true, key: key}
	dm.live++
	return id, nil
}

// keyFor validates values and computes their archetype key and sorted component ids.
func (dm *DataManager) keyFor(values []ComponentValue) (ArchetypeKey, []ComponentID, error) {
	var key ArchetypeKey
	components := make([]ComponentID, 0, len(values))
	for _, v := range values {
		info, ok := dm.registry.Info(v.ID)
		if !ok || !info.accepts(v.Value) {
			return ArchetypeKey{}, nil, ComponentNotRegisteredError{ID: v.ID, Value: v.Value}
		}
		components = append(components, v.ID)
	}
	slices.Sort(components)
	unique := slices.Compact(slices.Clone(components))
	if len(unique) != len(components) {
		return ArchetypeKey{}, nil, MismatchedArchetypeError{Expected: unique, Actual: components}
	}
	for _, id := range components {
		key = key.With(id)
	}
	return key, components, nil
}

// archetypeFor returns the archetype for key, creating it on first use.
func (dm *DataManager) archetypeFor(key ArchetypeKey, components []ComponentID) *Archetype {
	if arch, ok := dm.archetypes[key]; ok {
		return arch
	}

	infos := make([]ComponentInfo, len(components))
	sizes := make([]uintptr, len(components))
	for i, id := range components {
		infos[i], _ = dm.registry.Info(id)
		sizes[i] = infos[i].Size
	}
	capacity := dm.chunkCapacity
	if capacity == 0 {
		capacity = chunkCapacity(dm.chunkByteBudget, sizes...)
	}
	newChunkFn := func() *Chunk {
		columns := make(map[ComponentID]column, len(infos))
		for _, info := range infos {
			columns[info.ID] = info.newColumn(capacity)
		}
		return newChunk(capacity, columns)
	}

	arch := newArchetype(dm.nextArchetypeID, key, components, newChunkFn)
	dm.nextArchetypeID++
	dm.archetypes[key] = arch
	dm.ordered = append(dm.ordered, arch)
	dm.log.WithFields(logrus.Fields{
		"archetype":  arch.id,
		"components": components,
		"capacity":   capacity,
	}).Debug("archetype created")
	return arch
}

func (dm *DataManager) allocate() EntityID {
	if n := len(dm.free); n > 0 {
		index := dm.free[n-1]
		dm.free = dm.free[:n-1]
		return EntityID{Index: index, Generation: dm.slots[index].generation}
	}
	index := uint32(len(dm.slots))
	dm.slots = append(dm.slots, entitySlot{})
	return EntityID{Index: index}
}

// release retires a slot: the generation moves on so stale ids stop resolving.
func (dm *DataManager) release(index uint32) {
	dm.slots[index].alive = false
	dm.slots[index].key = ArchetypeKey{}
	dm.slots[index].generation++
	dm.free = append(dm.free, index)
}

// RemoveEntity destroys the entity and recycles its slot.
func (dm *DataManager) RemoveEntity(id EntityID) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if dm.locks > 0 {
		return LockedStorageError{}
	}
	return dm.removeEntity(id)
}

func (dm *DataManager) removeEntity(id EntityID) error {
	if !dm.alive(id) {
		return EntityNotFoundError{ID: id}
	}
	key := dm.slots[id.Index].key
	arch, ok := dm.archetypes[key]
	if !ok {
		return EntityNotFoundError{ID: id}
	}
	if _, err := arch.removeEntity(id); err != nil {
		return fmt.Errorf("failed to remove entity: %w", err)
	}
	dm.release(id.Index)
	dm.live--
	if arch.Empty() {
		dm.dropArchetype(arch)
	}
	return nil
}

func (dm *DataManager) dropArchetype(arch *Archetype) {
	delete(dm.archetypes, arch.key)
	dm.ordered = slices.DeleteFunc(dm.ordered, func(a *Archetype) bool { return a == arch })
	dm.log.WithField("archetype", arch.id).Debug("archetype destroyed")
}

// Alive reports whether id refers to a live entity.
func (dm *DataManager) Alive(id EntityID) bool {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.alive(id)
}

func (dm *DataManager) alive(id EntityID) bool {
	if int(id.Index) >= len(dm.slots) {
		return false
	}
	slot := dm.slots[id.Index]
	return slot.alive && slot.generation == id.Generation
}

// Len reports the number of live entities.
func (dm *DataManager) Len() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.live
}

// Archetypes returns the live archetypes in creation order.
func (dm *DataManager) Archetypes() []*Archetype {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return slices.Clone(dm.ordered)
}

// ArchetypeOf returns the archetype currently holding id.
func (dm *DataManager) ArchetypeOf(id EntityID) (*Archetype, bool) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	if !dm.alive(id) {
		return nil, false
	}
	arch, ok := dm.archetypes[dm.slots[id.Index].key]
	return arch, ok
}

// Locked reports whether structural changes are currently deferred.
func (dm *DataManager) Locked() bool {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.locks > 0
}

// Lock defers structural changes until the matching Unlock. Locks nest.
func (dm *DataManager) Lock() {
	dm.mu.Lock()
	dm.locks++
	dm.mu.Unlock()
}

// Unlock releases one lock. Releasing the last one applies every queued operation.
func (dm *DataManager) Unlock() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if dm.locks == 0 {
		return nil
	}
	dm.locks--
	if dm.locks > 0 {
		return nil
	}
	return dm.processOperationQueue()
}

// EnqueueAddEntity creates the entity now, or once the manager is unlocked.
// Component values are validated immediately.
func (dm *DataManager) EnqueueAddEntity(values ...ComponentValue) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if dm.locks == 0 {
		if _, err := dm.addEntity(values); err != nil {
			return fmt.Errorf("failed to create entity directly: %w", err)
		}
		return nil
	}
	if _, _, err := dm.keyFor(values); err != nil {
		return err
	}
	dm.opQueue.enqueueCreate(slices.Clone(values))
	return nil
}

// EnqueueRemoveEntity removes the entity now, or once the manager is unlocked.
func (dm *DataManager) EnqueueRemoveEntity(id EntityID) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if dm.locks == 0 {
		return dm.removeEntity(id)
	}
	if !dm.alive(id) {
		return EntityNotFoundError{ID: id}
	}
	dm.opQueue.enqueueDestroy(id)
	return nil
}

// Get returns a copy of one component of one entity. It does not wait for a
// column held for writing by an accessor and returns ColumnBusyError instead.
func Get[T any](dm *DataManager, c Component, id EntityID) (T, error) {
	var zero T
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	col, row, err := dm.cell(c.ComponentID(), id)
	if err != nil {
		return zero, err
	}
	typed, ok := col.(*typedColumn[T])
	if !ok {
		return zero, ComponentNotRegisteredError{ID: c.ComponentID(), Value: zero}
	}
	if !typed.mu.TryRLock() {
		return zero, ColumnBusyError{ID: c.ComponentID(), Entity: id}
	}
	defer typed.mu.RUnlock()
	return typed.data[row], nil
}

// Set overwrites one component of one entity. It does not wait for a column held
// by an accessor and returns ColumnBusyError instead.
func Set[T any](dm *DataManager, c Component, id EntityID, v T) error {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	col, row, err := dm.cell(c.ComponentID(), id)
	if err != nil {
		return err
	}
	typed, ok := col.(*typedColumn[T])
	if !ok {
		return ComponentNotRegisteredError{ID: c.ComponentID(), Value: v}
	}
	if !typed.mu.TryLock() {
		return ColumnBusyError{ID: c.ComponentID(), Entity: id}
	}
	defer typed.mu.Unlock()
	typed.data[row] = v
	return nil
}

func (dm *DataManager) cell(component ComponentID, id EntityID) (column, int, error) {
	if !dm.alive(id) {
		return nil, 0, EntityNotFoundError{ID: id}
	}
	arch, ok := dm.archetypes[dm.slots[id.Index].key]
	if !ok {
		return nil, 0, EntityNotFoundError{ID: id}
	}
	chunk, row, ok := arch.locate(id)
	if !ok {
		return nil, 0, EntityNotFoundError{ID: id}
	}
	col, ok := chunk.columns[component]
	if !ok {
		return nil, 0, ComponentNotFoundError{ID: component, Entity: id}
	}
	return col, row, nil
}

// IsLocked reports whether err was caused by a locked data manager.
func IsLocked(err error) bool {
	var locked LockedStorageError
	return errors.As(err, &locked)
}
