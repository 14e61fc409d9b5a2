// Package scene groups independent ECS instances. Each scene owns its registry,
// data manager and scheduler; a World hands out scene ids and ticks scenes.
package scene

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/TheBitDrifter/depot"
	"github.com/TheBitDrifter/depot/schedule"
	"github.com/sirupsen/logrus"
)

type SceneID uint32

type SceneNotFoundError struct {
	ID SceneID
}

func (e SceneNotFoundError) Error() string {
	return fmt.Sprintf("scene %d does not exist", e.ID)
}

// Scene is one ECS instance.
type Scene struct {
	id       SceneID
	tickMu   sync.Mutex
	Registry *depot.Registry
	Data     *depot.DataManager
	Behavior *schedule.Scheduler
}

func (s *Scene) ID() SceneID {
	return s.id
}

// Tick runs the scene's systems once. Ticks of the same scene never overlap.
func (s *Scene) Tick(ctx context.Context, exec schedule.Executor) error {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	return s.Behavior.Tick(ctx, s.Data, exec)
}

// World owns scenes and the executor they share.
type World struct {
	mu     sync.RWMutex
	scenes map[SceneID]*Scene
	free   []SceneID
	nextID SceneID
	exec   schedule.Executor
	log    *logrus.Entry
}

// NewWorld returns a world ticking scenes on exec. A nil exec starts one goroutine
// per concurrent system.
func NewWorld(exec schedule.Executor, logger *logrus.Logger) *World {
	if exec == nil {
		exec = schedule.Goroutines
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &World{
		scenes: make(map[SceneID]*Scene),
		exec:   exec,
		log:    logger.WithField("component", "world"),
	}
}

// NewScene creates an empty scene, reusing the id of a removed scene if any.
func (w *World) NewScene() *Scene {
	w.mu.Lock()
	defer w.mu.Unlock()

	var id SceneID
	if n := len(w.free); n > 0 {
		id = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		id = w.nextID
		w.nextID++
	}
	registry := depot.Factory.NewRegistry()
	s := &Scene{
		id:       id,
		Registry: registry,
		Data:     depot.Factory.NewDataManager(registry),
		Behavior: schedule.Factory.NewScheduler(),
	}
	w.scenes[id] = s
	w.log.WithField("scene", id).Debug("scene created")
	return s
}

func (w *World) Scene(id SceneID) (*Scene, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s, ok := w.scenes[id]
	return s, ok
}

// RemoveScene drops the scene and recycles its id.
func (w *World) RemoveScene(id SceneID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.scenes[id]; !ok {
		return SceneNotFoundError{ID: id}
	}
	delete(w.scenes, id)
	w.free = append(w.free, id)
	w.log.WithField("scene", id).Debug("scene removed")
	return nil
}

// Scenes returns the ids of live scenes in ascending order.
func (w *World) Scenes() []SceneID {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := make([]SceneID, 0, len(w.scenes))
	for id := range w.scenes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Tick ticks every scene once, in id order, and joins their errors.
func (w *World) Tick(ctx context.Context) error {
	var errs []error
	for _, id := range w.Scenes() {
		s, ok := w.Scene(id)
		if !ok {
			continue
		}
		if err := s.Tick(ctx, w.exec); err != nil {
			errs = append(errs, fmt.Errorf("scene %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
