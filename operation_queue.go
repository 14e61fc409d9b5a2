package depot

import (
	"errors"
	"fmt"
)

type operation struct {
	values []ComponentValue
	entity EntityID
}

// opQueue holds structural changes requested while the data manager is locked.
type opQueue struct {
	createOps      []operation
	destroyOps     []operation
	pendingDestroy map[EntityID]struct{}
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[EntityID]struct{}),
	}
}

func (q *opQueue) enqueueCreate(values []ComponentValue) {
	q.createOps = append(q.createOps, operation{values: values})
}

func (q *opQueue) enqueueDestroy(id EntityID) {
	if _, exists := q.pendingDestroy[id]; exists {
		return
	}
	q.pendingDestroy[id] = struct{}{}
	q.destroyOps = append(q.destroyOps, operation{entity: id})
}

func (q *opQueue) empty() bool {
	return len(q.createOps) == 0 && len(q.destroyOps) == 0
}

func (q *opQueue) reset() {
	q.createOps = q.createOps[:0]
	q.destroyOps = q.destroyOps[:0]
	clear(q.pendingDestroy)
}

// processOperationQueue applies queued creates, then queued destroys. The caller
// holds dm.mu.
func (dm *DataManager) processOperationQueue() error {
	if dm.opQueue.empty() {
		return nil
	}
	defer dm.opQueue.reset()

	var errs []error
	for _, op := range dm.opQueue.createOps {
		if _, err := dm.addEntity(op.values); err != nil {
			errs = append(errs, fmt.Errorf("failed to process queued entity creation: %w", err))
		}
	}
	for _, op := range dm.opQueue.destroyOps {
		if err := dm.removeEntity(op.entity); err != nil {
			errs = append(errs, fmt.Errorf("failed to process queued entity removal: %w", err))
		}
	}
	if len(errs) > 0 {
		dm.log.WithField("failed", len(errs)).Warn("queued operations failed")
	}
	return errors.Join(errs...)
}
