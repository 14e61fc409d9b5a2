package schedule

import (
	"context"

	"github.com/TheBitDrifter/depot"
	"golang.org/x/sync/errgroup"
)

var _ Executor = &Pool{}

// Pool is a bounded executor. Go blocks while every worker is busy.
type Pool struct {
	group errgroup.Group
}

// NewPool returns a pool running at most workers functions at once. Zero or less
// means unbounded.
func NewPool(workers int) *Pool {
	p := &Pool{}
	if workers > 0 {
		p.group.SetLimit(workers)
	}
	return p
}

func (p *Pool) Go(fn func()) {
	p.group.Go(func() error {
		fn()
		return nil
	})
}

// Wait blocks until every function started on the pool has returned.
func (p *Pool) Wait() {
	_ = p.group.Wait()
}

// Tasks is the sub-task group of one concurrent system run.
type Tasks struct {
	system string
	group  *errgroup.Group
	ctx    context.Context
}

func newTasks(ctx context.Context, system string) *Tasks {
	group, gctx := errgroup.WithContext(ctx)
	return &Tasks{system: system, group: group, ctx: gctx}
}

// SetLimit bounds how many sub-tasks run at once. It must be called before Go.
func (t *Tasks) SetLimit(n int) {
	t.group.SetLimit(n)
}

// Go starts fn. The context passed to fn is cancelled once any sub-task fails.
func (t *Tasks) Go(fn func(ctx context.Context) error) {
	t.group.Go(func() error {
		return guard(t.system, func() error { return fn(t.ctx) })
	})
}

// Wait blocks until every sub-task returned and reports the first error.
func (t *Tasks) Wait() error {
	return t.group.Wait()
}

// ForEachChunk starts one sub-task per chunk view of the accessor.
func ForEachChunk(tasks *Tasks, accessor *depot.Accessor, fn func(ctx context.Context, view *depot.ChunkView) error) {
	if accessor == nil {
		return
	}
	for _, view := range accessor.Views() {
		tasks.Go(func(ctx context.Context) error {
			return fn(ctx, view)
		})
	}
}

// guard turns a panic in fn into a PanicError.
func guard(system string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = PanicError{System: system, Value: r}
		}
	}()
	return fn()
}
