package schedule

import "github.com/TheBitDrifter/depot"

// SystemBuilder collects a system's ordering constraints and query before
// registering it.
type SystemBuilder struct {
	scheduler *Scheduler
	name      string
	query     *depot.Query
	after     []string
	before    []string
}

func (s *Scheduler) NewSystem(name string) *SystemBuilder {
	return &SystemBuilder{scheduler: s, name: name}
}

// After declares systems that must complete before this one runs.
func (b *SystemBuilder) After(names ...string) *SystemBuilder {
	b.after = append(b.after, names...)
	return b
}

// Before declares systems that may only run once this one has completed.
func (b *SystemBuilder) Before(names ...string) *SystemBuilder {
	b.before = append(b.before, names...)
	return b
}

func (b *SystemBuilder) Query(q *depot.Query) *SystemBuilder {
	b.query = q
	return b
}

// Inline registers the system with a handler run on the ticking goroutine.
func (b *SystemBuilder) Inline(fn Inline) error {
	return b.register(fn)
}

// Concurrent registers the system with a handler run on the executor.
func (b *SystemBuilder) Concurrent(fn Concurrent) error {
	return b.register(fn)
}

func (b *SystemBuilder) register(h Handler) error {
	return b.scheduler.Register(System{Name: b.name, Query: b.query, Handler: h}, b.after, b.before)
}
