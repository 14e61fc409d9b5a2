package schedule

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/TheBitDrifter/depot"
	"github.com/sirupsen/logrus"
)

type completion struct {
	id  SystemID
	err error
}

// tickRun is the state of one Tick call.
type tickRun struct {
	s    *Scheduler
	ctx  context.Context
	data *depot.DataManager
	exec Executor

	remaining map[SystemID]int
	ready     []SystemID
	// Inline systems whose columns were held when they became ready. They are
	// retried after the next completion.
	blocked  []SystemID
	inFlight map[SystemID]time.Time
	done     chan completion

	executed int
	skipped  int
	errs     []error
}

// Tick runs every enabled system once. A system starts only after all of its
// predecessors completed. The data manager is locked for the duration of the
// tick and operations queued by systems are applied when it returns.
//
// Concurrent systems take their columns on the executor. An inline system whose
// columns are held by a running system is retried after the next completion, so
// the ticking goroutine only waits on completions.
//
// Handler errors and recovered panics do not stop dependent systems; they are
// returned joined once the tick is over. When ctx is cancelled no further system
// is started, systems already running are awaited and ctx.Err() is included in the
// result.
func (s *Scheduler) Tick(ctx context.Context, data *depot.DataManager, exec Executor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pure) == 0 {
		return nil
	}
	if exec == nil {
		exec = Goroutines
	}

	data.Lock()
	run := s.newTickRun(ctx, data, exec)
	start := time.Now()
	run.execute()
	if err := data.Unlock(); err != nil {
		run.errs = append(run.errs, fmt.Errorf("failed to apply queued operations: %w", err))
	}

	s.log.WithFields(logrus.Fields{
		"executed": run.executed,
		"skipped":  run.skipped,
		"failed":   len(run.errs),
		"elapsed":  time.Since(start),
	}).Trace("tick complete")
	return errors.Join(run.errs...)
}

func (s *Scheduler) newTickRun(ctx context.Context, data *depot.DataManager, exec Executor) *tickRun {
	run := &tickRun{
		s:         s,
		ctx:       ctx,
		data:      data,
		exec:      exec,
		remaining: make(map[SystemID]int),
		inFlight:  make(map[SystemID]time.Time),
	}
	enabled := 0
	for i := 0; i < s.nodes.Len(); i++ {
		n := s.nodes.GetItem(i)
		if !n.registered || n.disabled {
			continue
		}
		enabled++
		if _, pure := s.pure[n.id]; pure {
			run.ready = append(run.ready, n.id)
			continue
		}
		run.remaining[n.id] = len(s.prev[n.id])
	}
	slices.Sort(run.ready)
	run.done = make(chan completion, enabled)
	return run
}

func (r *tickRun) execute() {
	for {
		for len(r.ready) > 0 {
			id := r.ready[0]
			r.ready = r.ready[1:]
			if r.ctx.Err() != nil {
				r.skipped++
				continue
			}
			r.dispatch(id, false)
		}
		if len(r.inFlight) == 0 {
			if len(r.blocked) == 0 {
				break
			}
			// Nothing in this tick holds the columns, so only their outside holder
			// can release them.
			id := r.blocked[0]
			r.blocked = r.blocked[1:]
			if r.ctx.Err() != nil {
				r.skipped++
				continue
			}
			r.dispatch(id, true)
			continue
		}
		r.complete(r.await())
		r.ready = slices.Concat(r.blocked, r.ready)
		r.blocked = nil
	}
	if err := r.ctx.Err(); err != nil {
		r.errs = append(r.errs, err)
	}
}

// dispatch starts one system. Inline systems that cannot take their columns
// without waiting are parked in r.blocked unless wait is set. Concurrent systems
// take their columns on the executor.
func (r *tickRun) dispatch(id SystemID, wait bool) {
	n := r.s.node(id)
	sys := n.system
	tc := &TickContext{
		Context: r.ctx,
		System:  sys.Name,
		Manager: r.data,
		Log:     r.s.log.WithField("system", sys.Name),
	}

	switch h := sys.Handler.(type) {
	case Inline:
		if sys.Query != nil {
			if wait {
				tc.Data = r.data.Resolve(sys.Query)
			} else {
				accessor, ok := r.data.TryResolve(sys.Query)
				if !ok {
					r.blocked = append(r.blocked, id)
					return
				}
				tc.Data = accessor
			}
		}
		err := guard(sys.Name, func() error { return h(tc) })
		r.complete(completion{id: id, err: errors.Join(err, release(tc.Data))})
	case Concurrent:
		r.inFlight[id] = time.Now()
		r.exec.Go(func() {
			if sys.Query != nil {
				tc.Data = r.data.Resolve(sys.Query)
			}
			tasks := newTasks(r.ctx, sys.Name)
			err := guard(sys.Name, func() error { return h(tc, tasks) })
			waitErr := tasks.Wait()
			r.done <- completion{id: id, err: errors.Join(err, waitErr, release(tc.Data))}
		})
	default:
		r.complete(completion{id: id, err: InvalidSystemError{System: sys.Name, Reason: fmt.Sprintf("unknown handler %T", h)}})
	}
}

func release(a *depot.Accessor) error {
	if a == nil {
		return nil
	}
	return a.Release()
}

// await blocks for the next completion, logging the in-flight systems every
// stall timeout.
func (r *tickRun) await() completion {
	if r.s.stallTimeout <= 0 {
		c := <-r.done
		delete(r.inFlight, c.id)
		return c
	}
	timer := time.NewTimer(r.s.stallTimeout)
	defer timer.Stop()
	for {
		select {
		case c := <-r.done:
			delete(r.inFlight, c.id)
			return c
		case <-timer.C:
			r.s.log.WithFields(logrus.Fields{
				"running": r.running(),
				"waiting": r.waiting(),
				"timeout": r.s.stallTimeout,
			}).Warn("tick stalled waiting on systems")
			timer.Reset(r.s.stallTimeout)
		}
	}
}

func (r *tickRun) running() []string {
	out := make([]string, 0, len(r.inFlight))
	for id, started := range r.inFlight {
		out = append(out, fmt.Sprintf("%s (%s)", r.s.node(id).name, time.Since(started).Round(time.Millisecond)))
	}
	slices.Sort(out)
	return out
}

// waiting names the inline systems parked behind held columns.
func (r *tickRun) waiting() []string {
	out := make([]string, 0, len(r.blocked))
	for _, id := range r.blocked {
		out = append(out, r.s.node(id).name)
	}
	slices.Sort(out)
	return out
}

// complete records a finished system and readies successors whose predecessors
// have all completed.
func (r *tickRun) complete(c completion) {
	r.executed++
	n := r.s.node(c.id)
	if c.err != nil {
		r.errs = append(r.errs, fmt.Errorf("system %q: %w", n.name, c.err))
		r.s.log.WithError(c.err).WithField("system", n.name).Warn("system failed")
	}
	successors := make([]SystemID, 0, len(r.s.next[c.id]))
	for succ := range r.s.next[c.id] {
		successors = append(successors, succ)
	}
	slices.Sort(successors)
	for _, succ := range successors {
		left, ok := r.remaining[succ]
		if !ok {
			continue
		}
		left--
		r.remaining[succ] = left
		if left == 0 {
			r.ready = append(r.ready, succ)
		}
	}
}
