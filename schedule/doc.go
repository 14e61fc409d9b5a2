/*
Package schedule runs systems against a depot.DataManager once per tick.

Systems declare which systems must finish before them (After) and which must
start after them (Before). The scheduler keeps both directions of that graph,
rejects registrations that would close a cycle, and disables every system that
transitively depends on a system that is not registered.

A tick starts from the pure systems, the ones with no predecessors. Inline
systems run on the goroutine calling Tick; concurrent systems run on an Executor
and may fan out further through Tasks. A system becomes ready once all of its
predecessors have completed, and Tick returns when every reachable system has run
exactly once.

	sched := schedule.Factory.NewScheduler()
	sched.NewSystem("input").Inline(readInput)
	sched.NewSystem("physics").After("input").Query(moving).Concurrent(integrate)
	sched.NewSystem("render").After("physics").Inline(draw)

	pool := schedule.NewPool(runtime.NumCPU())
	err := sched.Tick(ctx, data, pool)
*/
package schedule
