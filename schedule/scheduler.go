package schedule

import (
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type set map[SystemID]struct{}

type systemNode struct {
	id         SystemID
	name       string
	registered bool
	disabled   bool
	system     System
	// Edges declared by this system. They survive Unregister and are replaced
	// when the name is registered again.
	after  []SystemID
	before []SystemID
}

// Scheduler keeps the system dependency graph and drives ticks over it.
type Scheduler struct {
	mu    sync.Mutex
	nodes *SimpleArena[systemNode]

	prev map[SystemID]set
	next map[SystemID]set
	pure set

	stallTimeout time.Duration
	log          *logrus.Entry
}

func newScheduler() *Scheduler {
	return &Scheduler{
		nodes:        newArena[systemNode](Config.maxSystems),
		prev:         make(map[SystemID]set),
		next:         make(map[SystemID]set),
		pure:         make(set),
		stallTimeout: Config.stallTimeout,
		log:          Config.log().WithField("component", "behavior"),
	}
}

// intern returns the id for name, adding an unregistered placeholder on first use.
func (s *Scheduler) intern(name string) (SystemID, error) {
	if index, ok := s.nodes.GetIndex(name); ok {
		return SystemID(index), nil
	}
	index, err := s.nodes.Register(name, systemNode{id: SystemID(s.nodes.Len()), name: name})
	if err != nil {
		return 0, err
	}
	return SystemID(index), nil
}

func (s *Scheduler) node(id SystemID) *systemNode {
	return s.nodes.GetItem(int(id))
}

func (s *Scheduler) lookup(name string) (*systemNode, bool) {
	index, ok := s.nodes.GetIndex(name)
	if !ok {
		return nil, false
	}
	n := s.nodes.GetItem(index)
	return n, n.registered
}

// Register adds sys to the graph. predecessors must complete before sys runs;
// successors run after it. A rejected registration leaves the scheduler
// unchanged.
func (s *Scheduler) Register(sys System, predecessors, successors []string) error {
	if sys.Name == "" {
		return InvalidSystemError{Reason: "empty name"}
	}
	if sys.Handler == nil {
		return InvalidSystemError{System: sys.Name, Reason: "nil handler"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, registered := s.lookup(sys.Name); registered {
		return SystemExistsError{System: sys.Name}
	}
	if s.closesCycle(sys.Name, predecessors, successors) {
		return CycledSystemLinksError{System: sys.Name}
	}
	if unknown := s.unknownNames(sys.Name, predecessors, successors); s.nodes.Len()+unknown > s.nodes.maxCapacity {
		return ArenaFullError{Capacity: s.nodes.maxCapacity}
	}

	id, err := s.intern(sys.Name)
	if err != nil {
		return err
	}
	after, err := s.internAll(predecessors)
	if err != nil {
		return err
	}
	before, err := s.internAll(successors)
	if err != nil {
		return err
	}

	n := s.node(id)
	n.registered = true
	n.system = sys
	n.after = after
	n.before = before
	s.rebuild()

	s.log.WithFields(logrus.Fields{
		"system":   sys.Name,
		"mode":     sys.Handler.Mode(),
		"after":    predecessors,
		"before":   successors,
		"disabled": n.disabled,
	}).Debug("system registered")
	return nil
}

func (s *Scheduler) internAll(names []string) ([]SystemID, error) {
	ids := make([]SystemID, 0, len(names))
	for _, name := range names {
		id, err := s.intern(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// unknownNames counts the distinct names the arena has not interned yet.
func (s *Scheduler) unknownNames(name string, groups ...[]string) int {
	seen := make(map[string]struct{})
	count := func(n string) {
		if _, ok := s.nodes.GetIndex(n); ok {
			return
		}
		seen[n] = struct{}{}
	}
	count(name)
	for _, group := range groups {
		for _, n := range group {
			count(n)
		}
	}
	return len(seen)
}

// Unregister removes the system from the schedule. The edges it declared stay
// in the graph, so every system ordered after it is disabled until a system with
// the same name is registered again.
func (s *Scheduler) Unregister(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, registered := s.lookup(name)
	if !registered {
		return SystemNotFoundError{System: name}
	}
	n.registered = false
	n.system = System{}
	s.rebuild()

	s.log.WithField("system", name).Debug("system unregistered")
	return nil
}

// closesCycle reports whether registering name with the given links would create
// a cycle. The declarations name made before an earlier Unregister are replaced
// and take no part. Names the arena has not seen have no edges yet.
func (s *Scheduler) closesCycle(name string, predecessors, successors []string) bool {
	if slices.Contains(predecessors, name) || slices.Contains(successors, name) {
		return true
	}
	for _, p := range predecessors {
		if slices.Contains(successors, p) {
			return true
		}
	}

	self, known := s.nodes.GetIndex(name)
	edges := make(map[string][]string)
	for i := 0; i < s.nodes.Len(); i++ {
		n := s.nodes.GetItem(i)
		if known && i == self {
			continue
		}
		for _, p := range n.after {
			edges[s.node(p).name] = append(edges[s.node(p).name], n.name)
		}
		for _, succ := range n.before {
			edges[n.name] = append(edges[n.name], s.node(succ).name)
		}
	}
	for _, p := range predecessors {
		edges[p] = append(edges[p], name)
	}
	edges[name] = append(edges[name], successors...)

	visited := make(map[string]struct{})
	stack := slices.Clone(edges[name])
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == name {
			return true
		}
		if _, seen := visited[cur]; seen {
			continue
		}
		visited[cur] = struct{}{}
		stack = append(stack, edges[cur]...)
	}
	return false
}

// rebuild recomputes both adjacency maps, the pure set and the disabled flags
// from the declarations of every system, registered or not.
func (s *Scheduler) rebuild() {
	clear(s.prev)
	clear(s.next)
	clear(s.pure)

	link := func(from, to SystemID) {
		if s.next[from] == nil {
			s.next[from] = make(set)
		}
		s.next[from][to] = struct{}{}
		if s.prev[to] == nil {
			s.prev[to] = make(set)
		}
		s.prev[to][from] = struct{}{}
	}

	for i := 0; i < s.nodes.Len(); i++ {
		n := s.nodes.GetItem(i)
		for _, p := range n.after {
			link(p, n.id)
		}
		for _, succ := range n.before {
			link(n.id, succ)
		}
	}

	for i := 0; i < s.nodes.Len(); i++ {
		n := s.nodes.GetItem(i)
		if n.registered && len(s.prev[n.id]) == 0 {
			s.pure[n.id] = struct{}{}
		}
	}
	s.recomputeDisabled()
}

// recomputeDisabled marks a system disabled when any predecessor is unregistered
// or itself disabled.
func (s *Scheduler) recomputeDisabled() {
	state := make(map[SystemID]bool, s.nodes.Len())
	var disabled func(id SystemID) bool
	disabled = func(id SystemID) bool {
		if d, ok := state[id]; ok {
			return d
		}
		state[id] = true
		n := s.node(id)
		d := !n.registered
		for p := range s.prev[id] {
			if d {
				break
			}
			d = disabled(p)
		}
		state[id] = d
		return d
	}

	for i := 0; i < s.nodes.Len(); i++ {
		n := s.nodes.GetItem(i)
		if !n.registered {
			continue
		}
		d := false
		for p := range s.prev[n.id] {
			if disabled(p) {
				d = true
				break
			}
		}
		if d != n.disabled {
			s.log.WithFields(logrus.Fields{
				"system":   n.name,
				"disabled": d,
			}).Info("system availability changed")
		}
		n.disabled = d
	}
}

// Registered reports whether a system with that name is registered.
func (s *Scheduler) Registered(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.lookup(name)
	return ok
}

// Disabled reports whether the system is registered but cannot run because a
// transitive predecessor is missing.
func (s *Scheduler) Disabled(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.lookup(name)
	return ok && n.disabled
}

// Pure returns the names of registered systems without predecessors, sorted.
func (s *Scheduler) Pure() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.names(s.pure)
}

// Predecessors returns the systems that must complete before name, sorted.
func (s *Scheduler) Predecessors(name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, ok := s.nodes.GetIndex(name)
	if !ok {
		return nil
	}
	return s.names(s.prev[SystemID(index)])
}

// Successors returns the systems that run after name, sorted.
func (s *Scheduler) Successors(name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, ok := s.nodes.GetIndex(name)
	if !ok {
		return nil
	}
	return s.names(s.next[SystemID(index)])
}

// Systems returns the names of every registered system, sorted.
func (s *Scheduler) Systems() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for i := 0; i < s.nodes.Len(); i++ {
		if n := s.nodes.GetItem(i); n.registered {
			out = append(out, n.name)
		}
	}
	slices.Sort(out)
	return out
}

func (s *Scheduler) names(ids set) []string {
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, s.node(id).name)
	}
	slices.Sort(out)
	return out
}
