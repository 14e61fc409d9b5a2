package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(*TickContext) error { return nil }

func register(t *testing.T, s *Scheduler, name string, after, before []string) {
	t.Helper()
	require.NoError(t, s.Register(System{Name: name, Handler: Inline(noop)}, after, before))
}

func TestRegisterPure(t *testing.T) {
	s := Factory.NewScheduler()
	register(t, s, "input", nil, nil)
	register(t, s, "physics", []string{"input"}, nil)
	register(t, s, "audio", nil, nil)
	register(t, s, "render", []string{"physics"}, nil)

	assert.Equal(t, []string{"audio", "input"}, s.Pure())
	assert.Equal(t, []string{"audio", "input", "physics", "render"}, s.Systems())
	assert.Equal(t, []string{"physics"}, s.Successors("input"))
	assert.Equal(t, []string{"physics"}, s.Predecessors("render"))
}

func TestRegisterErrors(t *testing.T) {
	s := Factory.NewScheduler()
	register(t, s, "a", nil, nil)

	tests := []struct {
		name   string
		system System
		after  []string
		before []string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "duplicate",
			system: System{Name: "a", Handler: Inline(noop)},
			check: func(t *testing.T, err error) {
				var exists SystemExistsError
				assert.ErrorAs(t, err, &exists)
			},
		},
		{
			name:   "empty name",
			system: System{Handler: Inline(noop)},
			check: func(t *testing.T, err error) {
				var invalid InvalidSystemError
				assert.ErrorAs(t, err, &invalid)
			},
		},
		{
			name:   "nil handler",
			system: System{Name: "b"},
			check: func(t *testing.T, err error) {
				var invalid InvalidSystemError
				assert.ErrorAs(t, err, &invalid)
			},
		},
		{
			name:   "after itself",
			system: System{Name: "b", Handler: Inline(noop)},
			after:  []string{"b"},
			check: func(t *testing.T, err error) {
				var cycle CycledSystemLinksError
				assert.ErrorAs(t, err, &cycle)
			},
		},
		{
			name:   "before and after the same system",
			system: System{Name: "b", Handler: Inline(noop)},
			after:  []string{"a"},
			before: []string{"a"},
			check: func(t *testing.T, err error) {
				var cycle CycledSystemLinksError
				assert.ErrorAs(t, err, &cycle)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Register(tt.system, tt.after, tt.before)
			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, []string{"a"}, s.Systems())
			assert.Equal(t, []string{"a"}, s.Pure())
		})
	}
}

func TestRegisterRejectsCycle(t *testing.T) {
	s := Factory.NewScheduler()
	register(t, s, "a", nil, nil)
	register(t, s, "b", []string{"a"}, nil)
	register(t, s, "c", []string{"b"}, nil)

	err := s.Register(System{Name: "d", Handler: Inline(noop)}, []string{"c"}, []string{"a"})
	var cycle CycledSystemLinksError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, "d", cycle.System)

	assert.False(t, s.Registered("d"))
	assert.Equal(t, []string{"a"}, s.Pure())
	assert.Empty(t, s.Predecessors("a"))
	assert.Empty(t, s.Successors("c"))

	// The same links are fine once they no longer close a loop.
	register(t, s, "d", []string{"c"}, nil)
	assert.Equal(t, []string{"d"}, s.Successors("c"))
}

func TestRegisterRejectsCycleThroughPlaceholder(t *testing.T) {
	s := Factory.NewScheduler()
	register(t, s, "a", []string{"b"}, nil)

	err := s.Register(System{Name: "b", Handler: Inline(noop)}, []string{"a"}, nil)
	var cycle CycledSystemLinksError
	assert.ErrorAs(t, err, &cycle)
	assert.False(t, s.Registered("b"))
}

func TestBeforeMatchesAfter(t *testing.T) {
	viaAfter := Factory.NewScheduler()
	register(t, viaAfter, "x", nil, nil)
	register(t, viaAfter, "y", []string{"x"}, nil)

	viaBefore := Factory.NewScheduler()
	register(t, viaBefore, "y", nil, nil)
	register(t, viaBefore, "x", nil, []string{"y"})

	for _, s := range []*Scheduler{viaAfter, viaBefore} {
		assert.Equal(t, []string{"x"}, s.Pure())
		assert.Equal(t, []string{"y"}, s.Successors("x"))
		assert.Equal(t, []string{"x"}, s.Predecessors("y"))
		assert.Empty(t, s.Successors("y"))
	}
}

func TestDisabledPropagation(t *testing.T) {
	s := Factory.NewScheduler()
	register(t, s, "b", []string{"a"}, nil)
	register(t, s, "c", []string{"b"}, nil)

	assert.True(t, s.Disabled("b"))
	assert.True(t, s.Disabled("c"), "disabled state is transitive")
	assert.Empty(t, s.Pure())

	register(t, s, "a", nil, nil)
	assert.False(t, s.Disabled("b"))
	assert.False(t, s.Disabled("c"))
	assert.Equal(t, []string{"a"}, s.Pure())

	require.NoError(t, s.Unregister("a"))
	assert.False(t, s.Registered("a"))
	assert.True(t, s.Disabled("b"))
	assert.True(t, s.Disabled("c"))
	assert.Equal(t, []string{"a"}, s.Predecessors("b"), "edges declared by b survive")

	register(t, s, "a", nil, nil)
	assert.False(t, s.Disabled("c"))
}

func TestUnregisterDisablesDependents(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T, s *Scheduler)
	}{
		{
			name: "declared with after",
			build: func(t *testing.T, s *Scheduler) {
				register(t, s, "a", nil, nil)
				register(t, s, "b", []string{"a"}, nil)
				register(t, s, "c", []string{"b"}, nil)
			},
		},
		{
			name: "declared with before",
			build: func(t *testing.T, s *Scheduler) {
				register(t, s, "c", nil, nil)
				register(t, s, "b", nil, []string{"c"})
				register(t, s, "a", nil, []string{"b"})
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Factory.NewScheduler()
			tt.build(t, s)
			assert.Equal(t, []string{"a"}, s.Pure())

			require.NoError(t, s.Unregister("a"))
			assert.True(t, s.Disabled("b"))
			assert.True(t, s.Disabled("c"))
			assert.Empty(t, s.Pure())
			assert.Equal(t, []string{"a"}, s.Predecessors("b"))

			register(t, s, "a", nil, []string{"b"})
			assert.False(t, s.Disabled("b"))
			assert.False(t, s.Disabled("c"))
			assert.Equal(t, []string{"a"}, s.Pure())
		})
	}
}

func TestReregisterReplacesDeclarations(t *testing.T) {
	s := Factory.NewScheduler()
	register(t, s, "b", nil, nil)
	register(t, s, "a", nil, []string{"b"})
	require.NoError(t, s.Unregister("a"))
	assert.True(t, s.Disabled("b"))

	// a used to run before b; running after b now is not a cycle.
	register(t, s, "a", []string{"b"}, nil)
	assert.False(t, s.Disabled("b"))
	assert.Equal(t, []string{"b"}, s.Pure())
	assert.Equal(t, []string{"b"}, s.Predecessors("a"))
	assert.Empty(t, s.Predecessors("b"))
}

func TestRejectedRegistrationKeepsArenaRoom(t *testing.T) {
	prev := Config.maxSystems
	Config.SetMaxSystems(3)
	s := Factory.NewScheduler()
	Config.maxSystems = prev

	register(t, s, "a", nil, nil)
	for i := 0; i < 3; i++ {
		err := s.Register(System{Name: "x", Handler: Inline(noop)}, []string{"a", "y"}, []string{"a"})
		var cycle CycledSystemLinksError
		require.ErrorAs(t, err, &cycle)
	}
	assert.Equal(t, 1, s.nodes.Len())

	register(t, s, "b", []string{"a"}, nil)
	register(t, s, "c", []string{"b"}, nil)
	assert.Equal(t, []string{"a", "b", "c"}, s.Systems())
}

func TestUnregisterUnknown(t *testing.T) {
	s := Factory.NewScheduler()
	register(t, s, "b", []string{"a"}, nil)

	var notFound SystemNotFoundError
	assert.ErrorAs(t, s.Unregister("missing"), &notFound)
	assert.ErrorAs(t, s.Unregister("a"), &notFound, "placeholders are not registered")
}

func TestBuilder(t *testing.T) {
	s := Factory.NewScheduler()
	require.NoError(t, s.NewSystem("first").Inline(noop))
	require.NoError(t, s.NewSystem("last").After("first").Concurrent(func(*TickContext, *Tasks) error { return nil }))
	require.NoError(t, s.NewSystem("middle").After("first").Before("last").Inline(noop))

	assert.Equal(t, []string{"first", "middle"}, s.Predecessors("last"))
	assert.Equal(t, []string{"first"}, s.Pure())

	var cycle CycledSystemLinksError
	assert.ErrorAs(t, s.NewSystem("loop").After("last").Before("first").Inline(noop), &cycle)
}

func TestMaxSystems(t *testing.T) {
	prev := Config.maxSystems
	Config.SetMaxSystems(2)
	s := Factory.NewScheduler()
	Config.maxSystems = prev

	register(t, s, "a", nil, nil)
	err := s.Register(System{Name: "b", Handler: Inline(noop)}, []string{"c"}, nil)
	var full ArenaFullError
	assert.ErrorAs(t, err, &full)
	assert.Equal(t, 2, full.Capacity)
}
