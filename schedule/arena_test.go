package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena(t *testing.T) {
	arena := FactoryNewArena[string](2)

	first, err := arena.Register("a", "alpha")
	require.NoError(t, err)
	assert.Equal(t, 0, first)

	second, err := arena.Register("b", "beta")
	require.NoError(t, err)
	assert.Equal(t, 1, second)

	again, err := arena.Register("a", "alpha2")
	require.NoError(t, err)
	assert.Equal(t, first, again, "existing keys keep their index")
	assert.Equal(t, "alpha2", *arena.GetItem(first))

	_, err = arena.Register("c", "gamma")
	var full ArenaFullError
	require.ErrorAs(t, err, &full)
	assert.Equal(t, 2, arena.Len())

	index, ok := arena.GetIndex("b")
	assert.True(t, ok)
	assert.Equal(t, 1, index)
	_, ok = arena.GetIndex("c")
	assert.False(t, ok)
}
