package namegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateUniqueUntilExhaustion(t *testing.T) {
	a := NewAllocator()
	a.ConfigureTheme("m1", ThemeColors)

	poolSize := len(pools[ThemeColors])
	seen := make(map[string]bool)
	for i := 0; i < poolSize; i++ {
		name := a.Allocate("m1")
		assert.False(t, seen[name], "name %q allocated twice before exhaustion", name)
		seen[name] = true
	}
	assert.Len(t, seen, poolSize)
}

func TestAllocateRecyclesOnExhaustion(t *testing.T) {
	a := NewAllocator()
	a.ConfigureTheme("m1", ThemeColors)

	poolSize := len(pools[ThemeColors])
	for i := 0; i < poolSize; i++ {
		a.Allocate("m1")
	}

	// The pool is exhausted; the next draw must still succeed.
	name := a.Allocate("m1")
	require.NotEmpty(t, name)
	assert.Contains(t, pools[ThemeColors], name)
}

func TestUnknownThemeFallsBackToMixed(t *testing.T) {
	a := NewAllocator()
	a.ConfigureTheme("m1", "dinosaurs")

	name := a.Allocate("m1")
	assert.Contains(t, mixedPool(), name)
}

func TestMeetingsAreIsolated(t *testing.T) {
	a := NewAllocator()
	a.ConfigureTheme("m1", ThemeColors)
	a.ConfigureTheme("m2", ThemeColors)

	poolSize := len(pools[ThemeColors])
	for i := 0; i < poolSize; i++ {
		a.Allocate("m1")
	}

	// m1 exhausted its pool, m2 still has every name free.
	assert.Len(t, a.Allocated("m1"), poolSize)
	assert.Empty(t, a.Allocated("m2"))
	assert.NotEmpty(t, a.Allocate("m2"))
}

func TestReleaseAllFreesNames(t *testing.T) {
	a := NewAllocator()
	a.ConfigureTheme("m1", ThemeColors)
	a.Allocate("m1")
	a.Allocate("m1")
	require.Len(t, a.Allocated("m1"), 2)

	a.ReleaseAll("m1")
	assert.Empty(t, a.Allocated("m1"))
}
