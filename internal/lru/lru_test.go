package lru_test

import (
	"fmt"
	"testing"

	"github.com/statekit/statepack/internal/lru"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c := lru.New(4)
	c.Set("a", 1)
	c.Set("b", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_OverwriteKeepsSingleEntry(t *testing.T) {
	c := lru.New(4)
	c.Set("a", 1)
	c.Set("a", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := lru.New(2)
	c.Set("a", 1)
	c.Set("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestCache_CapacityBound(t *testing.T) {
	c := lru.New(128)
	for i := 0; i < 200; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	assert.Equal(t, 128, c.Len())

	// The oldest entries are gone, the newest survive.
	_, ok := c.Get("k0")
	assert.False(t, ok)
	v, ok := c.Get("k199")
	require.True(t, ok)
	assert.Equal(t, 199, v)
}

func TestCache_Purge(t *testing.T) {
	c := lru.New(8)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)

	// Reusable after a purge.
	c.Set("c", 3)
	v, ok := c.Get("c")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestCache_Stats(t *testing.T) {
	c := lru.New(8)
	c.Set("a", 1)

	_, _ = c.Get("a")
	_, _ = c.Get("a")
	_, _ = c.Get("nope")

	st := c.Stats()
	assert.Equal(t, int64(2), st.Hits)
	assert.Equal(t, int64(1), st.Misses)
	assert.Equal(t, int64(1), st.Entries)
}

func TestCache_ZeroCapacityUnbounded(t *testing.T) {
	c := lru.New(0)
	for i := 0; i < 300; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	assert.Equal(t, 300, c.Len())
}
