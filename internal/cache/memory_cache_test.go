package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Value string `json:"value"`
}

func newClockedCache(start time.Time) (*MemoryCache, *time.Time) {
	now := start
	c := NewMemoryCache()
	c.now = func() time.Time { return now }
	return c, &now
}

func TestMemoryCache_HitWithinTTL(t *testing.T) {
	c, now := newClockedCache(time.Unix(1000, 0))
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", payload{Value: "v1"}, 5*time.Second))
	*now = now.Add(4 * time.Second)

	var got payload
	hit, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "v1", got.Value)
}

func TestMemoryCache_ExpiredEntryIsAMiss(t *testing.T) {
	c, now := newClockedCache(time.Unix(1000, 0))
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", payload{Value: "v1"}, 5*time.Second))
	*now = now.Add(6 * time.Second)

	var got payload
	hit, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	// expired entry was evicted, not just skipped
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_OverwriteWins(t *testing.T) {
	c, _ := newClockedCache(time.Unix(1000, 0))
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", payload{Value: "old"}, 5*time.Second))
	require.NoError(t, c.SetJSON(ctx, "k", payload{Value: "new"}, 5*time.Second))

	var got payload
	hit, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "new", got.Value)
}

func TestMemoryCache_Del(t *testing.T) {
	c, _ := newClockedCache(time.Unix(1000, 0))
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", payload{Value: "v"}, 5*time.Second))
	require.NoError(t, c.Del(ctx, "k"))

	var got payload
	hit, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryCache_SweepBoundsSize(t *testing.T) {
	c, now := newClockedCache(time.Unix(1000, 0))
	ctx := context.Background()

	// fill past the sweep threshold with entries that age past 2xTTL
	for i := 0; i < sweepThreshold; i++ {
		require.NoError(t, c.SetJSON(ctx, fmt.Sprintf("old-%d", i), payload{Value: "x"}, 5*time.Second))
	}
	*now = now.Add(11 * time.Second)

	// the write that crosses the threshold sweeps the stale entries
	require.NoError(t, c.SetJSON(ctx, "fresh", payload{Value: "y"}, 5*time.Second))
	assert.Equal(t, 1, c.Len())

	var got payload
	hit, err := c.GetJSON(ctx, "fresh", &got)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestMemoryCache_CorruptEntryIsAMiss(t *testing.T) {
	c, _ := newClockedCache(time.Unix(1000, 0))
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", "just a string", 5*time.Second))

	var got payload
	hit, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 0, c.Len())
}
