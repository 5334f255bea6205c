package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreIncrInitializesWindow(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2026, time.August, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	count, resetAt, consumed, err := store.Incr(context.Background(), "k", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, consumed)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, base.Add(time.Minute), resetAt)
}

func TestMemoryStoreIncrStopsAtLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _, consumed, err := store.Incr(ctx, "k", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, consumed)
	}

	count, _, consumed, err := store.Incr(ctx, "k", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, consumed)
	assert.Equal(t, int64(2), count, "denied calls leave the counter unchanged")
}

func TestMemoryStoreLazyExpiry(t *testing.T) {
	store := NewMemoryStore()
	current := time.Date(2026, time.August, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	ctx := context.Background()

	_, _, _, err := store.Incr(ctx, "k", 5, time.Minute)
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)

	count, err := store.Peek(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, count, "expired counters read as zero")

	count, resetAt, consumed, err := store.Incr(ctx, "k", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, consumed)
	assert.Equal(t, int64(1), count, "expired counters restart from a fresh window")
	assert.Equal(t, current.Add(time.Minute), resetAt)
}

func TestMemoryStorePeekUnknownKey(t *testing.T) {
	store := NewMemoryStore()
	count, err := store.Peek(context.Background(), "missing")
	require.NoError(t, err)
	assert.Zero(t, count)
}
