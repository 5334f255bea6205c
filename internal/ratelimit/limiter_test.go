package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testClass = "ticket_submit"

func newTestLimiter(limit int64, window time.Duration) (*Limiter, *MemoryStore, *time.Time) {
	store := NewMemoryStore()
	current := time.Date(2026, time.August, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	limiter := NewLimiter(store, map[string]ClassConfig{
		testClass: {Limit: limit, Window: window},
	}, zap.NewNop())
	limiter.now = store.now
	return limiter, store, &current
}

func TestCheckAdmitsExactlyLimit(t *testing.T) {
	limiter, _, _ := newTestLimiter(5, time.Hour)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		decision, err := limiter.Check(ctx, "198.51.100.7", testClass)
		require.NoError(t, err)
		assert.True(t, decision.Allowed, "request %d should pass", i)
		assert.Equal(t, 5-i, decision.Remaining)
		assert.Zero(t, decision.RetryAfter)
	}

	decision, err := limiter.Check(ctx, "198.51.100.7", testClass)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Zero(t, decision.Remaining)
	assert.Greater(t, decision.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, decision.RetryAfter, time.Hour)
}

func TestCheckIsolatesCallers(t *testing.T) {
	limiter, _, _ := newTestLimiter(1, time.Hour)
	ctx := context.Background()

	first, err := limiter.Check(ctx, "198.51.100.7", testClass)
	require.NoError(t, err)
	assert.True(t, first.Allowed)

	other, err := limiter.Check(ctx, "203.0.113.9", testClass)
	require.NoError(t, err)
	assert.True(t, other.Allowed, "a different caller has its own window")
}

func TestCheckWindowResets(t *testing.T) {
	limiter, _, current := newTestLimiter(1, time.Hour)
	ctx := context.Background()

	first, err := limiter.Check(ctx, "198.51.100.7", testClass)
	require.NoError(t, err)
	assert.True(t, first.Allowed)

	denied, err := limiter.Check(ctx, "198.51.100.7", testClass)
	require.NoError(t, err)
	assert.False(t, denied.Allowed)

	*current = current.Add(time.Hour + time.Second)

	again, err := limiter.Check(ctx, "198.51.100.7", testClass)
	require.NoError(t, err)
	assert.True(t, again.Allowed, "a fresh window admits again")
}

func TestCheckConcurrentNeverExceedsLimit(t *testing.T) {
	limiter, _, _ := newTestLimiter(10, time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decision, err := limiter.Check(ctx, "198.51.100.7", testClass)
			if err != nil {
				return
			}
			if decision.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, allowed, "check-and-increment must be atomic per key")
}

func TestRequiresEscalatedVerification(t *testing.T) {
	limiter, _, _ := newTestLimiter(10, time.Hour)
	ctx := context.Background()

	required, err := limiter.RequiresEscalatedVerification(ctx, "198.51.100.7", testClass, 3)
	require.NoError(t, err)
	assert.False(t, required)

	for i := 0; i < 3; i++ {
		_, err := limiter.Check(ctx, "198.51.100.7", testClass)
		require.NoError(t, err)
	}

	required, err = limiter.RequiresEscalatedVerification(ctx, "198.51.100.7", testClass, 3)
	require.NoError(t, err)
	assert.True(t, required)

	// the peek itself must not consume a slot
	count, err := limiter.PeekCount(ctx, "198.51.100.7", testClass)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestCheckUnknownClass(t *testing.T) {
	limiter, _, _ := newTestLimiter(5, time.Hour)
	_, err := limiter.Check(context.Background(), "198.51.100.7", "no_such_class")
	assert.Error(t, err)
}

func TestCounterKeyDistinguishesClassAndIdentity(t *testing.T) {
	assert.NotEqual(t, CounterKey("a", "submit"), CounterKey("a", "lookup"))
	assert.NotEqual(t, CounterKey("a", "submit"), CounterKey("b", "submit"))
	assert.Equal(t, CounterKey("a", "submit"), CounterKey("a", "submit"))
}
