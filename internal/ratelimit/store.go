package ratelimit

import (
	"context"
	"time"
)

// Store holds fixed-window counters. Incr must perform the check and the
// increment as one atomic operation per key: it increments only while the
// counter is below limit, and reports the post-operation count either way.
// A split read-then-write implementation would admit more than limit
// concurrent callers.
type Store interface {
	// Incr returns the counter value after the call, the window reset time,
	// and whether a slot was consumed. A missing or expired counter is
	// initialized to a fresh window before the check.
	Incr(ctx context.Context, key string, limit int64, window time.Duration) (count int64, resetAt time.Time, consumed bool, err error)

	// Peek returns the current counter value without consuming a slot.
	// Expired or absent counters read as zero.
	Peek(ctx context.Context, key string) (int64, error)
}
