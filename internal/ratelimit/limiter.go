package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Endpoint classes known to the limiter.
const (
	ClassTicketSubmit = "ticket_submit"
	ClassTicketLookup = "ticket_lookup"
)

// ClassConfig is the fixed-window budget for one endpoint class.
type ClassConfig struct {
	Limit  int64
	Window time.Duration
}

// Decision reports the outcome of a rate limit check.
type Decision struct {
	Allowed    bool
	Limit      int64
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter applies per-(caller, endpoint class) fixed windows on top of a
// pluggable counter Store.
type Limiter struct {
	store   Store
	classes map[string]ClassConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewLimiter builds a limiter for the configured endpoint classes.
func NewLimiter(store Store, classes map[string]ClassConfig, logger *zap.Logger) *Limiter {
	return &Limiter{
		store:   store,
		classes: classes,
		logger:  logger,
		now:     time.Now,
	}
}

// Check consumes one slot for the caller if the window still has capacity.
// Denials carry the delay until the window resets.
func (l *Limiter) Check(ctx context.Context, identity, class string) (Decision, error) {
	cfg, ok := l.classes[class]
	if !ok {
		return Decision{}, fmt.Errorf("unknown rate limit class %q", class)
	}

	key := CounterKey(identity, class)
	count, resetAt, consumed, err := l.store.Incr(ctx, key, cfg.Limit, cfg.Window)
	if err != nil {
		return Decision{}, err
	}

	decision := Decision{
		Allowed: consumed,
		Limit:   cfg.Limit,
		ResetAt: resetAt,
	}
	if remaining := cfg.Limit - count; remaining > 0 {
		decision.Remaining = remaining
	}
	if !consumed {
		decision.RetryAfter = resetAt.Sub(l.now())
		if decision.RetryAfter < 0 {
			decision.RetryAfter = 0
		}
		l.logger.Debug("rate limit denied",
			zap.String("class", class),
			zap.Int64("count", count),
			zap.Time("reset_at", resetAt))
	}
	return decision, nil
}

// RequiresEscalatedVerification reports whether the caller has reached the
// friction threshold (e.g. demand a CAPTCHA). Read-only: no slot is consumed.
func (l *Limiter) RequiresEscalatedVerification(ctx context.Context, identity, class string, threshold int64) (bool, error) {
	count, err := l.store.Peek(ctx, CounterKey(identity, class))
	if err != nil {
		return false, err
	}
	return count >= threshold, nil
}

// PeekCount reports the caller's current window usage without consuming a slot.
func (l *Limiter) PeekCount(ctx context.Context, identity, class string) (int64, error) {
	return l.store.Peek(ctx, CounterKey(identity, class))
}
