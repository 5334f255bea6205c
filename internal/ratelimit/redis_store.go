package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript performs the conditional increment server-side so the check and
// the write cannot interleave across instances. Returns {count, pttl_ms,
// consumed}.
var incrScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local limit = tonumber(ARGV[1])
if current >= limit then
  return {current, redis.call('PTTL', KEYS[1]), 0}
end
local count = redis.call('INCR', KEYS[1])
if count == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return {count, redis.call('PTTL', KEYS[1]), 1}
`)

// RedisStore is the shared Store used when the service runs as multiple
// instances: every counter lives in Redis with atomic increment-with-expiry
// semantics, so the window guarantee does not depend on process topology.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore wraps a connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "ratelimit:", now: time.Now}
}

// Incr implements Store.
func (s *RedisStore) Incr(ctx context.Context, key string, limit int64, window time.Duration) (int64, time.Time, bool, error) {
	now := s.now()
	res, err := incrScript.Run(ctx, s.client, []string{s.prefix + key}, limit, window.Milliseconds()).Result()
	if err != nil {
		return 0, time.Time{}, false, fmt.Errorf("ratelimit incr: %w", err)
	}

	values, ok := res.([]interface{})
	if !ok || len(values) != 3 {
		return 0, time.Time{}, false, fmt.Errorf("ratelimit incr: unexpected script reply %T", res)
	}
	count, _ := values[0].(int64)
	ttlMillis, _ := values[1].(int64)
	consumed, _ := values[2].(int64)

	resetAt := now.Add(window)
	if ttlMillis > 0 {
		resetAt = now.Add(time.Duration(ttlMillis) * time.Millisecond)
	}
	return count, resetAt, consumed == 1, nil
}

// Peek implements Store.
func (s *RedisStore) Peek(ctx context.Context, key string) (int64, error) {
	count, err := s.client.Get(ctx, s.prefix+key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ratelimit peek: %w", err)
	}
	return count, nil
}
