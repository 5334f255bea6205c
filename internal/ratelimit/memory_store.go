package ratelimit

import (
	"context"
	"sync"
	"time"
)

const memoryShards = 32

// sweep stale counters roughly every N writes per shard
const sweepInterval = 256

// MemoryStore is the single-process Store: a sharded map with one mutex per
// shard so unrelated callers never serialize on a global lock. Counters are
// created lazily and expired lazily on the next access past their window.
type MemoryStore struct {
	shards [memoryShards]memoryShard
	now    func() time.Time
}

type memoryShard struct {
	mu       sync.Mutex
	counters map[string]*windowCounter
	writes   int
}

type windowCounter struct {
	count   int64
	resetAt time.Time
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{now: time.Now}
	for i := range s.shards {
		s.shards[i].counters = make(map[string]*windowCounter)
	}
	return s
}

func (s *MemoryStore) shardFor(key string) *memoryShard {
	var h uint32 = 2166136261
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= 16777619
	}
	return &s.shards[h%memoryShards]
}

// Incr implements Store.
func (s *MemoryStore) Incr(_ context.Context, key string, limit int64, window time.Duration) (int64, time.Time, bool, error) {
	now := s.now()
	shard := s.shardFor(key)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	shard.writes++
	if shard.writes >= sweepInterval {
		shard.writes = 0
		for k, c := range shard.counters {
			if !now.Before(c.resetAt) {
				delete(shard.counters, k)
			}
		}
	}

	counter, ok := shard.counters[key]
	if !ok || !now.Before(counter.resetAt) {
		counter = &windowCounter{count: 0, resetAt: now.Add(window)}
		shard.counters[key] = counter
	}

	if counter.count >= limit {
		return counter.count, counter.resetAt, false, nil
	}
	counter.count++
	return counter.count, counter.resetAt, true, nil
}

// Peek implements Store.
func (s *MemoryStore) Peek(_ context.Context, key string) (int64, error) {
	now := s.now()
	shard := s.shardFor(key)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	counter, ok := shard.counters[key]
	if !ok || !now.Before(counter.resetAt) {
		return 0, nil
	}
	return counter.count, nil
}
