// Package sequence assigns per-period ticket sequence numbers.
package sequence

import (
	"context"
	"fmt"

	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/repository"
)

// Allocator hands out the next sequence number within a period scope. Next
// must run on the submission's transaction handle so the allocation and the
// ticket insert commit or roll back together.
type Allocator interface {
	Next(ctx context.Context, db repository.DB, scope domain.SequenceScope) (int64, error)
}

type counterAllocator struct{}

// NewCounterAllocator builds the Postgres counter-row allocator.
func NewCounterAllocator() Allocator {
	return &counterAllocator{}
}

// Next bumps the per-scope counter row atomically. The upsert takes the row
// lock, so concurrent submissions in the same period serialize here for the
// remainder of their transactions; a scope's first submission creates the row
// with last_value 1. Scopes are never pre-allocated.
func (a *counterAllocator) Next(ctx context.Context, db repository.DB, scope domain.SequenceScope) (int64, error) {
	const query = `
        INSERT INTO ticket_sequences (scope, last_value) VALUES ($1, 1)
        ON CONFLICT (scope) DO UPDATE
        SET last_value = ticket_sequences.last_value + 1, updated_at = NOW()
        RETURNING last_value`
	var seq int64
	if err := db.QueryRow(ctx, query, scope.Key()).Scan(&seq); err != nil {
		return 0, fmt.Errorf("allocate sequence for scope %s: %w", scope.Key(), err)
	}
	return seq, nil
}
