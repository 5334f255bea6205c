package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/intake-service/internal/repository"
)

// TxFunc runs inside a transaction; the db handle it receives is the
// transaction itself.
type TxFunc func(ctx context.Context, db repository.DB) error

// UnitOfWork executes a closure with all-or-nothing persistence: the closure
// either commits as a whole or leaves no trace. Injected into the intake
// workflow so atomicity does not depend on an ambient client.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

type pgUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork builds a pool-backed unit of work.
func NewUnitOfWork(pool *pgxpool.Pool) UnitOfWork {
	return &pgUnitOfWork{pool: pool}
}

func (u *pgUnitOfWork) WithinTx(ctx context.Context, fn TxFunc) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// rollback is a no-op once the transaction committed; it also runs when
	// fn panics, so the sequence row lock is released either way
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
