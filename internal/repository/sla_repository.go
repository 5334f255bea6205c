package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/intake-service/internal/domain"
)

// SLARepository stores per-ticket SLA records.
type SLARepository interface {
	Insert(ctx context.Context, db DB, record *domain.SlaRecord) error
	GetByTicket(ctx context.Context, db DB, ticketID string) (*domain.SlaRecord, error)
}

type slaRepository struct{}

// NewSLARepository instantiates the repository.
func NewSLARepository() SLARepository {
	return &slaRepository{}
}

func (r *slaRepository) Insert(ctx context.Context, db DB, record *domain.SlaRecord) error {
	const query = `
        INSERT INTO sla_records (ticket_id, response_target, resolution_target, breached)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return db.QueryRow(ctx, query,
		record.TicketID,
		record.ResponseTarget,
		record.ResolutionTarget,
		record.Breached,
	).Scan(&record.ID, &record.CreatedAt)
}

func (r *slaRepository) GetByTicket(ctx context.Context, db DB, ticketID string) (*domain.SlaRecord, error) {
	const query = `
        SELECT id, ticket_id, response_target, resolution_target, breached, created_at
        FROM sla_records WHERE ticket_id=$1`
	var record domain.SlaRecord
	err := db.QueryRow(ctx, query, ticketID).Scan(
		&record.ID,
		&record.TicketID,
		&record.ResponseTarget,
		&record.ResolutionTarget,
		&record.Breached,
		&record.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
