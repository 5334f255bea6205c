package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/intake-service/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Insert(ctx context.Context, db DB, ticket *domain.Ticket) error
	GetByNumber(ctx context.Context, db DB, number string) (*domain.Ticket, error)
	GetByID(ctx context.Context, db DB, id string) (*domain.Ticket, error)
}

type ticketRepository struct{}

// NewTicketRepository instantiates the repository.
func NewTicketRepository() TicketRepository {
	return &ticketRepository{}
}

func (r *ticketRepository) Insert(ctx context.Context, db DB, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_number, service_id, entity_id, category_slug, subject, description,
                             status, priority, submitter_email, submitter_phone, channel, qr_code_id, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id`
	err := db.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.ServiceID,
		ticket.EntityID,
		ticket.CategorySlug,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.SubmitterEmail,
		ticket.SubmitterPhone,
		ticket.Channel,
		ticket.QRCodeID,
		ticket.CreatedAt,
	).Scan(&ticket.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateTicketNumber
	}
	return err
}

func (r *ticketRepository) GetByNumber(ctx context.Context, db DB, number string) (*domain.Ticket, error) {
	const query = ticketSelect + ` WHERE ticket_number=$1`
	return r.fetchSingle(ctx, db, query, number)
}

func (r *ticketRepository) GetByID(ctx context.Context, db DB, id string) (*domain.Ticket, error) {
	const query = ticketSelect + ` WHERE id=$1`
	return r.fetchSingle(ctx, db, query, id)
}

const ticketSelect = `
        SELECT id, ticket_number, service_id, entity_id, category_slug, subject, description,
               status, priority, submitter_email, submitter_phone, channel, qr_code_id, created_at
        FROM tickets`

func (r *ticketRepository) fetchSingle(ctx context.Context, db DB, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := db.QueryRow(ctx, query, arg).Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.ServiceID,
		&ticket.EntityID,
		&ticket.CategorySlug,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.SubmitterEmail,
		&ticket.SubmitterPhone,
		&ticket.Channel,
		&ticket.QRCodeID,
		&ticket.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}
