package repository

import (
	"context"

	"github.com/spec-kit/intake-service/internal/domain"
)

// ActivityRepository appends to the ticket activity log. The log is
// append-only: no update or delete statements exist here.
type ActivityRepository interface {
	Append(ctx context.Context, db DB, event *domain.ActivityEvent) error
	ListByTicket(ctx context.Context, db DB, ticketID string) ([]domain.ActivityEvent, error)
}

type activityRepository struct{}

// NewActivityRepository instantiates the repository.
func NewActivityRepository() ActivityRepository {
	return &activityRepository{}
}

func (r *activityRepository) Append(ctx context.Context, db DB, event *domain.ActivityEvent) error {
	const query = `
        INSERT INTO activity_log (ticket_id, event_type, actor, description, created_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	return db.QueryRow(ctx, query,
		event.TicketID,
		event.EventType,
		event.Actor,
		event.Description,
		event.CreatedAt,
	).Scan(&event.ID)
}

func (r *activityRepository) ListByTicket(ctx context.Context, db DB, ticketID string) ([]domain.ActivityEvent, error) {
	const query = `
        SELECT id, ticket_id, event_type, actor, description, created_at
        FROM activity_log WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ActivityEvent
	for rows.Next() {
		var event domain.ActivityEvent
		if err := rows.Scan(
			&event.ID,
			&event.TicketID,
			&event.EventType,
			&event.Actor,
			&event.Description,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}
