package domain

import "time"

// ActivityType captures what an activity-log entry records.
type ActivityType string

const (
	ActivityTicketCreated ActivityType = "created"
)

// ActorSystem marks entries written on behalf of public submissions.
const ActorSystem = "system"

// ActivityEvent is an append-only audit entry. Intake never updates or
// deletes entries once written.
type ActivityEvent struct {
	ID          string
	TicketID    string
	EventType   ActivityType
	Actor       string
	Description string
	CreatedAt   time.Time
}
