package domain

import "time"

// SlaRecord carries the deadlines computed at ticket creation. Exactly one
// record exists per ticket, written in the same transaction.
type SlaRecord struct {
	ID               string
	TicketID         string
	ResponseTarget   time.Time
	ResolutionTarget time.Time
	Breached         bool
	CreatedAt        time.Time
}
