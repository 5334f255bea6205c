package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Intake only ever
// assigns TicketStatusOpen; later transitions belong to the ticket-management
// subsystem.
type TicketStatus string

const (
	TicketStatusOpen TicketStatus = "OPEN"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// TicketChannel records how a submission reached the service.
type TicketChannel string

const (
	ChannelWeb   TicketChannel = "WEB"
	ChannelPhone TicketChannel = "PHONE"
	ChannelKiosk TicketChannel = "KIOSK"
	ChannelQR    TicketChannel = "QR"
)

// Ticket is the aggregate created by a public submission.
type Ticket struct {
	ID             string
	TicketNumber   string
	ServiceID      string
	EntityID       string
	CategorySlug   string
	Subject        string
	Description    string
	Status         TicketStatus
	Priority       TicketPriority
	SubmitterEmail *string
	SubmitterPhone *string
	Channel        TicketChannel
	QRCodeID       *string
	CreatedAt      time.Time
}
