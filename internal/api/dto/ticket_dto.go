package dto

import (
	"time"
)

// SubmitTicketRequest payload for public submissions.
type SubmitTicketRequest struct {
	ServiceID      string  `json:"service_id"`
	EntityID       string  `json:"entity_id"`
	Subject        string  `json:"subject"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	Priority       string  `json:"priority,omitempty"`
	SubmitterEmail *string `json:"submitter_email,omitempty"`
	SubmitterPhone *string `json:"submitter_phone,omitempty"`
	Channel        string  `json:"channel,omitempty"`
	QRCodeID       *string `json:"qr_code_id,omitempty"`
}

// SLASummaryResponse is the SLA block of a submission or lookup response.
type SLASummaryResponse struct {
	ResponseTarget   time.Time `json:"response_target"`
	ResolutionTarget time.Time `json:"resolution_target"`
	Priority         string    `json:"priority"`
	EstimatedDays    int       `json:"estimated_days"`
}

// SubmitTicketResponse returned on creation.
type SubmitTicketResponse struct {
	TicketID     string             `json:"ticket_id"`
	TicketNumber string             `json:"ticket_number"`
	Status       string             `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	SLA          SLASummaryResponse `json:"sla"`
}

// ActivityEntryResponse is one audit-trail line in a lookup.
type ActivityEntryResponse struct {
	EventType   string    `json:"event_type"`
	Actor       string    `json:"actor"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TicketDetailResponse provides full ticket info for a lookup.
type TicketDetailResponse struct {
	TicketID       string                  `json:"ticket_id"`
	TicketNumber   string                  `json:"ticket_number"`
	ServiceID      string                  `json:"service_id"`
	EntityID       string                  `json:"entity_id"`
	Category       string                  `json:"category"`
	Subject        string                  `json:"subject"`
	Description    string                  `json:"description"`
	Status         string                  `json:"status"`
	Priority       string                  `json:"priority"`
	Channel        string                  `json:"channel"`
	SubmitterEmail *string                 `json:"submitter_email,omitempty"`
	SubmitterPhone *string                 `json:"submitter_phone,omitempty"`
	QRCodeID       *string                 `json:"qr_code_id,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	SLA            *SLASummaryResponse     `json:"sla,omitempty"`
	Activity       []ActivityEntryResponse `json:"activity"`
}

// VerificationResponse reports the escalated-verification pre-check.
type VerificationResponse struct {
	CaptchaRequired     bool  `json:"captcha_required"`
	SubmissionsInWindow int64 `json:"submissions_in_window"`
}
