package domain

import "time"

// Entity is an organization that owns services (e.g. an agency).
type Entity struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

// Service is a public-facing offering submissions are filed against.
type Service struct {
	ID        string
	EntityID  string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

// Category classifies a submission and carries the SLA base hours used to
// derive deadlines.
type Category struct {
	Slug              string
	Name              string
	BaseHours         int
	ResponseBaseHours int
	IsActive          bool
}
