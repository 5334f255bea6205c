// Package sla computes response and resolution deadlines at ticket creation.
package sla

import (
	"math"
	"time"

	"github.com/spec-kit/intake-service/internal/domain"
)

// CategorySLA carries the base hours a category grants before deadlines.
type CategorySLA struct {
	BaseHours         int
	ResponseBaseHours int
}

// Targets is the computed SLA summary for one ticket.
type Targets struct {
	ResponseTarget   time.Time
	ResolutionTarget time.Time
	Priority         domain.TicketPriority
	EstimatedDays    int
	// DefaultApplied is set when the requested priority had no SLA
	// definition and the default priority was substituted. The caller is
	// responsible for logging the fallback.
	DefaultApplied bool
}

// DefaultMultipliers divides the category base hours per priority; a higher
// multiplier means a tighter deadline.
var DefaultMultipliers = map[domain.TicketPriority]float64{
	domain.TicketPriorityLow:    0.5,
	domain.TicketPriorityMedium: 1,
	domain.TicketPriorityHigh:   2,
	domain.TicketPriorityUrgent: 4,
}

// Calculator derives SLA targets. Pure: no I/O, no shared state.
type Calculator struct {
	multipliers     map[domain.TicketPriority]float64
	defaultPriority domain.TicketPriority
}

// NewCalculator builds a calculator with the default multiplier table.
func NewCalculator(defaultPriority domain.TicketPriority) *Calculator {
	return &Calculator{
		multipliers:     DefaultMultipliers,
		defaultPriority: defaultPriority,
	}
}

// Targets resolves the priority (falling back to the default when undefined
// or unset) and computes both deadlines from the category base hours.
func (c *Calculator) Targets(createdAt time.Time, priority domain.TicketPriority, category CategorySLA) Targets {
	resolved := priority
	defaultApplied := false
	multiplier, ok := c.multipliers[resolved]
	if !ok {
		resolved = c.defaultPriority
		defaultApplied = true
		multiplier = c.multipliers[resolved]
		if multiplier == 0 {
			multiplier = 1
		}
	}

	resolutionOffset := hoursOver(category.BaseHours, multiplier)
	return Targets{
		ResponseTarget:   createdAt.Add(hoursOver(category.ResponseBaseHours, multiplier)),
		ResolutionTarget: createdAt.Add(resolutionOffset),
		Priority:         resolved,
		EstimatedDays:    int(math.Ceil(resolutionOffset.Hours() / 24)),
		DefaultApplied:   defaultApplied,
	}
}

func hoursOver(baseHours int, multiplier float64) time.Duration {
	return time.Duration(float64(baseHours) / multiplier * float64(time.Hour))
}
