package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/intake-service/internal/domain"
)

var createdAt = time.Date(2026, time.August, 10, 9, 0, 0, 0, time.UTC)

func TestTargetsPerPriority(t *testing.T) {
	calc := NewCalculator(domain.TicketPriorityMedium)
	category := CategorySLA{BaseHours: 48, ResponseBaseHours: 8}

	cases := []struct {
		name       string
		priority   domain.TicketPriority
		resolution time.Duration
		response   time.Duration
		days       int
	}{
		{"low halves urgency", domain.TicketPriorityLow, 96 * time.Hour, 16 * time.Hour, 4},
		{"medium uses base", domain.TicketPriorityMedium, 48 * time.Hour, 8 * time.Hour, 2},
		{"high tightens to half", domain.TicketPriorityHigh, 24 * time.Hour, 4 * time.Hour, 1},
		{"urgent tightens to quarter", domain.TicketPriorityUrgent, 12 * time.Hour, 2 * time.Hour, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			targets := calc.Targets(createdAt, tc.priority, category)
			assert.Equal(t, createdAt.Add(tc.resolution), targets.ResolutionTarget)
			assert.Equal(t, createdAt.Add(tc.response), targets.ResponseTarget)
			assert.Equal(t, tc.priority, targets.Priority)
			assert.Equal(t, tc.days, targets.EstimatedDays)
			assert.False(t, targets.DefaultApplied)
		})
	}
}

func TestTargetsExactArithmetic(t *testing.T) {
	// base hours 48 with multiplier 2 must land exactly 24 hours out
	calc := NewCalculator(domain.TicketPriorityMedium)
	targets := calc.Targets(createdAt, domain.TicketPriorityHigh, CategorySLA{BaseHours: 48, ResponseBaseHours: 8})
	assert.True(t, targets.ResolutionTarget.Equal(createdAt.Add(24*time.Hour)))
}

func TestTargetsDefaultsWhenPriorityUnset(t *testing.T) {
	calc := NewCalculator(domain.TicketPriorityMedium)
	targets := calc.Targets(createdAt, "", CategorySLA{BaseHours: 48, ResponseBaseHours: 8})

	assert.True(t, targets.DefaultApplied)
	assert.Equal(t, domain.TicketPriorityMedium, targets.Priority)
	assert.Equal(t, createdAt.Add(48*time.Hour), targets.ResolutionTarget)
}

func TestTargetsDefaultsWhenPriorityUnknown(t *testing.T) {
	calc := NewCalculator(domain.TicketPriorityMedium)
	targets := calc.Targets(createdAt, domain.TicketPriority("BLOCKER"), CategorySLA{BaseHours: 48, ResponseBaseHours: 8})

	assert.True(t, targets.DefaultApplied)
	assert.Equal(t, domain.TicketPriorityMedium, targets.Priority)
}

func TestTargetsIsPure(t *testing.T) {
	calc := NewCalculator(domain.TicketPriorityMedium)
	category := CategorySLA{BaseHours: 30, ResponseBaseHours: 6}

	first := calc.Targets(createdAt, domain.TicketPriorityHigh, category)
	second := calc.Targets(createdAt, domain.TicketPriorityHigh, category)
	assert.Equal(t, first, second)
}
