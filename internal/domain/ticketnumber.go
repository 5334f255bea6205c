package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Ticket numbers follow one canonical fixed-width format everywhere they are
// generated, parsed, or validated: a 6-digit period (UTC year and month)
// followed by a hyphen and a 5-digit zero-padded sequence, e.g. 202608-00042.
const (
	periodWidth   = 6
	sequenceWidth = 5

	// MaxSequence is the highest sequence a single period can hold.
	MaxSequence = 99999
)

var ticketNumberPattern = regexp.MustCompile(`^[0-9]{6}-[0-9]{5}$`)

// SequenceScope is the calendar period that partitions ticket numbers.
type SequenceScope struct {
	Year  int
	Month time.Month
}

// ScopeFor derives the sequence scope for a creation instant.
func ScopeFor(t time.Time) SequenceScope {
	u := t.UTC()
	return SequenceScope{Year: u.Year(), Month: u.Month()}
}

// Key renders the scope as the 6-digit period prefix.
func (s SequenceScope) Key() string {
	return fmt.Sprintf("%04d%02d", s.Year, int(s.Month))
}

// FormatTicketNumber renders the canonical number for a scope and sequence.
func FormatTicketNumber(scope SequenceScope, seq int64) (string, error) {
	if seq < 1 || seq > MaxSequence {
		return "", fmt.Errorf("sequence %d out of range 1..%d for period %s", seq, MaxSequence, scope.Key())
	}
	return fmt.Sprintf("%s-%0*d", scope.Key(), sequenceWidth, seq), nil
}

// ParseTicketNumber decomposes a canonical ticket number.
func ParseTicketNumber(number string) (SequenceScope, int64, error) {
	if !ticketNumberPattern.MatchString(number) {
		return SequenceScope{}, 0, fmt.Errorf("malformed ticket number %q", number)
	}
	parts := strings.SplitN(number, "-", 2)
	year, err := strconv.Atoi(parts[0][:4])
	if err != nil {
		return SequenceScope{}, 0, fmt.Errorf("malformed ticket number %q", number)
	}
	month, err := strconv.Atoi(parts[0][4:])
	if err != nil || month < 1 || month > 12 {
		return SequenceScope{}, 0, fmt.Errorf("ticket number %q has invalid month", number)
	}
	seq, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || seq < 1 {
		return SequenceScope{}, 0, fmt.Errorf("ticket number %q has invalid sequence", number)
	}
	return SequenceScope{Year: year, Month: time.Month(month)}, seq, nil
}

// ValidTicketNumber reports whether a string is a well-formed ticket number.
func ValidTicketNumber(number string) bool {
	_, _, err := ParseTicketNumber(number)
	return err == nil
}
