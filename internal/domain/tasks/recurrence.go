package tasks

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/agenda-app/server/internal/validation"
)

// Recurrence is the repeat indicator stored with a task.
type Recurrence int

const (
	RecurrenceNone Recurrence = iota
	RecurrenceDaily
	RecurrenceWeekly
	RecurrenceMonthly
	RecurrenceYearly
)

const maxOccurrences = 1000

// DefaultWindow is the span expanded when a caller gives no end.
const DefaultWindow = 90 * 24 * time.Hour

func (r Recurrence) String() string {
	switch r {
	case RecurrenceNone:
		return "none"
	case RecurrenceDaily:
		return "daily"
	case RecurrenceWeekly:
		return "weekly"
	case RecurrenceMonthly:
		return "monthly"
	case RecurrenceYearly:
		return "yearly"
	default:
		return fmt.Sprintf("recurrence(%d)", int(r))
	}
}

// ParseRecurrence validates a raw indicator.
func ParseRecurrence(value int64) (Recurrence, error) {
	if value < int64(RecurrenceNone) || value > int64(RecurrenceYearly) {
		return 0, validation.Errorf("recurrence", "must be between %d and %d", RecurrenceNone, RecurrenceYearly)
	}
	return Recurrence(value), nil
}

func (r Recurrence) frequency() (rrule.Frequency, bool) {
	switch r {
	case RecurrenceDaily:
		return rrule.DAILY, true
	case RecurrenceWeekly:
		return rrule.WEEKLY, true
	case RecurrenceMonthly:
		return rrule.MONTHLY, true
	case RecurrenceYearly:
		return rrule.YEARLY, true
	default:
		return 0, false
	}
}

// Rule returns the RFC 5545 rule for r, or nil for RecurrenceNone.
func (r Recurrence) Rule(start time.Time) (*rrule.RRule, error) {
	freq, ok := r.frequency()
	if !ok {
		return nil, nil
	}
	rule, err := rrule.NewRRule(rrule.ROption{Freq: freq, Dtstart: start})
	if err != nil {
		return nil, fmt.Errorf("build %s rule: %w", r, err)
	}
	return rule, nil
}

// Occurrences lists the dates of t that fall inside [from, to].
// Expansion stops after maxOccurrences dates.
func Occurrences(t Task, from, to time.Time) ([]time.Time, error) {
	rule, err := t.Recurrence.Rule(t.Date)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		if t.Date.Before(from) || t.Date.After(to) {
			return []time.Time{}, nil
		}
		return []time.Time{t.Date}, nil
	}

	out := make([]time.Time, 0)
	iter := rule.Iterator()
	for {
		next, ok := iter()
		if !ok || next.After(to) || len(out) == maxOccurrences {
			break
		}
		if !next.Before(from) {
			out = append(out, next.UTC())
		}
	}
	return out, nil
}
