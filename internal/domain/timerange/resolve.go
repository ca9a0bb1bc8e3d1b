package timerange

import (
	"time"

	"github.com/agenda-app/server/internal/domain/field"
)

// Payload carries every request key the resolver understands.
// Handlers embed it in their request bodies.
type Payload struct {
	StartDate field.String `json:"start_date"`
	Start     field.String `json:"start"`
	EndDate   field.String `json:"end_date"`
	End       field.String `json:"end"`
	Date      field.String `json:"date"`
	StartTime field.String `json:"start_time"`
	EndTime   field.String `json:"end_time"`
}

// Range is a resolved start/end pair.
type Range struct {
	Start time.Time
	End   time.Time
}

func (p Payload) startValue() (string, bool) { return field.First(p.StartDate, p.Start) }
func (p Payload) endValue() (string, bool)   { return field.First(p.EndDate, p.End) }

// Resolve builds a range from an explicit start/end pair, falling back to
// the date + start_time + end_time triple. Ordering is not checked here.
func Resolve(p Payload) (Range, error) {
	start, hasStart := p.startValue()
	end, hasEnd := p.endValue()
	if hasStart && hasEnd {
		return resolvePair(start, end)
	}
	if field.Present(p.Date) && field.Present(p.StartTime) && field.Present(p.EndTime) {
		return resolveTriple(p)
	}
	return Range{}, ErrMissingInput
}

// ResolveUpdate applies the keys present in p on top of current.
// Any pair key requires a complete pair, otherwise any triple key requires a
// complete triple. With neither, current is returned unchanged.
func ResolveUpdate(p Payload, current Range) (Range, error) {
	switch {
	case p.StartDate.Set || p.Start.Set || p.EndDate.Set || p.End.Set:
		start, hasStart := p.startValue()
		end, hasEnd := p.endValue()
		if !hasStart || !hasEnd {
			return Range{}, ErrMissingPair
		}
		return resolvePair(start, end)
	case p.Date.Set || p.StartTime.Set || p.EndTime.Set:
		if !field.Present(p.Date) || !field.Present(p.StartTime) || !field.Present(p.EndTime) {
			return Range{}, ErrMissingTriple
		}
		return resolveTriple(p)
	default:
		return current, nil
	}
}

// RequireOrdered rejects ranges where end is not strictly after start.
func RequireOrdered(start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidRange
	}
	return nil
}

func resolvePair(rawStart, rawEnd string) (Range, error) {
	start, err := Normalize(rawStart)
	if err != nil {
		return Range{}, err
	}
	end, err := Normalize(rawEnd)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: end}, nil
}

func resolveTriple(p Payload) (Range, error) {
	rawDate := field.Text(p.Date)
	day, err := time.Parse(time.DateOnly, rawDate)
	if err != nil {
		return Range{}, &FormatError{Value: rawDate, Reason: partsReason}
	}
	startHour, startMinute, err := parseClock(field.Text(p.StartTime))
	if err != nil {
		return Range{}, err
	}
	endHour, endMinute, err := parseClock(field.Text(p.EndTime))
	if err != nil {
		return Range{}, err
	}
	return Range{
		Start: time.Date(day.Year(), day.Month(), day.Day(), startHour, startMinute, 0, 0, time.UTC),
		End:   time.Date(day.Year(), day.Month(), day.Day(), endHour, endMinute, 0, 0, time.UTC),
	}, nil
}

const partsReason = "use YYYY-MM-DD and HH:MM"

func parseClock(raw string) (int, int, error) {
	parsed, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, 0, &FormatError{Value: raw, Reason: partsReason}
	}
	return parsed.Hour(), parsed.Minute(), nil
}
