package timerange

import (
	"strings"
	"time"
)

// layouts accepted after canonicalisation. Values without an offset parse as UTC.
var layouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
}

// Canonicalize rewrites a loosely formatted date/time into strict ISO-8601.
// Empty input stays empty.
func Canonicalize(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	value = strings.Replace(value, " ", "T", 1)
	if !strings.Contains(value, "T") {
		value += "T00:00"
	}
	if strings.HasSuffix(value, "Z") {
		value = strings.TrimSuffix(value, "Z") + "+00:00"
	}
	return value
}

// Normalize parses raw into a timestamp after canonicalising it.
func Normalize(raw string) (time.Time, error) {
	value := Canonicalize(raw)
	if value == "" {
		return time.Time{}, ErrEmptyValue
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, &FormatError{Value: raw}
}

// NormalizeOptional parses raw when it is non-blank and returns nil otherwise.
// It is used for optional query parameters such as list filters.
func NormalizeOptional(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parsed, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
