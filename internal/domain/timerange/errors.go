package timerange

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput is returned when neither an explicit start/end pair nor
	// the date + start_time + end_time triple is supplied.
	ErrMissingInput = errors.New("send start and end in ISO format or date + start_time + end_time")

	// ErrInvalidRange is returned when end is not strictly after start.
	ErrInvalidRange = errors.New("end must be after start")

	// ErrEmptyValue is returned by Normalize for blank input.
	ErrEmptyValue error = &MissingError{Message: "empty date/time"}

	// ErrMissingPair is returned by ResolveUpdate when only one side of the
	// start/end pair is sent.
	ErrMissingPair error = &MissingError{Message: "send both start and end to update the range"}

	// ErrMissingTriple is returned by ResolveUpdate when some but not all of
	// date, start_time and end_time are sent.
	ErrMissingTriple error = &MissingError{Message: "date, start_time and end_time are all required"}
)

// MissingError is a more specific form of ErrMissingInput.
type MissingError struct {
	Message string
}

func (e *MissingError) Error() string { return e.Message }

func (e *MissingError) Is(target error) bool { return target == ErrMissingInput }

// FormatError reports a date/time value that could not be parsed.
// Value holds the input as the caller sent it.
type FormatError struct {
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid date/time %q: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid date/time format: %q", e.Value)
}

// IsFormatError reports whether err wraps a *FormatError.
func IsFormatError(err error) bool {
	var formatErr *FormatError
	return errors.As(err, &formatErr)
}
