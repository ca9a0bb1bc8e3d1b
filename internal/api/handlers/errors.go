package handlers

import (
	"errors"
	"net/http"

	"github.com/agenda-app/server/internal/api/problem"
	"github.com/agenda-app/server/internal/domain/ownership"
	"github.com/agenda-app/server/internal/domain/timerange"
	"github.com/agenda-app/server/internal/metrics"
	"github.com/agenda-app/server/internal/storage"
	"github.com/agenda-app/server/internal/validation"
)

// writeError maps domain and transport errors onto problem responses.
// Client errors always carry their message; server errors only do so in
// development and test.
func writeError(w http.ResponseWriter, r *http.Request, env string, err error) {
	var (
		maxErr   *http.MaxBytesError
		fieldErr validation.Error
		decErr   decodeError
	)

	switch {
	case errors.Is(err, errUnauthenticated):
		metrics.RequestErrors.WithLabelValues("unauthorized").Inc()
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", err, env,
			problem.WithDetail(err.Error()))
	case errors.As(err, &maxErr):
		metrics.RequestErrors.WithLabelValues("too_large").Inc()
		problem.Write(w, r, http.StatusRequestEntityTooLarge, problem.TypeTooLarge, "Payload too large", err, env,
			problem.WithDetail("request body exceeds the configured limit"))
	case errors.As(err, &fieldErr):
		metrics.RequestErrors.WithLabelValues("validation").Inc()
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, env,
			problem.WithDetail(fieldErr.Error()), problem.WithField(fieldErr.Field))
	case errors.As(err, &decErr),
		timerange.IsFormatError(err),
		errors.Is(err, timerange.ErrMissingInput),
		errors.Is(err, timerange.ErrInvalidRange):
		metrics.RequestErrors.WithLabelValues("validation").Inc()
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, env,
			problem.WithDetail(clientMessage(err)))
	case errors.Is(err, storage.ErrIntegrityViolation):
		metrics.RequestErrors.WithLabelValues("integrity").Inc()
		problem.Write(w, r, http.StatusBadRequest, problem.TypeConflict, "Integrity violation", err, env,
			problem.WithDetail("the request conflicts with stored data"))
	case errors.Is(err, ownership.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		metrics.RequestErrors.WithLabelValues("not_found").Inc()
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, env,
			problem.WithDetail(notFoundMessage(err)))
	default:
		metrics.RequestErrors.WithLabelValues("internal").Inc()
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeInternal, "Internal server error", err, env)
	}
}

// clientMessage drops wrapping added by services ("create event: ...")
// and returns the message of the typed error underneath.
func clientMessage(err error) string {
	var formatErr *timerange.FormatError
	if errors.As(err, &formatErr) {
		return formatErr.Error()
	}
	var missing *timerange.MissingError
	if errors.As(err, &missing) {
		return missing.Error()
	}
	var decErr decodeError
	if errors.As(err, &decErr) {
		return decErr.Error()
	}
	for _, target := range []error{timerange.ErrMissingInput, timerange.ErrInvalidRange} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

func notFoundMessage(err error) string {
	var nf *ownership.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	return "resource not found"
}
