// Package problem writes RFC 7807 problem+json error responses.
package problem

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

const ContentType = "application/problem+json"

const typeBase = "https://agenda.app/problems/"

// Problem type URIs.
const (
	TypeValidation   = typeBase + "validation-error"
	TypeNotFound     = typeBase + "not-found"
	TypeUnauthorized = typeBase + "unauthorized"
	TypeConflict     = typeBase + "conflict"
	TypeTooLarge     = typeBase + "payload-too-large"
	TypeRateLimited  = typeBase + "rate-limited"
	TypeInternal     = typeBase + "internal-error"
)

// Details is the response body. Message repeats Detail for clients that
// only read a flat message field.
type Details struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Message  string `json:"message,omitempty"`
	Instance string `json:"instance,omitempty"`
	Field    string `json:"field,omitempty"`
}

type Option func(*Details)

func WithDetail(detail string) Option {
	return func(d *Details) { d.Detail = detail }
}

func WithField(field string) Option {
	return func(d *Details) { d.Field = field }
}

func exposesErrors(env string) bool {
	return env == "development" || env == "test"
}

// Write logs err and sends a problem response. Without an explicit
// detail, the error text is only exposed in development and test.
func Write(w http.ResponseWriter, r *http.Request, status int, typ, title string, err error, env string, opts ...Option) {
	d := Details{Type: typ, Title: title, Status: status}
	for _, opt := range opts {
		opt(&d)
	}

	if d.Detail == "" {
		if err != nil && exposesErrors(env) {
			d.Detail = err.Error()
		} else {
			d.Detail = http.StatusText(status)
		}
	}
	d.Message = d.Detail

	if r != nil {
		if d.Instance == "" {
			d.Instance = r.URL.Path
		}
		logProblem(r, d, err)
	}

	Send(w, d)
}

func logProblem(r *http.Request, d Details, err error) {
	if err == nil {
		return
	}
	logger := zerolog.Ctx(r.Context())
	event := logger.Warn()
	if d.Status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Int("status", d.Status).
		Str("type", d.Type).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg(d.Title)
}

// Send serializes d without logging.
func Send(w http.ResponseWriter, d Details) {
	payload, err := json.Marshal(d)
	if err != nil {
		d = Details{Type: TypeInternal, Title: "Internal server error", Status: http.StatusInternalServerError}
		payload, _ = json.Marshal(d)
	}
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(d.Status)
	_, _ = w.Write(payload)
}
