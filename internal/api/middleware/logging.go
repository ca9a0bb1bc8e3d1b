package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// statusWriter remembers the status and body size written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.size += n
	return n, err
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// RequestLogging writes one access line per request through the request
// logger installed by CorrelationID, falling back to logger.
// Probe endpoints log at debug; 4xx at warn; 5xx at error.
func RequestLogging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			began := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)

			l := zerolog.Ctx(r.Context())
			if l.GetLevel() == zerolog.Disabled {
				l = &logger
			}
			var event *zerolog.Event
			switch {
			case sw.status >= http.StatusInternalServerError:
				event = l.Error()
			case sw.status >= http.StatusBadRequest:
				event = l.Warn()
			case isProbe(r.URL.Path):
				event = l.Debug()
			default:
				event = l.Info()
			}
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", route).
				Int("status", sw.status).
				Int("size", sw.size).
				Dur("elapsed", time.Since(began)).
				Msg("http request")
		})
	}
}
