package middleware

import "net/http"

// DefaultMaxBodySize applies when the server config leaves the limit unset.
const DefaultMaxBodySize int64 = 1 << 20

// RequestSize caps request bodies. Handlers see *http.MaxBytesError from
// the decoder once the cap is exceeded and answer 413.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
