package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agenda-app/server/internal/config"
)

// corsAllowMethods lists every method the router serves under /api.
// PATCH is not CORS-safelisted, so browsers preflight it and need it here.
const corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"

// CORS reflects allowed origins and answers preflight requests with 204.
// Requests without an Origin header pass through untouched.
func CORS(cfg config.CORSConfig, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if cfg.AllowAllOrigins || originAllowed(origin, cfg.AllowedOrigins) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				// The origin is reflected rather than "*", so caches must key on it.
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				// No Idempotency-Key: writes here are not replayed.
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, X-Request-ID")
				h.Set("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")
				h.Set("Access-Control-Max-Age", "86400") // 24 hours
			} else {
				logger.Warn().
					Str("origin", origin).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Msg("CORS origin rejected")
			}

			// Preflight ends here whether or not the origin was allowed; a
			// rejected origin simply gets no Allow-* headers.
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed []string) bool {
	origin = strings.ToLower(strings.TrimSpace(origin))
	for _, candidate := range allowed {
		if strings.ToLower(strings.TrimSpace(candidate)) == origin {
			return true
		}
	}
	return false
}
