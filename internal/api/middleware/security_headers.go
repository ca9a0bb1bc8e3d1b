package middleware

import "net/http"

// SecurityHeaders sets response headers for a JSON API.
//
// The API serves JSON, problem documents and iCalendar files only, so the
// policy is stricter than one written for HTML pages:
//   - Content-Security-Policy: default-src 'none'; frame-ancestors 'none'.
//     No response should ever load a script, style or image.
//   - Referrer-Policy: no-referrer. Links are never followed from API output.
//   - X-XSS-Protection is not sent. It is ignored by current browsers and
//     has nothing to filter in a non-HTML response.
//
// HSTS is only sent over TLS when requireHTTPS is set. It omits preload
// because the deployment domain is not decided here.
func SecurityHeaders(requireHTTPS bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			// Clickjacking: never embeddable.
			h.Set("X-Frame-Options", "DENY")
			// Browsers must honour Content-Type, so an .ics is never run as HTML.
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			if requireHTTPS && r.TLS != nil {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains") // 1 year
			}
			next.ServeHTTP(w, r)
		})
	}
}
