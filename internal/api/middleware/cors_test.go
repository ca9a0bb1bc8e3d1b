package middleware

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/agenda-app/server/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS_AllowAllReflectsOrigin(t *testing.T) {
	handler := CORS(config.CORSConfig{AllowAllOrigins: true}, zerolog.Nop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/calendars", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected reflected origin, got %q", got)
	}
}

func TestCORS_AllowListIsCaseInsensitive(t *testing.T) {
	cfg := config.CORSConfig{AllowedOrigins: []string{"https://Agenda.example"}}
	handler := CORS(cfg, zerolog.Nop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Origin", "https://agenda.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://agenda.example" {
		t.Fatalf("expected origin to be allowed, got %q", got)
	}
}

func TestCORS_RejectedOriginGetsNoHeaders(t *testing.T) {
	cfg := config.CORSConfig{AllowedOrigins: []string{"https://agenda.example"}}
	handler := CORS(cfg, zerolog.Nop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS header, got %q", got)
	}
}

func TestCORS_PreflightReturnsNoContent(t *testing.T) {
	handler := CORS(config.CORSConfig{AllowAllOrigins: true}, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/tasks/3", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestCORS_PreflightAllowsEveryRoutedMethod(t *testing.T) {
	handler := CORS(config.CORSConfig{AllowedOrigins: []string{"https://agenda.example"}}, zerolog.Nop())(okHandler())

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		req := httptest.NewRequest(http.MethodOptions, "/api/events/1", nil)
		req.Header.Set("Origin", "https://agenda.example")
		req.Header.Set("Access-Control-Request-Method", method)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("%s preflight: expected 204, got %d", method, rec.Code)
		}
		allowed := strings.Split(rec.Header().Get("Access-Control-Allow-Methods"), ", ")
		if !slices.Contains(allowed, method) {
			t.Fatalf("%s preflight: Access-Control-Allow-Methods %q lacks the method", method, allowed)
		}
	}
}
