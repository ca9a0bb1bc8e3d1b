package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agenda-app/server/internal/metrics"
	"github.com/agenda-app/server/internal/storage/postgres"
)

// HealthCheck is the body of GET /health.
type HealthCheck struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	GitCommit string                 `json:"git_commit"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp string                 `json:"timestamp"`
}

type CheckResult struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// MigrationStatusFunc reports the applied schema version.
type MigrationStatusFunc func() (postgres.MigrationStatus, error)

type HealthChecker struct {
	db         Pinger
	migrations MigrationStatusFunc
	version    string
	gitCommit  string
}

func NewHealthChecker(db Pinger, migrations MigrationStatusFunc, version, gitCommit string) *HealthChecker {
	return &HealthChecker{db: db, migrations: migrations, version: version, gitCommit: gitCommit}
}

// Healthz reports liveness only.
func Healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// Readyz answers 503 until the database responds.
func (h *HealthChecker) Readyz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if result := h.checkDatabase(ctx); result.Status != "pass" {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "message": result.Message})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// Health runs every check concurrently and reports each result.
func (h *HealthChecker) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := h.run(ctx)

		status, code := "healthy", http.StatusOK
		for _, c := range checks {
			if c.Status == "fail" {
				status, code = "unhealthy", http.StatusServiceUnavailable
				break
			}
		}
		writeJSON(w, code, HealthCheck{
			Status:    status,
			Version:   h.version,
			GitCommit: h.gitCommit,
			Checks:    checks,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func (h *HealthChecker) run(ctx context.Context) map[string]CheckResult {
	var (
		mu     sync.Mutex
		checks = make(map[string]CheckResult, 2)
	)
	record := func(name string, result CheckResult) {
		mu.Lock()
		defer mu.Unlock()
		checks[name] = result

		value := 0.0
		if result.Status == "pass" {
			value = 1
		}
		metrics.HealthCheckStatus.WithLabelValues(name).Set(value)
		metrics.HealthCheckLatency.WithLabelValues(name).Set(float64(result.LatencyMs))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		record("database", h.checkDatabase(gctx))
		return nil
	})
	g.Go(func() error {
		record("migrations", h.checkMigrations())
		return nil
	})
	_ = g.Wait()
	return checks
}

func (h *HealthChecker) checkDatabase(ctx context.Context) CheckResult {
	if h == nil || h.db == nil {
		return CheckResult{Status: "fail", Message: "database not configured"}
	}
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		return CheckResult{Status: "fail", Message: "database ping failed", LatencyMs: time.Since(start).Milliseconds()}
	}
	return CheckResult{Status: "pass", LatencyMs: time.Since(start).Milliseconds()}
}

func (h *HealthChecker) checkMigrations() CheckResult {
	if h.migrations == nil {
		return CheckResult{Status: "fail", Message: "migration source not configured"}
	}
	start := time.Now()
	st, err := h.migrations()
	latency := time.Since(start).Milliseconds()
	switch {
	case err != nil:
		return CheckResult{Status: "fail", Message: "migration status unavailable", LatencyMs: latency}
	case st.Dirty:
		return CheckResult{Status: "fail", Message: fmt.Sprintf("schema version %d is dirty", st.Version), LatencyMs: latency}
	case st.Version == 0:
		return CheckResult{Status: "fail", Message: "no migrations applied", LatencyMs: latency}
	}
	return CheckResult{Status: "pass", Message: fmt.Sprintf("schema version %d", st.Version), LatencyMs: latency}
}
