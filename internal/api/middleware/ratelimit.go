package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/agenda-app/server/internal/api/problem"
	"github.com/agenda-app/server/internal/config"
	"github.com/agenda-app/server/internal/metrics"
)

const (
	limiterTTL      = 15 * time.Minute
	cleanupInterval = 5 * time.Minute
)

// RateLimiter applies a per-client token bucket. Client identity is the
// remote IP, or the first X-Forwarded-For hop when the connection comes
// from a trusted proxy.
type RateLimiter struct {
	perMinute int
	burst     int
	trusted   []*net.IPNet

	mu       sync.Mutex
	limiters map[string]*limiterEntry
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.PerMinute
	}
	rl := &RateLimiter{
		perMinute: cfg.PerMinute,
		burst:     burst,
		limiters:  make(map[string]*limiterEntry),
	}
	for _, cidr := range cfg.TrustedProxyCIDRs {
		if _, n, err := net.ParseCIDR(strings.TrimSpace(cidr)); err == nil {
			rl.trusted = append(rl.trusted, n)
		}
	}
	return rl
}

// Middleware returns 429 once a client exhausts its bucket. Probe and
// scrape endpoints are never limited.
func (rl *RateLimiter) Middleware(env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.perMinute <= 0 || isProbe(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			if !rl.allow(rl.clientKey(r), time.Now()) {
				metrics.RateLimited.Inc()
				w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfterSeconds()))
				problem.Write(w, r, http.StatusTooManyRequests, problem.TypeRateLimited, "Too many requests", nil, env)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Run evicts idle clients until ctx is cancelled.
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			rl.evict(now)
		case <-ctx.Done():
			return
		}
	}
}

func (rl *RateLimiter) allow(key string, now time.Time) bool {
	rl.mu.Lock()
	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.perMinute)), rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = now
	rl.mu.Unlock()
	return entry.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) evict(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > limiterTTL {
			delete(rl.limiters, key)
		}
	}
}

func (rl *RateLimiter) retryAfterSeconds() int {
	secs := 60 / rl.perMinute
	if secs < 1 {
		return 1
	}
	return secs
}

func (rl *RateLimiter) clientKey(r *http.Request) string {
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	if !rl.isTrusted(remote) {
		return remote
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	return remote
}

func (rl *RateLimiter) isTrusted(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, n := range rl.trusted {
		if n.Contains(parsed) {
			return true
		}
	}
	return false
}

// isProbe matches endpoints polled by orchestrators and Prometheus. A
// scraper behind one address must not lose samples to the limiter.
func isProbe(path string) bool {
	switch path {
	case "/healthz", "/readyz", "/metrics":
		return true
	}
	return false
}
