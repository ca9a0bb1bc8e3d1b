// Package audit records who changed which resource.
package audit

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
)

// Entry describes one committed mutation.
type Entry struct {
	Action       string
	UserID       int64
	ResourceType string
	ResourceID   int64
	IPAddress    string
}

// Logger writes entries as structured log lines tagged log_type=audit.
// The zero value logs through the request-scoped logger on ctx.
type Logger struct {
	fallback *zerolog.Logger
}

func NewLogger(fallback zerolog.Logger) *Logger {
	return &Logger{fallback: &fallback}
}

func (l *Logger) Log(ctx context.Context, e Entry) {
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled && l != nil && l.fallback != nil {
		logger = l.fallback
	}
	logger.Info().
		Str("log_type", "audit").
		Str("action", e.Action).
		Int64("user_id", e.UserID).
		Str("resource_type", e.ResourceType).
		Str("resource_id", strconv.FormatInt(e.ResourceID, 10)).
		Str("ip_address", e.IPAddress).
		Msg("audit")
}

// ClientIP returns the connection address without its port.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
