package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger builds the process logger and installs it as the zerolog global.
// Development defaults to console output at debug level; every other
// environment defaults to JSON at info.
func NewLogger(cfg LoggingConfig, environment string) zerolog.Logger {
	logger := newLogger(cfg, environment, os.Stdout)
	log.Logger = logger
	return logger
}

func newLogger(cfg LoggingConfig, environment string, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	dev := environment == "development"

	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil && cfg.Level != "" {
		level = parsed
	}

	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	if format == "console" || (format == "" && dev) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp().Str("service", "agenda")
	if environment != "" {
		ctx = ctx.Str("env", environment)
	}
	return ctx.Logger()
}
