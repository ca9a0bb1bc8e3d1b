package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agenda-app/server/internal/config"
)

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), config.TracingConfig{Enabled: false}, "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitTracingRejectsBadSettings(t *testing.T) {
	_, err := InitTracing(context.Background(), config.TracingConfig{Enabled: true, Exporter: "none", SampleRate: 1.5}, "test")
	require.Error(t, err)

	_, err = InitTracing(context.Background(), config.TracingConfig{Enabled: true, Exporter: "zipkin", SampleRate: 1}, "test")
	require.ErrorContains(t, err, "unsupported exporter")
}

func TestInitTracingNoneExporter(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), config.TracingConfig{
		Enabled:     true,
		Exporter:    "none",
		ServiceName: "agenda-test",
		SampleRate:  1,
	}, "test")
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "probe")
	require.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, shutdown(context.Background()))
}
