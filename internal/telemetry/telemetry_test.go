package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_Enabled(t *testing.T) {
	t.Parallel()

	require.False(t, Config{}.Enabled())
	require.False(t, Config{Exporter: ExporterDisabled}.Enabled())
	require.False(t, Config{Exporter: "  "}.Enabled())
	require.True(t, Config{Exporter: ExporterStdout}.Enabled())
	require.True(t, Config{Exporter: ExporterOTLP}.Enabled())
}

func TestNewTracer_Disabled(t *testing.T) {
	t.Parallel()

	tracer, shutdown, err := NewTracer(context.Background(), Config{Exporter: ExporterDisabled})
	require.NoError(t, err)

	_, span := tracer.Start(context.Background(), "noop")
	require.False(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, shutdown(context.Background()))
}

func TestNewTracer_Stdout(t *testing.T) {
	var buf bytes.Buffer

	tracer, shutdown, err := NewTracer(context.Background(), Config{
		Exporter:       ExporterStdout,
		ServiceName:    "maskd-test",
		ServiceVersion: "v0.0.1",
		SampleRatio:    1,
		Output:         &buf,
	})
	require.NoError(t, err)

	_, span := tracer.Start(context.Background(), "GET /api/success")
	require.True(t, span.SpanContext().IsValid())
	span.End()

	// Shutdown flushes the batcher.
	require.NoError(t, shutdown(context.Background()))
	require.Contains(t, buf.String(), "GET /api/success")
	require.Contains(t, buf.String(), "maskd-test")
}

func TestNewTracer_UnknownExporter(t *testing.T) {
	t.Parallel()

	_, _, err := NewTracer(context.Background(), Config{Exporter: "zipkin"})
	require.ErrorContains(t, err, "failed to create zipkin trace exporter")
}
