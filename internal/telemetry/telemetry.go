// Package telemetry configures OpenTelemetry tracing for the service.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Exporter names accepted by Config.Exporter.
const (
	ExporterDisabled = "disabled"
	ExporterStdout   = "stdout"
	ExporterOTLP     = "otlp"
)

// TracerName is the instrumentation name used for HTTP spans.
const TracerName = "github.com/mozilla-ai/maskd"

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// Config describes the tracing setup.
type Config struct {
	// Exporter selects where spans go: disabled, stdout or otlp.
	Exporter string

	// ServiceName is reported as the service.name resource attribute.
	ServiceName string

	// ServiceVersion is reported as the service.version resource attribute.
	ServiceVersion string

	// Endpoint is the OTLP gRPC collector address (otlp only).
	Endpoint string

	// Insecure disables TLS to the collector (otlp only).
	Insecure bool

	// SampleRatio is the fraction of root spans sampled, in (0, 1]. Anything else samples everything.
	SampleRatio float64

	// Output receives stdout exporter spans. Nil means os.Stdout.
	Output io.Writer
}

// Enabled reports whether spans are exported.
func (c Config) Enabled() bool {
	e := strings.TrimSpace(c.Exporter)
	return e != "" && e != ExporterDisabled
}

// NewTracer creates a tracer for the configuration and the function that shuts it down.
// A disabled configuration returns a no-op tracer.
func NewTracer(ctx context.Context, cfg Config) (trace.Tracer, ShutdownFunc, error) {
	if !cfg.Enabled() {
		return noop.NewTracerProvider().Tracer(TracerName), func(context.Context) error { return nil }, nil
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s trace exporter: %w", cfg.Exporter, err)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "maskd"
	}

	attrs := []attribute.KeyValue{semconv.ServiceName(serviceName)}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(semconv.SchemaURL, attrs...))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build trace resource: %w", err)
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
	otel.SetTracerProvider(provider)

	return provider.Tracer(TracerName), provider.Shutdown, nil
}

func newExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	switch strings.TrimSpace(cfg.Exporter) {
	case ExporterStdout:
		opts := []stdouttrace.Option{stdouttrace.WithPrettyPrint()}
		if cfg.Output != nil {
			opts = append(opts, stdouttrace.WithWriter(cfg.Output))
		}
		return stdouttrace.New(opts...)
	case ExporterOTLP:
		var opts []otlptracegrpc.Option
		if cfg.Endpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(cfg.Endpoint))
		}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptracegrpc.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unknown exporter '%s'", cfg.Exporter)
	}
}
