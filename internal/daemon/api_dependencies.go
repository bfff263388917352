package daemon

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"
	"go.opentelemetry.io/otel/trace"

	"github.com/mozilla-ai/maskd/internal/contracts"
)

// APIDependencies contains the required external dependencies for the API server.
// NewAPIDependencies should be used to create instances of APIDependencies.
type APIDependencies struct {
	// Addr specifies the network address to bind (e.g., "0.0.0.0:3000").
	Addr string

	// Diagnostics records every intercepted failure before it is classified.
	Diagnostics contracts.DiagnosticLogger

	// HealthMonitor reports the state of the diagnostic sink.
	HealthMonitor contracts.HealthMonitor

	// Logger for API server operations.
	Logger hclog.Logger

	// Tracer starts a span for every request.
	Tracer trace.Tracer
}

// NewAPIDependencies creates and validates APIDependencies.
func NewAPIDependencies(
	logger hclog.Logger,
	diagnostics contracts.DiagnosticLogger,
	healthMonitor contracts.HealthMonitor,
	tracer trace.Tracer,
	addr string,
) (APIDependencies, error) {
	deps := APIDependencies{
		Addr:          addr,
		Diagnostics:   diagnostics,
		HealthMonitor: healthMonitor,
		Logger:        logger,
		Tracer:        tracer,
	}

	if err := deps.Validate(); err != nil {
		return APIDependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d APIDependencies) Validate() error {
	if err := validateAddr(d.Addr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.Addr, err)
	}
	if d.Diagnostics == nil || reflect.ValueOf(d.Diagnostics).IsNil() {
		return fmt.Errorf("diagnostic logger cannot be nil")
	}
	if d.HealthMonitor == nil || reflect.ValueOf(d.HealthMonitor).IsNil() {
		return fmt.Errorf("health monitor cannot be nil")
	}
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}
	if d.Tracer == nil {
		return fmt.Errorf("tracer cannot be nil")
	}
	return nil
}
