package daemon

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"
	"go.opentelemetry.io/otel/trace"

	"github.com/mozilla-ai/maskd/internal/diagnostics"
)

// Dependencies contains required dependencies for the Daemon.
// NewDependencies should be used to create instances of Dependencies.
type Dependencies struct {
	// APIAddr specifies the network address for the APIServer to bind (e.g., "0.0.0.0:3000").
	APIAddr string

	// Logger for daemon and subcomponent (API server) operations.
	Logger hclog.Logger

	// RecordWriter persists drained diagnostic records.
	RecordWriter diagnostics.RecordWriter

	// Tracer starts request spans.
	Tracer trace.Tracer
}

// NewDependencies creates and validates Dependencies.
func NewDependencies(
	logger hclog.Logger,
	apiAddr string,
	writer diagnostics.RecordWriter,
	tracer trace.Tracer,
) (Dependencies, error) {
	deps := Dependencies{
		APIAddr:      apiAddr,
		Logger:       logger,
		RecordWriter: writer,
		Tracer:       tracer,
	}

	if err := deps.Validate(); err != nil {
		return Dependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d Dependencies) Validate() error {
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}

	if err := validateAddr(d.APIAddr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.APIAddr, err)
	}

	if d.RecordWriter == nil || reflect.ValueOf(d.RecordWriter).IsNil() {
		return fmt.Errorf("record writer cannot be nil")
	}

	if d.Tracer == nil {
		return fmt.Errorf("tracer cannot be nil")
	}

	return nil
}
