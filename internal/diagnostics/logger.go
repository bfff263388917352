package diagnostics

import (
	"fmt"
	"reflect"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/maskd/internal/contracts"
	"github.com/mozilla-ai/maskd/internal/domain"
	"github.com/mozilla-ai/maskd/internal/errors"
)

var _ contracts.DiagnosticLogger = (*Logger)(nil)

// Logger turns intercepted failures into records and appends them to a Sink.
// NewLogger should be used to create instances of Logger.
type Logger struct {
	sink   Sink
	logger hclog.Logger
	now    func() time.Time
}

// LoggerOption defines a functional option for configuring a Logger.
type LoggerOption func(*Logger) error

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) LoggerOption {
	return func(l *Logger) error {
		if now == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		l.now = now
		return nil
	}
}

// NewLogger creates a Logger that appends to sink.
// The hclog logger is only used for out-of-band reports when the sink rejects a record.
func NewLogger(logger hclog.Logger, sink Sink, opt ...LoggerOption) (*Logger, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if sink == nil || reflect.ValueOf(sink).IsNil() {
		return nil, fmt.Errorf("sink cannot be nil")
	}

	l := &Logger{
		sink:   sink,
		logger: logger.Named("diagnostics"),
		now:    time.Now,
	}

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Log records the failure. Sink errors are reported to the hclog logger and never returned.
func (l *Logger) Log(meta domain.RequestMeta, f errors.Failure) {
	rec := NewRecord(l.now(), meta, f)

	if err := l.sink.Append(rec); err != nil {
		l.logger.Debug("Diagnostic record not stored", "request_id", meta.RequestID, "error", err)
	}
}
