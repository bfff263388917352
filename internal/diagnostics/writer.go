package diagnostics

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
)

// LogWriter writes records as structured hclog entries.
type LogWriter struct {
	logger hclog.Logger
}

// NewLogWriter creates a LogWriter emitting to logger.
func NewLogWriter(logger hclog.Logger) *LogWriter {
	return &LogWriter{logger: logger}
}

// WriteRecord emits one entry per record at error level.
func (w *LogWriter) WriteRecord(rec Record) error {
	args := []any{
		"timestamp", rec.Time.Format(time.RFC3339Nano),
		"request_id", rec.Request.RequestID,
		"method", rec.Request.Method,
		"path", rec.Request.Path,
	}

	if !rec.Structured() {
		args = append(args, "message", rec.Message, "stack", rec.Stack)
		w.logger.Error("Unclassified error intercepted", args...)
		return nil
	}

	body, err := json.Marshal(rec.Body)
	if err != nil {
		return fmt.Errorf("failed to encode error body: %w", err)
	}

	args = append(args, "status", rec.StatusCode, "body", string(body))
	w.logger.Error("HTTP error intercepted", args...)

	return nil
}
