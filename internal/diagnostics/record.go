package diagnostics

import (
	"time"

	"github.com/mozilla-ai/maskd/internal/domain"
	"github.com/mozilla-ai/maskd/internal/errors"
)

// Record is a write-only diagnostic entry describing one intercepted error.
// Structured errors carry their full original body, unclassified ones their message and stack.
type Record struct {
	// Time is when the error was intercepted.
	Time time.Time

	// Request identifies the request that failed.
	Request domain.RequestMeta

	// StatusCode is the original status, or zero for unclassified errors.
	StatusCode int

	// Body is the original structured body including details, or nil for unclassified errors.
	Body *errors.HTTPErrorBody

	// Message is the error message of an unclassified error.
	Message string

	// Stack is the stack trace of an unclassified error.
	Stack string
}

// Structured reports whether the record describes an *errors.HTTPError.
func (r Record) Structured() bool {
	return r.Body != nil
}

// NewRecord builds the record for a failure intercepted at the given time.
func NewRecord(at time.Time, meta domain.RequestMeta, f errors.Failure) Record {
	rec := Record{
		Time:    at.UTC(),
		Request: meta,
	}

	switch v := f.(type) {
	case *errors.HTTPError:
		body := v.Body()
		rec.StatusCode = v.StatusCode()
		rec.Body = &body
	case *errors.OpaqueFailure:
		rec.Message = v.Error()
		rec.Stack = v.Stack
	default:
		rec.Message = "unknown failure"
	}

	return rec
}
