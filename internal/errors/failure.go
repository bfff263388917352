package errors

import (
	"errors"
	"fmt"
	"runtime/debug"

	pkgerrors "github.com/pkg/errors"
)

// Failure is the closed set of errors the masking classifier understands.
// The only implementations are *HTTPError and *OpaqueFailure.
type Failure interface {
	error
	failure()
}

// Renderable is implemented by errors that know their client-facing status and body.
type Renderable interface {
	StatusCode() int
	ResponseBody() any
}

// OpaqueFailure is any error that was not raised through the HTTPError constructors,
// including recovered handler panics. Its shape is unknown, so it is never transformed.
type OpaqueFailure struct {
	// Err is the original error.
	Err error

	// Stack is the best available stack trace for Err.
	Stack string
}

func (f *OpaqueFailure) failure() {}

// Error implements the error interface.
func (f *OpaqueFailure) Error() string {
	if f.Err == nil {
		return "unknown failure"
	}
	return f.Err.Error()
}

// Unwrap returns the original error.
func (f *OpaqueFailure) Unwrap() error { return f.Err }

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// AsFailure normalizes an error into a Failure.
// An *HTTPError anywhere in the chain is recognized, and everything else becomes an *OpaqueFailure.
// A nil error returns nil.
func AsFailure(err error) Failure {
	if err == nil {
		return nil
	}

	var f Failure
	if errors.As(err, &f) {
		return f
	}

	return &OpaqueFailure{
		Err:   err,
		Stack: stackOf(err),
	}
}

// FromPanic wraps a recovered panic value as an *OpaqueFailure.
// Must be called from the deferred function that recovered, so the captured stack includes the panic site.
func FromPanic(rec any) *OpaqueFailure {
	err, ok := rec.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", rec)
	} else {
		err = fmt.Errorf("panic: %w", err)
	}

	return &OpaqueFailure{
		Err:   err,
		Stack: string(debug.Stack()),
	}
}

// stackOf returns the stack recorded by github.com/pkg/errors when present,
// otherwise the stack at the point the failure was caught.
func stackOf(err error) string {
	var st stackTracer
	if errors.As(err, &st) {
		return fmt.Sprintf("%+v", st.StackTrace())
	}
	return string(debug.Stack())
}
