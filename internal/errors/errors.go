// Package errors defines the error values that flow through the response pipeline.
// Handlers reject requests with an *HTTPError, and anything else they return (or panic with) is an *OpaqueFailure.
// Both variants implement Failure, which is the only input the masking classifier accepts.
//
// NOTE: Important for developers
// HTTPError.Details may carry validation rules, constraint names or business thresholds.
// Never copy a field of an HTTPError into a MaskedError, and never render Details anywhere but the diagnostic sink.
//
// When adding a new constructor here, you MUST consider which disposition its status code receives.
//
// Don't forget to:
// 1. Check the status against ClassifyStatus (internal/masking/classifier.go)
// 2. Add a test case to TestClassifyStatus (internal/masking/classifier_test.go)
package errors

import (
	"errors"
)

var (
	// ErrSinkClosed indicates that a diagnostic record was appended after the sink was closed.
	// The record is dropped and the request continues.
	ErrSinkClosed = errors.New("diagnostic sink closed")

	// ErrSinkFull indicates that the diagnostic sink queue was full and the record was dropped.
	// Loss under overload is accepted, blocking the response path is not.
	ErrSinkFull = errors.New("diagnostic sink queue full")
)
