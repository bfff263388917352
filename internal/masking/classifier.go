package masking

import (
	"net/http"
	"slices"

	"github.com/mozilla-ai/maskd/internal/errors"
)

// Disposition is the classifier's decision for a single intercepted error.
type Disposition int

const (
	// Passthrough forwards the original error to the client unchanged.
	Passthrough Disposition = iota

	// Mask replaces the error with a detail-free errors.MaskedError.
	Mask

	// OpaqueRethrow forwards an error whose shape is unknown without transforming it.
	OpaqueRethrow
)

// String implements fmt.Stringer.
func (d Disposition) String() string {
	switch d {
	case Passthrough:
		return "passthrough"
	case Mask:
		return "mask"
	case OpaqueRethrow:
		return "opaque-rethrow"
	default:
		return "unknown"
	}
}

// MarshalText lets dispositions render as strings in JSON and YAML output.
func (d Disposition) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// passthroughStatuses drive client control flow (login redirect, permission UI, not-found UI)
// and reveal nothing about internal implementation.
var passthroughStatuses = []int{
	http.StatusUnauthorized,
	http.StatusForbidden,
	http.StatusNotFound,
}

// PassthroughStatuses returns the client error statuses that are never masked.
func PassthroughStatuses() []int {
	return slices.Clone(passthroughStatuses)
}

// Classify decides what happens to a failure before it reaches the client.
// It is a pure function of the failure's variant and status code.
func Classify(f errors.Failure) Disposition {
	switch v := f.(type) {
	case *errors.HTTPError:
		return ClassifyStatus(v.StatusCode())
	default:
		return OpaqueRethrow
	}
}

// ClassifyStatus applies the status policy to a structured error:
//   - 401, 403, 404 pass through.
//   - 500-599 pass through; server errors carry no details by the time they get here.
//   - every other 4xx is masked (allow-list, not deny-list).
//   - anything outside 400-599 is treated as opaque.
func ClassifyStatus(status int) Disposition {
	switch {
	case slices.Contains(passthroughStatuses, status):
		return Passthrough
	case status >= 500 && status <= 599:
		return Passthrough
	case status >= 400 && status <= 499:
		return Mask
	default:
		return OpaqueRethrow
	}
}

// PolicyEntry describes how a structured error with a given status is handled.
type PolicyEntry struct {
	StatusCode  int         `json:"statusCode"  yaml:"statusCode"`
	Kind        string      `json:"error"       yaml:"error"`
	Disposition Disposition `json:"disposition" yaml:"disposition"`
}

// Describe returns the policy entry for status.
func Describe(status int) PolicyEntry {
	return PolicyEntry{
		StatusCode:  status,
		Kind:        errors.New(status, "", nil).Kind(),
		Disposition: ClassifyStatus(status),
	}
}

// DefaultPolicyStatuses returns the statuses shown when no specific status is requested.
func DefaultPolicyStatuses() []int {
	return []int{
		http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound,
		http.StatusMethodNotAllowed,
		http.StatusConflict,
		http.StatusUnprocessableEntity,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
	}
}
