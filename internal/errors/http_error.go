package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// HTTPError is a structured rejection raised by a handler.
// It is immutable once constructed. Details is defensively cloned on the way in and on the way out.
// New should be used to create instances of HTTPError.
type HTTPError struct {
	statusCode int
	message    string
	kind       string
	details    map[string]any
}

// HTTPErrorBody is the wire shape of an HTTPError as written to the client on passthrough.
type HTTPErrorBody struct {
	StatusCode int            `json:"statusCode"`
	Message    string         `json:"message"`
	Error      string         `json:"error"`
	Details    map[string]any `json:"details,omitempty"`
}

// New creates an HTTPError for the given status.
// The error kind is the standard status text (e.g. "Bad Request"), falling back to "Unknown Error".
// Pass nil details when the error carries nothing beyond its message.
func New(statusCode int, message string, details map[string]any) *HTTPError {
	kind := http.StatusText(statusCode)
	if kind == "" {
		kind = "Unknown Error"
	}

	return &HTTPError{
		statusCode: statusCode,
		message:    message,
		kind:       kind,
		details:    cloneMap(details),
	}
}

// BadRequest returns a 400 error, typically carrying field-level validation details.
func BadRequest(message string, details map[string]any) *HTTPError {
	return New(http.StatusBadRequest, message, details)
}

// Unauthorized returns a 401 error.
func Unauthorized(message string) *HTTPError {
	if message == "" {
		message = "authentication required"
	}
	return New(http.StatusUnauthorized, message, nil)
}

// Forbidden returns a 403 error.
func Forbidden(message string) *HTTPError {
	if message == "" {
		message = "permission denied"
	}
	return New(http.StatusForbidden, message, nil)
}

// NotFound returns a 404 error.
func NotFound(message string) *HTTPError {
	if message == "" {
		message = "resource not found"
	}
	return New(http.StatusNotFound, message, nil)
}

// Conflict returns a 409 error, typically carrying data constraint details.
func Conflict(message string, details map[string]any) *HTTPError {
	return New(http.StatusConflict, message, details)
}

// UnprocessableEntity returns a 422 error, typically carrying business rule details.
func UnprocessableEntity(message string, details map[string]any) *HTTPError {
	return New(http.StatusUnprocessableEntity, message, details)
}

// InternalServerError returns a 500 error.
// Server errors are passed through unchanged, so callers must not attach details here.
func InternalServerError(message string) *HTTPError {
	if message == "" {
		message = "internal server error"
	}
	return New(http.StatusInternalServerError, message, nil)
}

func (e *HTTPError) failure() {}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.kind, e.statusCode, e.message)
}

// StatusCode returns the HTTP status of the error.
func (e *HTTPError) StatusCode() int { return e.statusCode }

// Message returns the human-readable message, which may be sensitive.
func (e *HTTPError) Message() string { return e.message }

// Kind returns the error label, e.g. "Bad Request".
func (e *HTTPError) Kind() string { return e.kind }

// Details returns a copy of the structured details, or nil when there are none.
func (e *HTTPError) Details() map[string]any { return cloneMap(e.details) }

// Body returns the full structured body, including details.
func (e *HTTPError) Body() HTTPErrorBody {
	return HTTPErrorBody{
		StatusCode: e.statusCode,
		Message:    e.message,
		Error:      e.kind,
		Details:    cloneMap(e.details),
	}
}

// ResponseBody implements Renderable.
func (e *HTTPError) ResponseBody() any {
	return e.Body()
}

// WithoutDetails returns a copy of the error with its details removed.
func (e *HTTPError) WithoutDetails() *HTTPError {
	return &HTTPError{
		statusCode: e.statusCode,
		message:    e.message,
		kind:       e.kind,
	}
}

// MarshalJSON encodes the error as its wire body.
func (e *HTTPError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Body())
}

func cloneMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}

	out := make(map[string]any, len(in))
	for k, v := range in {
		switch tv := v.(type) {
		case map[string]any:
			out[k] = cloneMap(tv)
		case []any:
			out[k] = append([]any(nil), tv...)
		case []string:
			out[k] = append([]string(nil), tv...)
		default:
			out[k] = v
		}
	}

	return out
}
