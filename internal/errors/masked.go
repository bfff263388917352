package errors

import (
	"net/http"
)

// MaskedMessage is the fixed message sent to clients in place of a masked error.
const MaskedMessage = "A server error occurred"

// MaskedKind is the fixed error label of a masked error.
const MaskedKind = "Internal Server Error"

// MaskedError is the detail-free replacement emitted for masked failures.
// It has no fields and no constructor arguments, so nothing from the original error can reach it.
type MaskedError struct{}

// MaskedBody is the exact wire shape of a MaskedError.
type MaskedBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}

// NewMasked returns a fresh MaskedError.
func NewMasked() *MaskedError {
	return &MaskedError{}
}

// Error implements the error interface.
func (e *MaskedError) Error() string {
	return MaskedKind + " (500): " + MaskedMessage
}

// StatusCode always returns 500.
func (e *MaskedError) StatusCode() int { return http.StatusInternalServerError }

// ResponseBody implements Renderable.
func (e *MaskedError) ResponseBody() any {
	return MaskedBody{
		StatusCode: http.StatusInternalServerError,
		Message:    MaskedMessage,
		Error:      MaskedKind,
	}
}
