package pipeline

import (
	"encoding/json"
	stdErrors "errors"
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/maskd/internal/errors"
)

// DefaultErrorMessage is the message written for errors that do not describe their own response.
const DefaultErrorMessage = "Internal server error"

// defaultErrorBody is the body written for errors that are not errors.Renderable.
type defaultErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Serve adapts a Handler to net/http. Successful responses and renderable errors are written as JSON.
// Any other error, and any opaque failure, is written as a generic 500, which mirrors what a transport
// does with an unknown failure.
func Serve(logger hclog.Logger, h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, err := h(r)
		if err != nil {
			status, body := errorResponse(err)
			writeJSON(logger, w, status, body)
			return
		}

		status := http.StatusOK
		var body any
		if resp != nil {
			if resp.Status != 0 {
				status = resp.Status
			}
			body = resp.Body
		}

		writeJSON(logger, w, status, body)
	})
}

// errorResponse picks the status and body for err.
// An *errors.OpaqueFailure anywhere in the chain always gets the default body, even when it wraps
// a renderable error (e.g. a handler that panicked with an *errors.HTTPError).
func errorResponse(err error) (int, any) {
	var opaque *errors.OpaqueFailure
	if stdErrors.As(err, &opaque) {
		return defaultErrorResponse()
	}

	var renderable errors.Renderable
	if stdErrors.As(err, &renderable) {
		return renderable.StatusCode(), renderable.ResponseBody()
	}

	return defaultErrorResponse()
}

func defaultErrorResponse() (int, any) {
	return http.StatusInternalServerError, defaultErrorBody{
		StatusCode: http.StatusInternalServerError,
		Message:    DefaultErrorMessage,
	}
}

func writeJSON(logger hclog.Logger, w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		logger.Error("Failed to encode response body", "error", err)
		status = http.StatusInternalServerError
		data, _ = json.Marshal(defaultErrorBody{StatusCode: status, Message: DefaultErrorMessage})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger.Debug("Failed to write response body", "error", err)
	}
}
