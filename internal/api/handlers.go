package api

import (
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"

	"github.com/mozilla-ai/maskd/internal/errors"
	"github.com/mozilla-ai/maskd/internal/pipeline"
)

// SuccessResponse is the body of GET /api/success.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    SuccessData `json:"data"`
}

// SuccessData is the data payload of SuccessResponse.
type SuccessData struct {
	Result string `json:"result"`
}

func handleSuccess(_ *http.Request) (*pipeline.Response, error) {
	return pipeline.OK(SuccessResponse{
		Message: "Request succeeded",
		Data:    SuccessData{Result: "OK"},
	}), nil
}

// handleBadRequest fails validation, exposing field rules in its details.
func handleBadRequest(_ *http.Request) (*pipeline.Response, error) {
	return nil, errors.BadRequest("Validation failed", map[string]any{
		"validationErrors": []string{"email format is invalid", "password is too short"},
		"userId":           "12345",
		"internalRule":     "passwords need at least 8 characters including upper case, lower case and digits",
	})
}

func handleUnauthorized(_ *http.Request) (*pipeline.Response, error) {
	return nil, errors.Unauthorized("Authentication required")
}

func handleForbidden(_ *http.Request) (*pipeline.Response, error) {
	return nil, errors.Forbidden("You do not have permission to perform this operation")
}

func handleNotFound(_ *http.Request) (*pipeline.Response, error) {
	return nil, errors.NotFound("Resource not found")
}

// handleConflict reports a duplicate, exposing the database constraint in its details.
func handleConflict(_ *http.Request) (*pipeline.Response, error) {
	return nil, errors.Conflict("User already exists", map[string]any{
		"existingEmail":      "user@example.com",
		"databaseConstraint": "unique_email_constraint",
	})
}

// handleUnprocessableEntity violates a business rule, exposing its thresholds in its details.
func handleUnprocessableEntity(_ *http.Request) (*pipeline.Response, error) {
	return nil, errors.UnprocessableEntity("Business rule violation", map[string]any{
		"reason":      "minors cannot perform this operation",
		"age":         17,
		"requiredAge": 18,
	})
}

func handleInternalServerError(_ *http.Request) (*pipeline.Response, error) {
	return nil, errors.InternalServerError("The service is temporarily unavailable")
}

// handleUnexpected fails outside the structured error path.
func handleUnexpected(_ *http.Request) (*pipeline.Response, error) {
	return nil, pkgerrors.Wrap(pkgerrors.New("inventory cache returned an inconsistent snapshot"), "loading inventory")
}

func handlePanic(_ *http.Request) (*pipeline.Response, error) {
	var counters map[string]int
	counters["requests"]++

	return pipeline.OK(counters), nil
}

func handleRouteNotFound(r *http.Request) (*pipeline.Response, error) {
	return nil, errors.NotFound(fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path))
}

func handleMethodNotAllowed(r *http.Request) (*pipeline.Response, error) {
	return nil, errors.New(http.StatusMethodNotAllowed, fmt.Sprintf("Method %s not allowed on %s", r.Method, r.URL.Path), nil)
}
