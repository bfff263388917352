package api

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/mozilla-ai/maskd/internal/contracts"
	"github.com/mozilla-ai/maskd/internal/pipeline"
)

// PathPrefix is the prefix every API route is registered under.
const PathPrefix = "/api"

// Wrapper turns a pipeline.Handler into an http.Handler, applying the response pipeline stages.
type Wrapper func(pipeline.Handler) http.Handler

// RegisterRoutes registers the pipeline-backed routes on the chi router and the health route on the Huma API.
// Routes that are not found, or do not allow the method, are answered through the pipeline as well.
func RegisterRoutes(router chi.Router, humaAPI huma.API, monitor contracts.HealthMonitor, wrap Wrapper) error {
	if router == nil || reflect.ValueOf(router).IsNil() {
		return fmt.Errorf("router cannot be nil")
	}
	if humaAPI == nil || reflect.ValueOf(humaAPI).IsNil() {
		return fmt.Errorf("huma API cannot be nil")
	}
	if monitor == nil || reflect.ValueOf(monitor).IsNil() {
		return fmt.Errorf("health monitor cannot be nil")
	}
	if wrap == nil {
		return fmt.Errorf("wrapper cannot be nil")
	}

	router.NotFound(wrap(handleRouteNotFound).ServeHTTP)
	router.MethodNotAllowed(wrap(handleMethodNotAllowed).ServeHTTP)

	routes := map[string]pipeline.Handler{
		"/success":          handleSuccess,
		"/error/400":        handleBadRequest,
		"/error/401":        handleUnauthorized,
		"/error/403":        handleForbidden,
		"/error/404":        handleNotFound,
		"/error/409":        handleConflict,
		"/error/422":        handleUnprocessableEntity,
		"/error/500":        handleInternalServerError,
		"/error/unexpected": handleUnexpected,
		"/error/panic":      handlePanic,
	}
	for path, h := range routes {
		router.Method(http.MethodGet, PathPrefix+path, wrap(h))
	}

	RegisterHealthRoutes(huma.NewGroup(humaAPI, PathPrefix), monitor, "/health")

	return nil
}
