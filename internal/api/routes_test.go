package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/maskd/internal/diagnostics"
	"github.com/mozilla-ai/maskd/internal/domain"
	"github.com/mozilla-ai/maskd/internal/errors"
	"github.com/mozilla-ai/maskd/internal/masking"
	"github.com/mozilla-ai/maskd/internal/observe"
	"github.com/mozilla-ai/maskd/internal/pipeline"
)

const maskedJSON = `{"statusCode":500,"message":"A server error occurred","error":"Internal Server Error"}`

func newTestRouter(t *testing.T) (http.Handler, *diagnostics.MemorySink) {
	t.Helper()

	mux, _, sink := newTestMux(t)
	return mux, sink
}

// newTestMux returns the router with every route registered, plus the pipeline wrapper so tests can add routes.
func newTestMux(t *testing.T) (*chi.Mux, Wrapper, *diagnostics.MemorySink) {
	t.Helper()

	sink := diagnostics.NewMemorySink()
	diag, err := diagnostics.NewLogger(hclog.NewNullLogger(), sink)
	require.NoError(t, err)

	interceptor, err := masking.NewInterceptor(diag)
	require.NoError(t, err)

	mux := chi.NewMux()
	mux.Use(observe.RequestID)
	humaAPI := humachi.New(mux, huma.DefaultConfig("maskd test", "test"))

	wrap := func(h pipeline.Handler) http.Handler {
		return pipeline.Serve(hclog.NewNullLogger(), pipeline.Chain(h, interceptor.Stage()))
	}

	monitor := &fakeMonitor{health: domain.ServiceHealth{Status: domain.HealthStatusOK, QueueCapacity: 1024}}
	require.NoError(t, RegisterRoutes(mux, humaAPI, monitor, wrap))

	return mux, wrap, sink
}

func get(t *testing.T, h http.Handler, method string, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRoutes_Success(t *testing.T) {
	t.Parallel()

	h, sink := newTestRouter(t)
	rec := get(t, h, http.MethodGet, "/api/success")

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"Request succeeded","data":{"result":"OK"}}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(observe.HeaderRequestID))
	require.Zero(t, sink.Len())
}

func TestRoutes_MaskedClientErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path           string
		originalStatus int
		secrets        []string
	}{
		{
			path:           "/api/error/400",
			originalStatus: http.StatusBadRequest,
			secrets:        []string{"Validation failed", "validationErrors", "12345", "internalRule", "passwords need"},
		},
		{
			path:           "/api/error/409",
			originalStatus: http.StatusConflict,
			secrets:        []string{"User already exists", "user@example.com", "unique_email_constraint"},
		},
		{
			path:           "/api/error/422",
			originalStatus: http.StatusUnprocessableEntity,
			secrets:        []string{"Business rule violation", "requiredAge", "minors"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()

			h, sink := newTestRouter(t)
			rec := get(t, h, http.MethodGet, tc.path)

			require.Equal(t, http.StatusInternalServerError, rec.Code)
			require.Equal(t, maskedJSON, rec.Body.String())
			for _, secret := range tc.secrets {
				require.NotContains(t, rec.Body.String(), secret)
			}

			// The diagnostic record keeps the original, and the request id matches the response header.
			records := sink.Records()
			require.Len(t, records, 1)
			require.Equal(t, tc.originalStatus, records[0].StatusCode)
			require.NotEmpty(t, records[0].Body.Details)
			require.Equal(t, rec.Header().Get(observe.HeaderRequestID), records[0].Request.RequestID)
			require.Equal(t, tc.path, records[0].Request.Path)
		})
	}
}

func TestRoutes_Passthrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path         string
		expectedCode int
		expectedBody string
	}{
		{
			path:         "/api/error/401",
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"statusCode":401,"message":"Authentication required","error":"Unauthorized"}`,
		},
		{
			path:         "/api/error/403",
			expectedCode: http.StatusForbidden,
			expectedBody: `{"statusCode":403,"message":"You do not have permission to perform this operation","error":"Forbidden"}`,
		},
		{
			path:         "/api/error/404",
			expectedCode: http.StatusNotFound,
			expectedBody: `{"statusCode":404,"message":"Resource not found","error":"Not Found"}`,
		},
		{
			path:         "/api/error/500",
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"statusCode":500,"message":"The service is temporarily unavailable","error":"Internal Server Error"}`,
		},
		{
			path:         "/api/does-not-exist",
			expectedCode: http.StatusNotFound,
			expectedBody: `{"statusCode":404,"message":"Cannot GET /api/does-not-exist","error":"Not Found"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()

			h, sink := newTestRouter(t)
			rec := get(t, h, http.MethodGet, tc.path)

			require.Equal(t, tc.expectedCode, rec.Code)
			require.JSONEq(t, tc.expectedBody, rec.Body.String())
			require.Equal(t, 1, sink.Len())
		})
	}
}

func TestRoutes_Unclassified(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path            string
		expectedMessage string
	}{
		{path: "/api/error/unexpected", expectedMessage: "loading inventory: inventory cache returned an inconsistent snapshot"},
		{path: "/api/error/panic", expectedMessage: "panic: assignment to entry in nil map"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()

			h, sink := newTestRouter(t)
			rec := get(t, h, http.MethodGet, tc.path)

			require.Equal(t, http.StatusInternalServerError, rec.Code)
			require.JSONEq(t, `{"statusCode":500,"message":"Internal server error"}`, rec.Body.String())

			records := sink.Records()
			require.Len(t, records, 1)
			require.False(t, records[0].Structured())
			require.Equal(t, tc.expectedMessage, records[0].Message)
			require.NotEmpty(t, records[0].Stack)
		})
	}
}

func TestRoutes_PanicWithStructuredErrorDoesNotLeak(t *testing.T) {
	t.Parallel()

	mux, wrap, sink := newTestMux(t)
	mux.Method(http.MethodGet, PathPrefix+"/error/panic-structured", wrap(func(_ *http.Request) (*pipeline.Response, error) {
		panic(errors.BadRequest("Validation failed", map[string]any{"internalRule": "password min 8 chars"}))
	}))

	rec := get(t, mux, http.MethodGet, PathPrefix+"/error/panic-structured")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"statusCode":500,"message":"Internal server error"}`, rec.Body.String())
	require.NotContains(t, rec.Body.String(), "internalRule")
	require.NotContains(t, rec.Body.String(), "Validation failed")

	records := sink.Records()
	require.Len(t, records, 1)
	require.False(t, records[0].Structured())
	require.Contains(t, records[0].Message, "Validation failed")
}

func TestRoutes_MethodNotAllowedIsMasked(t *testing.T) {
	t.Parallel()

	h, sink := newTestRouter(t)
	rec := get(t, h, http.MethodPost, "/api/success")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, maskedJSON, rec.Body.String())
	require.Equal(t, http.StatusMethodNotAllowed, sink.Records()[0].StatusCode)
}

func TestRoutes_Health(t *testing.T) {
	t.Parallel()

	h, sink := newTestRouter(t)
	rec := get(t, h, http.MethodGet, "/api/health")

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
	require.EqualValues(t, 1024, body["diagnostics"].(map[string]any)["capacity"])
	require.Zero(t, sink.Len())
}

func TestRoutes_MaskedBodyIsIdenticalAcrossCauses(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t)

	var bodies []string
	for _, path := range []string{"/api/error/400", "/api/error/409", "/api/error/422"} {
		rec := get(t, h, http.MethodGet, path)
		bodies = append(bodies, rec.Body.String())
	}

	require.Equal(t, strings.Repeat(maskedJSON, 3), strings.Join(bodies, ""))
}

func TestRegisterRoutes_Validation(t *testing.T) {
	t.Parallel()

	mux := chi.NewMux()
	humaAPI := humachi.New(mux, huma.DefaultConfig("maskd test", "test"))
	monitor := &fakeMonitor{}
	wrap := func(h pipeline.Handler) http.Handler {
		return pipeline.Serve(hclog.NewNullLogger(), h)
	}

	require.EqualError(t, RegisterRoutes(nil, humaAPI, monitor, wrap), "router cannot be nil")
	require.EqualError(t, RegisterRoutes(mux, nil, monitor, wrap), "huma API cannot be nil")
	require.EqualError(t, RegisterRoutes(mux, humaAPI, nil, wrap), "health monitor cannot be nil")
	require.EqualError(t, RegisterRoutes(mux, humaAPI, monitor, nil), "wrapper cannot be nil")
}

// Ensure the handlers produce the documented variants without the pipeline in front.
func TestHandlers_RawErrors(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := handleConflict(req)
	var httpErr *errors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, map[string]any{
		"existingEmail":      "user@example.com",
		"databaseConstraint": "unique_email_constraint",
	}, httpErr.Details())

	_, err = handleUnexpected(req)
	require.IsType(t, &errors.OpaqueFailure{}, errors.AsFailure(err))
}
