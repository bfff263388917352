package diagnostics

import (
	stdErrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/maskd/internal/domain"
	"github.com/mozilla-ai/maskd/internal/errors"
)

var testMeta = domain.RequestMeta{RequestID: "req-1", Method: "GET", Path: "/api/error/400"}

func TestNewRecord_HTTPError(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	f := errors.BadRequest("Validation failed", map[string]any{"userId": "12345"})

	rec := NewRecord(at, testMeta, f)

	require.True(t, rec.Structured())
	require.Equal(t, at.UTC(), rec.Time)
	require.Equal(t, time.UTC, rec.Time.Location())
	require.Equal(t, testMeta, rec.Request)
	require.Equal(t, 400, rec.StatusCode)
	require.Equal(t, &errors.HTTPErrorBody{
		StatusCode: 400,
		Message:    "Validation failed",
		Error:      "Bad Request",
		Details:    map[string]any{"userId": "12345"},
	}, rec.Body)
	require.Empty(t, rec.Message)
	require.Empty(t, rec.Stack)
}

func TestNewRecord_Opaque(t *testing.T) {
	t.Parallel()

	f := &errors.OpaqueFailure{Err: stdErrors.New("boom"), Stack: "goroutine 1"}

	rec := NewRecord(time.Now(), testMeta, f)

	require.False(t, rec.Structured())
	require.Zero(t, rec.StatusCode)
	require.Nil(t, rec.Body)
	require.Equal(t, "boom", rec.Message)
	require.Equal(t, "goroutine 1", rec.Stack)
}
