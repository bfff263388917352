package daemon

import (
	"context"
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/mozilla-ai/maskd/internal/diagnostics"
)

type collectingWriter struct {
	mu      sync.Mutex
	records []diagnostics.Record
}

func (w *collectingWriter) WriteRecord(rec diagnostics.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records = append(w.records, rec)
	return nil
}

func (w *collectingWriter) Records() []diagnostics.Record {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]diagnostics.Record(nil), w.records...)
}

func testDependencies(t *testing.T, writer diagnostics.RecordWriter) Dependencies {
	t.Helper()

	deps, err := NewDependencies(
		hclog.NewNullLogger(),
		"127.0.0.1:0",
		writer,
		noop.NewTracerProvider().Tracer("test"),
	)
	require.NoError(t, err)

	return deps
}

func TestDaemon_Dependencies_Validate(t *testing.T) {
	t.Parallel()

	_, err := NewDependencies(nil, "127.0.0.1:0", &collectingWriter{}, noop.NewTracerProvider().Tracer("test"))
	require.EqualError(t, err, "logger cannot be nil")

	_, err = NewDependencies(hclog.NewNullLogger(), "nope", &collectingWriter{}, noop.NewTracerProvider().Tracer("test"))
	require.ErrorContains(t, err, "invalid API address 'nope'")

	_, err = NewDependencies(hclog.NewNullLogger(), "127.0.0.1:0", nil, noop.NewTracerProvider().Tracer("test"))
	require.EqualError(t, err, "record writer cannot be nil")

	_, err = NewDependencies(hclog.NewNullLogger(), "127.0.0.1:0", &collectingWriter{}, nil)
	require.EqualError(t, err, "tracer cannot be nil")
}

func TestDaemon_StartAndManage_DrainsSinkOnShutdown(t *testing.T) {
	t.Parallel()

	writer := &collectingWriter{}

	var hookCalls []string
	d, err := NewDaemon(
		testDependencies(t, writer),
		WithQueueSize(8),
		WithDrainTimeout(time.Second),
		WithShutdownHook(func(context.Context) error {
			hookCalls = append(hookCalls, "first")
			return stdErrors.New("ignored")
		}),
		WithShutdownHook(func(context.Context) error {
			hookCalls = append(hookCalls, "second")
			return nil
		}),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.StartAndManage(ctx) }()

	// Drive the handler directly; it shares the daemon's diagnostic sink.
	h, err := d.apiServer.Handler()
	require.NoError(t, err)

	for _, path := range []string{"/api/error/400", "/api/error/404", "/api/error/unexpected"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}

	records := writer.Records()
	require.Len(t, records, 3)
	require.Equal(t, http.StatusBadRequest, records[0].StatusCode)
	require.Equal(t, http.StatusNotFound, records[1].StatusCode)
	require.False(t, records[2].Structured())

	require.Equal(t, []string{"first", "second"}, hookCalls)
	require.Zero(t, d.sink.Dropped())
}

func TestDaemon_NewDaemon_InvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := NewDaemon(testDependencies(t, &collectingWriter{}), WithQueueSize(-1))
	require.ErrorContains(t, err, "invalid daemon options")

	_, err = NewDaemon(testDependencies(t, &collectingWriter{}), WithAPIOptions(WithShutdownTimeout(0)))
	require.ErrorContains(t, err, "failed to create daemon API server")
}

// slowWriter takes delay to persist each record.
type slowWriter struct {
	collectingWriter
	delay time.Duration
}

func (w *slowWriter) WriteRecord(rec diagnostics.Record) error {
	time.Sleep(w.delay)
	return w.collectingWriter.WriteRecord(rec)
}

func TestDaemon_StartAndManage_DrainTimeoutBoundsShutdown(t *testing.T) {
	t.Parallel()

	writer := &slowWriter{delay: 200 * time.Millisecond}
	d, err := NewDaemon(
		testDependencies(t, writer),
		WithQueueSize(8),
		WithDrainTimeout(50*time.Millisecond),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.StartAndManage(ctx) }()

	h, err := d.apiServer.Handler()
	require.NoError(t, err)

	const requests = 5
	for range requests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/error/409", nil))
	}

	start := time.Now()
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}

	// Draining every record would take a full second, the deadline plus one write is far less.
	require.Less(t, time.Since(start), 900*time.Millisecond)
	require.Less(t, len(writer.Records()), requests)
	require.Equal(t, uint64(requests), uint64(len(writer.Records()))+d.sink.Dropped())
}
