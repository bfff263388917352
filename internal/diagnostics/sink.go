package diagnostics

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/maskd/internal/contracts"
	"github.com/mozilla-ai/maskd/internal/domain"
	"github.com/mozilla-ai/maskd/internal/errors"
)

var _ contracts.HealthMonitor = (*QueueSink)(nil)

// Sink accepts diagnostic records.
type Sink interface {
	// Append adds a record. It must not block.
	Append(rec Record) error
}

// RecordWriter persists a single record.
type RecordWriter interface {
	WriteRecord(rec Record) error
}

// QueueSink is a bounded, non-blocking Sink drained by Run.
// NewQueueSink should be used to create instances of QueueSink.
type QueueSink struct {
	// Logger for out-of-band reports about the sink itself.
	logger hclog.Logger

	// Writer that receives drained records.
	writer RecordWriter

	queue chan Record
	done  chan struct{}

	// abort is closed when a drain deadline passes, stopping Run after the write in progress.
	abort     chan struct{}
	abortOnce sync.Once

	mu     sync.RWMutex
	closed bool

	dropped atomic.Uint64
	failed  atomic.Uint64
}

// NewQueueSink creates a sink with room for size pending records.
func NewQueueSink(logger hclog.Logger, writer RecordWriter, size int) (*QueueSink, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if writer == nil {
		return nil, fmt.Errorf("record writer cannot be nil")
	}
	if size <= 0 {
		return nil, fmt.Errorf("queue size must be positive, got %d", size)
	}

	return &QueueSink{
		logger: logger.Named("sink"),
		writer: writer,
		queue:  make(chan Record, size),
		done:   make(chan struct{}),
		abort:  make(chan struct{}),
	}, nil
}

// Append enqueues the record without blocking.
// It returns errors.ErrSinkFull when the queue is at capacity and errors.ErrSinkClosed after Close.
func (s *QueueSink) Append(rec Record) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.dropped.Add(1)
		return errors.ErrSinkClosed
	}

	select {
	case s.queue <- rec:
		return nil
	default:
		s.dropped.Add(1)
		return errors.ErrSinkFull
	}
}

// Run drains the queue into the writer until Close is called and every queued record is written.
// When Close gives up waiting, Run returns as soon as the write in progress finishes and
// counts the records still queued as dropped.
// It should be called exactly once, in its own goroutine.
func (s *QueueSink) Run() {
	defer close(s.done)

	for {
		select {
		case <-s.abort:
			s.discardQueued()
			return
		default:
		}

		select {
		case <-s.abort:
			s.discardQueued()
			return
		case rec, ok := <-s.queue:
			if !ok {
				return
			}
			if err := s.writer.WriteRecord(rec); err != nil {
				s.failed.Add(1)
				s.logger.Warn("Failed to write diagnostic record", "request_id", rec.Request.RequestID, "error", err)
			}
		}
	}
}

// discardQueued empties the closed queue, counting every record as dropped.
func (s *QueueSink) discardQueued() {
	for range s.queue {
		s.dropped.Add(1)
	}
}

// Close stops accepting records and waits for Run to drain the queue, or for ctx to expire.
// When ctx expires first, Run is told to stop after its current write and the remaining records are dropped.
// It is safe to call more than once.
func (s *QueueSink) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
	case <-ctx.Done():
		s.abortOnce.Do(func() { close(s.abort) })
		return fmt.Errorf("diagnostic sink did not drain: %w", ctx.Err())
	}

	if n := s.dropped.Load(); n > 0 {
		s.logger.Warn("Diagnostic records were dropped", "count", n)
	}
	if n := s.failed.Load(); n > 0 {
		s.logger.Warn("Diagnostic records failed to write", "count", n)
	}

	return nil
}

// Dropped returns how many records were rejected because the queue was full or closed.
func (s *QueueSink) Dropped() uint64 {
	return s.dropped.Load()
}

// Pending returns how many records are waiting to be written.
func (s *QueueSink) Pending() int {
	return len(s.queue)
}

// Capacity returns the maximum number of pending records.
func (s *QueueSink) Capacity() int {
	return cap(s.queue)
}

// Health reports the sink as degraded once the queue is at least 90% full.
func (s *QueueSink) Health() domain.ServiceHealth {
	pending, capacity := s.Pending(), s.Capacity()

	status := domain.HealthStatusOK
	if pending*10 >= capacity*9 {
		status = domain.HealthStatusDegraded
	}

	return domain.ServiceHealth{
		Status:         status,
		PendingRecords: pending,
		QueueCapacity:  capacity,
		DroppedRecords: s.Dropped(),
	}
}
