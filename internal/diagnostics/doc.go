// Package diagnostics records the unredacted original of every error the masking layer intercepts.
//
// Records are appended to a Sink. QueueSink is the process-wide sink: a bounded queue drained by a single
// goroutine into a RecordWriter, so appends never block the response path. When the queue is full the
// record is dropped and counted. MemorySink keeps records in memory for inspection in tests.
//
// The sink has an explicit lifecycle: create it at startup, call Run in its own goroutine, and call Close
// after the HTTP server has stopped so in-flight requests can still record their errors.
package diagnostics
