package diagnostics

import (
	"slices"
	"sync"
)

// MemorySink keeps every appended record in memory.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Append stores the record.
func (m *MemorySink) Append(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, rec)
	return nil
}

// Records returns a copy of the stored records in insertion order.
func (m *MemorySink) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.records)
}

// Len returns the number of stored records.
func (m *MemorySink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.records)
}
