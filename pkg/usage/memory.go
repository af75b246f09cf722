package usage

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage implements Storage in process memory, for tests and for
// running without a database file.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*Record
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store appends one record.
func (m *MemoryStorage) Store(ctx context.Context, record *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *record
	m.records = append(m.records, &clone)
	return nil
}

// Count returns the number of stored records.
func (m *MemoryStorage) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.records)), nil
}

// Recent returns up to limit records, newest first.
func (m *MemoryStorage) Recent(ctx context.Context, limit int) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Record, 0, limit)
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		clone := *m.records[i]
		out = append(out, &clone)
	}
	return out, nil
}

// DeleteOlderThan removes records older than cutoff.
func (m *MemoryStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.records[:0]
	var deleted int64
	for _, r := range m.records {
		if r.Time.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return deleted, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStorage) Close() error {
	return nil
}
