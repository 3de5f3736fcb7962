package memory

import (
	"context"
	"sync"

	"mockpay/internal/core/domain"
)

// DefaultLogCapacity bounds the in-memory log collection.
const DefaultLogCapacity = 5000

// LogRepo implements ports.LogRepository as a bounded buffer; the oldest
// entries are evicted once capacity is reached.
type LogRepo struct {
	mu       sync.RWMutex
	entries  []domain.LogEntry
	capacity int
}

// NewLogRepo creates a LogRepo holding at most capacity entries.
func NewLogRepo(capacity int) *LogRepo {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &LogRepo{capacity: capacity}
}

func (r *LogRepo) Create(ctx context.Context, entry *domain.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == r.capacity {
		copy(r.entries, r.entries[1:])
		r.entries = r.entries[:len(r.entries)-1]
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *LogRepo) List(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	start := 0
	if limit > 0 && len(r.entries) > limit {
		start = len(r.entries) - limit
	}
	out := make([]domain.LogEntry, len(r.entries)-start)
	copy(out, r.entries[start:])
	return out, nil
}

func (r *LogRepo) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
	return nil
}
