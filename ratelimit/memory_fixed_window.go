package ratelimit

import (
	"context"
	"sync"
	"time"
)

var _ Strategy = &memoryFixedWindow{}

// rateRecord is one identity's live window. Records are replaced, not
// merged, when the window lapses; stale records are superseded lazily on
// next access.
type rateRecord struct {
	count   uint64
	resetAt time.Time
}

type memoryFixedWindow struct {
	mu      sync.Mutex
	records map[string]*rateRecord
	now     func() time.Time
}

// NewMemoryFixedWindow creates a process-local fixed window rate limiter.
// State does not survive a restart; the consequence is a bounded,
// temporary relaxation of the limit, not a correctness violation.
func NewMemoryFixedWindow(now func() time.Time) Strategy {
	return &memoryFixedWindow{
		records: make(map[string]*rateRecord),
		now:     now,
	}
}

// Execute performs an atomic check-and-increment for the request key.
func (m *memoryFixedWindow) Execute(_ context.Context, r *Request) (*Result, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[r.Key]
	if !ok || !now.Before(rec.resetAt) {
		rec = &rateRecord{count: 1, resetAt: now.Add(r.Duration)}
		m.records[r.Key] = rec
		if r.Limit == 0 {
			return &Result{State: Deny, RetryAfter: r.Duration, ExpiresAt: rec.resetAt}, nil
		}
		return &Result{
			State:     Allow,
			Remaining: r.Limit - 1,
			ExpiresAt: rec.resetAt,
		}, nil
	}

	if rec.count >= r.Limit {
		return &Result{
			State:      Deny,
			RetryAfter: rec.resetAt.Sub(now),
			ExpiresAt:  rec.resetAt,
		}, nil
	}

	rec.count++
	return &Result{
		State:     Allow,
		Remaining: r.Limit - rec.count,
		ExpiresAt: rec.resetAt,
	}, nil
}
