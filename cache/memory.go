package cache

import (
	"context"
	"sync"
	"time"
)

var _ Store = &memoryStore{}

type memoryEntry struct {
	entry     *Entry
	expiresAt time.Time
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a process-local store. A zero ttl disables
// expiry; otherwise entries lapse lazily on the next Get.
func NewMemoryStore(ttl time.Duration, now func() time.Time) Store {
	return &memoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (m *memoryStore) Get(_ context.Context, key string) (*Entry, bool, error) {
	m.mu.RLock()
	me, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !me.expiresAt.IsZero() && !m.now().Before(me.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return me.entry, true, nil
}

func (m *memoryStore) Put(_ context.Context, key string, entry *Entry) error {
	me := memoryEntry{entry: entry}
	if m.ttl > 0 {
		me.expiresAt = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.entries[key] = me
	m.mu.Unlock()
	return nil
}
