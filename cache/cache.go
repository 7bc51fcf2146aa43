// Package cache is the read-through store for generated itineraries,
// keyed by request fingerprint. Callers check Get before expensive work
// and Put only after that work fully succeeds, so partial or failed
// generations never reach the store.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Entry is one cached generation result. Entries are immutable once
// written; a semantically different request produces a different key.
type Entry struct {
	Key       string          `json:"key"`
	Plan      json.RawMessage `json:"plan"`
	CreatedAt time.Time       `json:"created_at"`
	Source    json.RawMessage `json:"source,omitempty"`
}

// Store holds cache entries. A Get miss is reported through the boolean,
// not an error; errors mean the backing store itself failed. Concurrent
// Put races for the same key are last-writer-wins, which is safe because
// the key is a pure function of the input.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Put(ctx context.Context, key string, entry *Entry) error
}
