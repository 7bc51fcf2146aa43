package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/lankatrails/tripapi/cache"
)

// Service answers itinerary requests through a read-through cache so that
// equivalent requests trigger at most one generation per cache lifetime.
type Service struct {
	store cache.Store
	gen   Generator
	now   func() time.Time
}

// NewService creates an itinerary service.
func NewService(store cache.Store, gen Generator, now func() time.Time) *Service {
	return &Service{
		store: store,
		gen:   gen,
		now:   now,
	}
}

// Plan returns the itinerary for req, generating and caching it on a
// miss. The boolean reports whether the plan came from the cache.
//
// Two requests racing on the same cold key may both generate; the key is
// a pure function of the input, so the duplicate writes carry equivalent
// content and last-writer-wins is safe.
func (s *Service) Plan(ctx context.Context, req TripRequest) (*Plan, bool, error) {
	key := req.Fingerprint()

	entry, ok, err := s.store.Get(ctx, key)
	if err != nil {
		// A broken cache read degrades to regeneration, not a failure.
		log.Printf("cache read for %s failed: %v", key, err)
	}
	if ok {
		var p Plan
		if err := json.Unmarshal(entry.Plan, &p); err == nil {
			return &p, true, nil
		}
		log.Printf("discarding corrupt cache entry %s", key)
	}

	p, err := s.gen.Generate(ctx, req)
	if err != nil {
		return nil, false, err
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return nil, false, fmt.Errorf("encode generated plan: %w", err)
	}
	source, err := json.Marshal(req)
	if err != nil {
		return nil, false, fmt.Errorf("encode request snapshot: %w", err)
	}

	if err := s.store.Put(ctx, key, &cache.Entry{
		Key:       key,
		Plan:      raw,
		CreatedAt: s.now().UTC(),
		Source:    source,
	}); err != nil {
		// Cache durability is best effort; the plan still serves the caller.
		log.Printf("cache write for %s failed: %v", key, err)
	}

	return p, false, nil
}
