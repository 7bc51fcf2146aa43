package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var _ Strategy = &tokenBucket{}

type bucketEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// tokenBucket keeps one rate.Limiter per key. The request's Limit tokens
// are replenished evenly across its Duration, with Limit burst capacity,
// so sustained throughput matches the fixed window cap without its
// boundary bursts.
type tokenBucket struct {
	mu        sync.Mutex
	entries   map[string]*bucketEntry
	idleTTL   time.Duration
	lastSweep time.Time
}

// NewTokenBucket creates an in-memory token bucket rate limiter. Entries
// idle for longer than idleTTL are dropped on later calls.
func NewTokenBucket(idleTTL time.Duration) Strategy {
	return &tokenBucket{
		entries: make(map[string]*bucketEntry),
		idleTTL: idleTTL,
	}
}

func (t *tokenBucket) Execute(_ context.Context, r *Request) (*Result, error) {
	now := time.Now()

	t.mu.Lock()
	ent, ok := t.entries[r.Key]
	if !ok {
		perSecond := float64(r.Limit) / r.Duration.Seconds()
		ent = &bucketEntry{lim: rate.NewLimiter(rate.Limit(perSecond), int(r.Limit))}
		t.entries[r.Key] = ent
	}
	ent.lastSeen = now
	t.sweepLocked(now)
	t.mu.Unlock()

	res := ent.lim.ReserveN(now, 1)
	if !res.OK() {
		return &Result{State: Deny, RetryAfter: r.Duration, ExpiresAt: now.Add(r.Duration)}, nil
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return &Result{
			State:      Deny,
			RetryAfter: delay,
			ExpiresAt:  now.Add(delay),
		}, nil
	}

	remaining := ent.lim.TokensAt(now)
	if remaining < 0 {
		remaining = 0
	}
	return &Result{
		State:     Allow,
		Remaining: uint64(remaining),
		ExpiresAt: now.Add(r.Duration),
	}, nil
}

func (t *tokenBucket) sweepLocked(now time.Time) {
	if t.idleTTL <= 0 || now.Sub(t.lastSweep) < t.idleTTL {
		return
	}
	t.lastSweep = now
	cutoff := now.Add(-t.idleTTL)
	for k, ent := range t.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(t.entries, k)
		}
	}
}
