package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Strategy = &redisFixedWindow{}

const (
	keyDNE      = -2
	keyNoExpire = -1
)

type redisFixedWindow struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisFixedWindow creates a fixed window rate limiter backed by redis,
// for deployments where the counter must be shared across processes.
func NewRedisFixedWindow(client *redis.Client, now func() time.Time) Strategy {
	return &redisFixedWindow{
		client: client,
		now:    now,
	}
}

// Execute performs rate limiting using a fixed window strategy.
func (f *redisFixedWindow) Execute(ctx context.Context, r *Request) (*Result, error) {
	// Redis pipeline to optimize network round trips.
	pipe := f.client.Pipeline()
	getCmd := pipe.Get(ctx, r.Key)
	ttlCmd := pipe.TTL(ctx, r.Key)

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("error executing admission pipeline for key %v: %w", r.Key, err)
	}

	var ttl time.Duration

	if duration, err := ttlCmd.Result(); err != nil || duration == keyDNE || duration == keyNoExpire {
		ttl = r.Duration
		if err := f.client.Expire(ctx, r.Key, r.Duration).Err(); err != nil {
			return nil, fmt.Errorf("error setting window expiry for key %v: %w", r.Key, err)
		}
	} else {
		ttl = duration
	}

	expiresAt := f.now().Add(ttl)

	if count, err := getCmd.Uint64(); err != nil && errors.Is(err, redis.Nil) {
	} else if count >= r.Limit {
		return &Result{
			State:      Deny,
			RetryAfter: ttl,
			ExpiresAt:  expiresAt,
		}, nil
	}

	count, err := f.client.Incr(ctx, r.Key).Uint64()
	if err != nil {
		return nil, fmt.Errorf("error incrementing key %v: %w", r.Key, err)
	}

	if count > r.Limit {
		return &Result{
			State:      Deny,
			RetryAfter: ttl,
			ExpiresAt:  expiresAt,
		}, nil
	}

	return &Result{
		State:     Allow,
		Remaining: r.Limit - count,
		ExpiresAt: expiresAt,
	}, nil
}
