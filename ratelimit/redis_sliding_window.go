package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ Strategy = &redisSlidingWindow{}

const (
	maxSortedSetScore = "+inf"
	minSortedSetScore = "-inf"
)

type redisSlidingWindow struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisSlidingWindow creates a sliding window rate limiter backed by a
// redis sorted set. Unlike the fixed window strategies it does not permit
// bursts at window boundaries, at the cost of one set member per request.
func NewRedisSlidingWindow(client *redis.Client, now func() time.Time) Strategy {
	return &redisSlidingWindow{
		client: client,
		now:    now,
	}
}

// Execute performs rate limiting using a sliding window strategy.
func (s *redisSlidingWindow) Execute(ctx context.Context, r *Request) (*Result, error) {
	now := s.now()
	expiresAt := now.Add(r.Duration)
	minimum := now.Add(-r.Duration)

	count, err := s.client.ZCount(ctx, r.Key, strconv.FormatInt(minimum.UnixMilli(), 10), maxSortedSetScore).Uint64()
	if err == nil && count >= r.Limit {
		return &Result{
			State:      Deny,
			RetryAfter: r.Duration,
			ExpiresAt:  expiresAt,
		}, nil
	}

	// every request needs an UUID
	item := uuid.New()

	p := s.client.Pipeline()

	// drop all requests that slid out of the window
	removeByScore := p.ZRemRangeByScore(ctx, r.Key, "0", strconv.FormatInt(minimum.UnixMilli(), 10))

	// record the current request
	add := p.ZAdd(ctx, r.Key, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: item.String(),
	})

	// count the surviving requests
	zCount := p.ZCount(ctx, r.Key, minSortedSetScore, maxSortedSetScore)

	if _, err := p.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to execute sorted set pipeline for key %v: %w", r.Key, err)
	}

	if err := removeByScore.Err(); err != nil {
		return nil, fmt.Errorf("failed to remove expired requests from key %v: %w", r.Key, err)
	}

	if err := add.Err(); err != nil {
		return nil, fmt.Errorf("failed to add request to key %v: %w", r.Key, err)
	}

	total, err := zCount.Result()
	if err != nil {
		return nil, fmt.Errorf("failed to count requests for key %v: %w", r.Key, err)
	}

	requests := uint64(total)

	if requests > r.Limit {
		return &Result{
			State:      Deny,
			RetryAfter: r.Duration,
			ExpiresAt:  expiresAt,
		}, nil
	}

	return &Result{
		State:     Allow,
		Remaining: r.Limit - requests,
		ExpiresAt: expiresAt,
	}, nil
}
