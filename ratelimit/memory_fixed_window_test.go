package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFixedWindow(t *testing.T) {
	now := time.Date(2024, time.June, 23, 10, 15, 30, 0, time.UTC)
	limiter := NewMemoryFixedWindow(func() time.Time { return now })

	req := &Request{Key: "203.0.113.7", Limit: 5, Duration: 10 * time.Minute}

	for i := 0; i < 5; i++ {
		res, err := limiter.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, Allow, res.State)
		assert.Equal(t, uint64(4-i), res.Remaining)
	}

	// 6th request inside the window is denied with the time to reset.
	res, err := limiter.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, Deny, res.State)
	assert.Equal(t, 10*time.Minute, res.RetryAfter)

	// Partway through the window the retry hint shrinks.
	now = now.Add(4 * time.Minute)
	res, err = limiter.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, Deny, res.State)
	assert.Equal(t, 6*time.Minute, res.RetryAfter)

	// Crossing the boundary starts a fresh window with count 1.
	now = now.Add(6 * time.Minute)
	res, err = limiter.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, Allow, res.State)
	assert.Equal(t, uint64(4), res.Remaining)
	assert.Equal(t, now.Add(10*time.Minute), res.ExpiresAt)
}

func TestMemoryFixedWindowKeysAreIndependent(t *testing.T) {
	now := time.Now()
	limiter := NewMemoryFixedWindow(func() time.Time { return now })

	a := &Request{Key: "a", Limit: 1, Duration: time.Minute}
	b := &Request{Key: "b", Limit: 1, Duration: time.Minute}

	res, err := limiter.Execute(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, Allow, res.State)

	res, err = limiter.Execute(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, Deny, res.State)

	res, err = limiter.Execute(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, Allow, res.State)
}

func TestMemoryFixedWindowZeroLimitDenies(t *testing.T) {
	limiter := NewMemoryFixedWindow(time.Now)

	res, err := limiter.Execute(context.Background(), &Request{Key: "x", Limit: 0, Duration: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, Deny, res.State)
}

func TestMemoryFixedWindowConcurrentCheckAndIncrement(t *testing.T) {
	now := time.Now()
	limiter := NewMemoryFixedWindow(func() time.Time { return now })

	const (
		workers = 50
		limit   = 20
	)
	req := &Request{Key: "shared", Limit: limit, Duration: time.Minute}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := limiter.Execute(context.Background(), req)
			if !assert.NoError(t, err) {
				return
			}
			if res.State == Allow {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// The count never exceeds the cap inside a live window.
	assert.Equal(t, limit, allowed)
}
