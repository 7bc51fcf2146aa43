package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisFixedWindow_Execute(t *testing.T) {
	tt := []struct {
		desc        string
		runs        int
		req         *Request
		wantState   State
		timeAdvance time.Duration
	}{
		{
			desc:      "returns Allow for requests under limit",
			req:       &Request{Key: "198.51.100.4", Limit: 5, Duration: 10 * time.Minute},
			runs:      5,
			wantState: Allow,
		},
		{
			desc:      "returns Deny for the request over the limit",
			req:       &Request{Key: "198.51.100.4", Limit: 5, Duration: 10 * time.Minute},
			runs:      6,
			wantState: Deny,
		},
		{
			desc:        "expires and starts a fresh window past the TTL",
			req:         &Request{Key: "198.51.100.4", Limit: 5, Duration: time.Minute},
			runs:        10,
			timeAdvance: 30 * time.Second,
			wantState:   Allow,
		},
	}

	for _, ts := range tt {
		t.Run(ts.desc, func(t *testing.T) {
			server, err := miniredis.Run()
			require.NoError(t, err)
			defer server.Close()

			now := time.Date(2024, time.June, 23, 10, 15, 30, 0, time.UTC)

			client := redis.NewClient(&redis.Options{Addr: server.Addr()})
			defer client.Close()

			limiter := NewRedisFixedWindow(client, func() time.Time { return now })

			var last *Result
			for x := 0; x < ts.runs; x++ {
				last, err = limiter.Execute(context.Background(), ts.req)
				require.NoError(t, err)
				if ts.timeAdvance != 0 {
					server.FastForward(ts.timeAdvance)
					now = now.Add(ts.timeAdvance)
				}
			}

			assert.Equal(t, ts.wantState, last.State)
		})
	}
}

func TestRedisFixedWindowReportsRetryAfter(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	now := time.Now()
	limiter := NewRedisFixedWindow(client, func() time.Time { return now })
	req := &Request{Key: "tenant", Limit: 1, Duration: time.Minute}

	res, err := limiter.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, Allow, res.State)

	res, err = limiter.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, Deny, res.State)
	assert.Greater(t, res.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, res.RetryAfter, time.Minute)
}
