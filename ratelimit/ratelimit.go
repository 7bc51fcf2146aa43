// Package ratelimit admits or denies requests per client identity. The
// check always runs before any side-effecting work.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"
)

// Request defines a request to be rate-limited.
type Request struct {
	Key      string
	Limit    uint64
	Duration time.Duration
}

// State represents the result of rate limiting.
type State int64

const (
	Deny State = iota
	Allow
)

// State strings for HTTP headers
var stateStrings = map[State]string{
	Allow: "Allow",
	Deny:  "Deny",
}

func (s State) String() string {
	return stateStrings[s]
}

// Result is the outcome of a rate limit check. RetryAfter is populated on
// Deny with the time remaining until the window resets.
type Result struct {
	State      State
	Remaining  uint64
	RetryAfter time.Duration
	ExpiresAt  time.Time
}

// Strategy interface defines the contract for rate limiting strategies.
type Strategy interface {
	Execute(ctx context.Context, r *Request) (*Result, error)
}

// ClientIP derives the rate limiting identity from the caller's network
// address: first X-Forwarded-For entry, then X-Real-IP, then the direct
// connection address. Callers with no derivable address share one
// "unknown" bucket, a known limitation.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if rip := strings.TrimSpace(r.Header.Get("X-Real-IP")); rip != "" {
		return rip
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
