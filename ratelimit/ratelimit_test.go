package ratelimit

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tt := []struct {
		desc       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{
			desc:       "prefers the first forwarded-for entry",
			forwarded:  "203.0.113.7, 10.0.0.1",
			remoteAddr: "10.0.0.2:4242",
			want:       "203.0.113.7",
		},
		{
			desc:       "falls back to X-Real-IP",
			realIP:     "203.0.113.8",
			remoteAddr: "10.0.0.2:4242",
			want:       "203.0.113.8",
		},
		{
			desc:       "falls back to the connection address",
			remoteAddr: "198.51.100.4:5151",
			want:       "198.51.100.4",
		},
		{
			desc:       "keeps an unparseable remote address as-is",
			remoteAddr: "not-a-hostport",
			want:       "not-a-hostport",
		},
		{
			desc: "unknown callers share one bucket",
			want: "unknown",
		},
		{
			desc:       "ignores a whitespace-only forwarded header",
			forwarded:  "  ,10.0.0.1",
			remoteAddr: "198.51.100.4:5151",
			want:       "198.51.100.4",
		},
	}

	for _, ts := range tt {
		t.Run(ts.desc, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/contact", nil)
			r.RemoteAddr = ts.remoteAddr
			if ts.forwarded != "" {
				r.Header.Set("X-Forwarded-For", ts.forwarded)
			}
			if ts.realIP != "" {
				r.Header.Set("X-Real-IP", ts.realIP)
			}

			assert.Equal(t, ts.want, ClientIP(r))
		})
	}
}
