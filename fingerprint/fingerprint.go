// Package fingerprint derives deterministic content addresses from
// normalized request payloads. The address is the idempotency key for
// generation caching: semantically identical requests must collide.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Key returns the content address of payload. Strings are trimmed and
// lower-cased, numbers stay numbers, and object keys serialize in
// lexicographic order, so field order, casing and incidental whitespace in
// the original request never change the result. Key is total and stable
// across process restarts.
func Key(payload map[string]any) string {
	b, err := json.Marshal(normalize(payload))
	if err != nil {
		// Only unserializable values (channels, funcs) land here and
		// request payloads never carry them; fall back rather than fail.
		b = []byte(fmt.Sprintf("%v", payload))
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func normalize(v any) any {
	switch t := v.(type) {
	case string:
		return canonical(t)
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = canonical(s)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	default:
		return v
	}
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
