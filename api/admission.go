package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/lankatrails/tripapi/ratelimit"
	"github.com/lankatrails/tripapi/validate"
)

// admit runs the rate limit check for key and writes the 429 or 500
// response itself when the request may not proceed.
func (s *Server) admit(w http.ResponseWriter, r *http.Request, key string) bool {
	res, err := s.limiter.Execute(r.Context(), &ratelimit.Request{
		Key:      key,
		Limit:    s.rateMax,
		Duration: s.rateWindow,
	})
	if err != nil {
		log.Printf("rate limit check for %s failed: %v", key, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: genericError})
		return false
	}

	w.Header().Set(headerRemaining, strconv.FormatUint(res.Remaining, 10))
	if res.State == ratelimit.Deny {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(res.RetryAfter)))
		writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "Too many requests. Please try again later."})
		return false
	}
	return true
}

// retryAfterSeconds rounds up so callers never retry inside the window.
func retryAfterSeconds(d time.Duration) int {
	if d <= 0 {
		return 1
	}
	return int((d + time.Second - 1) / time.Second)
}

func decodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

// rejectOrFail writes a 400 for tagged rejections and a generic 500 for
// anything else; internal detail never reaches the caller.
func rejectOrFail(w http.ResponseWriter, err error) {
	var rej *validate.Rejection
	if errors.As(err, &rej) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: rej.Message})
		return
	}
	log.Printf("unexpected validation failure: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: genericError})
}
