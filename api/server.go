// Package api exposes the public JSON endpoints and maps the error
// taxonomy onto HTTP status codes: rejections to 400, rate limiting to
// 429, upstream failures to 502 and everything unexpected to a generic
// 500.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/lankatrails/tripapi/contact"
	"github.com/lankatrails/tripapi/itinerary"
	"github.com/lankatrails/tripapi/ratelimit"
)

const (
	headerRemaining = "X-RateLimit-Remaining"
	headerCache     = "X-Itinerary-Cache"

	genericError = "Something went wrong. Please try again."
)

// Server wires request admission and the two user-facing services behind
// the public endpoints.
type Server struct {
	limiter    ratelimit.Strategy
	rateMax    uint64
	rateWindow time.Duration

	contacts    *contact.Service
	itineraries *itinerary.Service
}

// NewServer creates the API server.
func NewServer(limiter ratelimit.Strategy, rateMax uint64, rateWindow time.Duration, contacts *contact.Service, itineraries *itinerary.Service) *Server {
	return &Server{
		limiter:     limiter,
		rateMax:     rateMax,
		rateWindow:  rateWindow,
		contacts:    contacts,
		itineraries: itineraries,
	}
}

// Routes returns the request mux for the public API.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/contact", s.handleContact)
	mux.HandleFunc("POST /api/itinerary", s.handleItinerary)
	return mux
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to write response body: %v", err)
	}
}
