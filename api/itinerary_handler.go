package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/lankatrails/tripapi/itinerary"
	"github.com/lankatrails/tripapi/ratelimit"
	"github.com/lankatrails/tripapi/validate"
)

func (s *Server) handleItinerary(w http.ResponseWriter, r *http.Request) {
	var in validate.ItineraryInput
	if err := decodeJSON(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Request body must be valid JSON."})
		return
	}

	data, err := validate.Itinerary(in)
	if err != nil {
		rejectOrFail(w, err)
		return
	}

	identity := ratelimit.ClientIP(r)
	if !s.admit(w, r, "itinerary:"+identity) {
		return
	}

	plan, cached, err := s.itineraries.Plan(r.Context(), itinerary.TripRequest{
		Cities:    data.Cities,
		Travelers: data.Travelers,
		Days:      data.Days,
		Style:     data.Style,
	})
	if err != nil {
		switch {
		case errors.Is(err, itinerary.ErrProviderBusy):
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "The itinerary service is busy. Please try again shortly."})
		case errors.Is(err, itinerary.ErrBadPlan):
			log.Printf("generator returned malformed plan: %v", err)
			writeJSON(w, http.StatusBadGateway, errorBody{Error: "The itinerary service returned an unexpected result. Please try again."})
		default:
			log.Printf("itinerary generation failed: %v", err)
			writeJSON(w, http.StatusBadGateway, errorBody{Error: "Itinerary generation is temporarily unavailable. Please try again."})
		}
		return
	}

	if cached {
		w.Header().Set(headerCache, "hit")
	} else {
		w.Header().Set(headerCache, "miss")
	}
	writeJSON(w, http.StatusOK, plan)
}
