package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/lankatrails/tripapi/contact"
	"github.com/lankatrails/tripapi/ratelimit"
	"github.com/lankatrails/tripapi/validate"
)

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var in validate.ContactInput
	if err := decodeJSON(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Request body must be valid JSON."})
		return
	}

	data, err := validate.Contact(in)
	if err != nil {
		if errors.Is(err, validate.ErrHoneypot) {
			// Silent success: the sender must not learn it was detected,
			// and nothing downstream runs.
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
			return
		}
		rejectOrFail(w, err)
		return
	}

	identity := ratelimit.ClientIP(r)
	if !s.admit(w, r, "contact:"+identity) {
		return
	}

	res, err := s.contacts.Submit(r.Context(), contact.Submission{
		Name:    data.Name,
		Email:   data.Email,
		Topic:   data.Topic,
		Message: data.Message,
		Source:  data.Source,
	}, identity)
	if err != nil {
		log.Printf("contact delivery failed: %v", err)
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "Could not deliver message. Please try again shortly."})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"provider": res.Provider,
	})
}
