// Package validate sanitizes raw request payloads before any
// side-effecting work begins. Rules apply in order and the first failure
// wins; expected bad input is reported as a tagged Rejection, never a
// panic.
package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Rejection is a tagged refusal of client input. Code is stable and
// machine-readable; Message is safe to echo back to the caller.
type Rejection struct {
	Code    string
	Message string
}

func (r *Rejection) Error() string {
	return r.Code + ": " + r.Message
}

// ErrHoneypot reports a filled honeypot field. Callers respond with a
// silent success and perform no side effects, so an automated sender
// cannot tell it was detected.
var ErrHoneypot = &Rejection{Code: "honeypot", Message: "ok"}

// MaxMessageLinks bounds how many URL-like substrings a message may carry
// before it is treated as spam. A cheap signal, not a definitive one.
var MaxMessageLinks = 3

const (
	minNameLen    = 2
	maxNameLen    = 80
	minMessageLen = 15
	maxMessageLen = 4000

	minCityLen = 2
	maxCityLen = 40

	minTravelers = 1
	maxTravelers = 20
	minDays      = 1
	maxDays      = 30

	maxStyleLen = 30
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	urlPattern   = regexp.MustCompile(`(?i)https?://`)
	spaceRuns    = regexp.MustCompile(`\s+`)
)

// ContactInput is the raw contact form payload.
type ContactInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Topic    string `json:"topic"`
	Message  string `json:"message"`
	Source   string `json:"source"`
	Honeypot string `json:"_honey"`
}

// ContactData is a sanitized contact submission.
type ContactData struct {
	Name    string
	Email   string
	Topic   string
	Message string
	Source  string
}

// Contact sanitizes a contact submission or rejects it with a reason.
func Contact(in ContactInput) (ContactData, error) {
	if strings.TrimSpace(in.Honeypot) != "" {
		return ContactData{}, ErrHoneypot
	}

	name := strings.TrimSpace(in.Name)
	if len(name) < minNameLen || len(name) > maxNameLen {
		return ContactData{}, &Rejection{Code: "invalid-name", Message: "Please provide a valid name."}
	}

	email := strings.TrimSpace(in.Email)
	if !emailPattern.MatchString(email) {
		return ContactData{}, &Rejection{Code: "invalid-email", Message: "Please provide a valid email."}
	}

	message := strings.TrimSpace(in.Message)
	if len(message) < minMessageLen || len(message) > maxMessageLen {
		return ContactData{}, &Rejection{
			Code:    "invalid-message",
			Message: fmt.Sprintf("Message must be %d-%d characters.", minMessageLen, maxMessageLen),
		}
	}

	if len(urlPattern.FindAllStringIndex(message, -1)) > MaxMessageLinks {
		return ContactData{}, &Rejection{Code: "suspicious-content", Message: "Please reduce links in your message."}
	}

	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		topic = "General inquiry"
	}
	source := strings.TrimSpace(in.Source)
	if source == "" {
		source = "contact-page"
	}

	return ContactData{
		Name:    name,
		Email:   email,
		Topic:   topic,
		Message: message,
		Source:  source,
	}, nil
}

// ItineraryInput is the raw itinerary request payload.
type ItineraryInput struct {
	Cities    []string    `json:"cities"`
	Travelers json.Number `json:"travelers"`
	Days      json.Number `json:"days"`
	Style     string      `json:"style"`
}

// TripData is a sanitized itinerary request.
type TripData struct {
	Cities    []string
	Travelers int
	Days      int
	Style     string
}

// Itinerary sanitizes an itinerary request or rejects it with a reason.
func Itinerary(in ItineraryInput) (TripData, error) {
	cities := Cities(in.Cities)
	if len(cities) == 0 {
		return TripData{}, &Rejection{Code: "empty-list", Message: "Please select at least one city."}
	}
	for _, c := range cities {
		if len(c) < minCityLen || len(c) > maxCityLen {
			return TripData{}, &Rejection{Code: "invalid-city", Message: fmt.Sprintf("Invalid city name: %q", c)}
		}
	}

	travelers, ok := boundedInt(in.Travelers, minTravelers, maxTravelers)
	if !ok {
		return TripData{}, &Rejection{
			Code:    "out-of-range",
			Message: fmt.Sprintf("Invalid travelers value (must be %d-%d).", minTravelers, maxTravelers),
		}
	}

	days, ok := boundedInt(in.Days, minDays, maxDays)
	if !ok {
		return TripData{}, &Rejection{
			Code:    "out-of-range",
			Message: fmt.Sprintf("Invalid days value (must be %d-%d).", minDays, maxDays),
		}
	}

	style := strings.ToLower(strings.TrimSpace(in.Style))
	if style == "" {
		style = "balanced"
	}
	if len(style) > maxStyleLen {
		style = style[:maxStyleLen]
	}

	return TripData{
		Cities:    cities,
		Travelers: travelers,
		Days:      days,
		Style:     style,
	}, nil
}

// Cities trims each element, collapses internal whitespace to single
// spaces, drops empties and removes case-insensitive duplicates while
// preserving first-seen order and casing.
func Cities(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		c = spaceRuns.ReplaceAllString(strings.TrimSpace(c), " ")
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

// boundedInt coerces a JSON number to an integer inside [min, max].
// Out-of-range and non-finite values are rejections, never clamped.
func boundedInt(n json.Number, min, max int) (int, bool) {
	if n.String() == "" {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	i := int(math.Trunc(f))
	if i < min || i > max {
		return 0, false
	}
	return i, true
}
