// Package itinerary turns normalized trip requests into generated travel
// plans, calling the generation provider at most once per distinct request
// fingerprint per cache generation.
package itinerary

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lankatrails/tripapi/fingerprint"
)

// ErrBadPlan reports generator output that failed to parse as a
// well-formed plan. The violation is surfaced as a retryable upstream
// failure, never silently patched.
var ErrBadPlan = errors.New("generator returned a malformed plan")

// CostUSD is the approximate daily cost breakdown, rounded estimates.
type CostUSD struct {
	Transport  float64 `json:"transport"`
	Food       float64 `json:"food"`
	Hotel      float64 `json:"hotel"`
	Activities float64 `json:"activities"`
	Total      float64 `json:"total"`
}

// DayPlan is one day of a generated itinerary.
type DayPlan struct {
	Day        int      `json:"day" validate:"min=1"`
	Base       string   `json:"base" validate:"required"`
	Transport  []string `json:"transport"`
	Activities []string `json:"plan" validate:"required,min=1"`
	Food       string   `json:"food"`
	Cost       CostUSD  `json:"cost_usd"`
}

// Plan is the generated itinerary document.
type Plan struct {
	Title   string    `json:"title" validate:"required"`
	Summary string    `json:"summary" validate:"required"`
	Days    []DayPlan `json:"days" validate:"required,min=1,dive"`
	Tips    []string  `json:"tips"`
}

var planChecks = validator.New()

// ParsePlan decodes and schema-checks generator output. Any violation is
// reported as ErrBadPlan.
func ParsePlan(text string) (*Plan, error) {
	var p Plan
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPlan, err)
	}
	if err := planChecks.Struct(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPlan, err)
	}
	return &p, nil
}

// TripRequest is a normalized itinerary request. Fields are expected to
// have passed through the validate package.
type TripRequest struct {
	Cities    []string `json:"cities"`
	Travelers int      `json:"travelers"`
	Days      int      `json:"days"`
	Style     string   `json:"style"`
}

// Fingerprint returns the idempotency key for the request.
func (r TripRequest) Fingerprint() string {
	return fingerprint.Key(map[string]any{
		"cities":    r.Cities,
		"travelers": r.Travelers,
		"days":      r.Days,
		"style":     r.Style,
	})
}
