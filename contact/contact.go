// Package contact delivers validated inquiries through an ordered chain
// of outbound providers, with a best-effort CRM side channel that never
// gates the delivery outcome.
package contact

import (
	"context"
	"strings"
)

// Submission is a validated contact inquiry.
type Submission struct {
	Name    string
	Email   string
	Topic   string
	Message string
	Source  string
}

// Subject returns the delivery subject line.
func (s Submission) Subject() string {
	return "New website contact: " + s.Topic
}

// Body renders the plain-text delivery body.
func (s Submission) Body() string {
	return strings.Join([]string{
		"Name: " + s.Name,
		"Email: " + s.Email,
		"Topic: " + s.Topic,
		"Source: " + s.Source,
		"",
		"Message:",
		s.Message,
	}, "\n")
}

// Provider delivers a submission through one outbound channel.
type Provider interface {
	Name() string
	// Configured reports whether the provider has the credentials it
	// needs. Unconfigured providers are skipped, not counted as failures.
	Configured() bool
	Send(ctx context.Context, sub Submission) error
}

// Attempt records one provider try while walking the chain. Attempts are
// transient; they only decide whether the chain advances.
type Attempt struct {
	Provider string `json:"provider"`
	OK       bool   `json:"ok"`
	Detail   string `json:"detail,omitempty"`
}

// Result names the provider that accepted the submission.
type Result struct {
	Provider string    `json:"provider"`
	Attempts []Attempt `json:"attempts,omitempty"`
}
