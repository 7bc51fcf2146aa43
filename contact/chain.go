package contact

import (
	"context"
	"errors"
	"fmt"
)

// ErrUndeliverable reports that every configured provider failed.
var ErrUndeliverable = errors.New("no configured provider accepted the message")

// Chain tries providers strictly in priority order and stops at the first
// success. Adding a provider is a list change, not a control flow change.
type Chain struct {
	providers []Provider
}

// NewChain creates a delivery chain over providers in priority order.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Deliver walks the chain. Individual provider failures are absorbed; a
// failure only surfaces once every configured provider is exhausted.
func (c *Chain) Deliver(ctx context.Context, sub Submission) (Result, error) {
	var attempts []Attempt
	for _, p := range c.providers {
		if !p.Configured() {
			continue
		}
		if err := p.Send(ctx, sub); err != nil {
			attempts = append(attempts, Attempt{Provider: p.Name(), Detail: err.Error()})
			continue
		}
		attempts = append(attempts, Attempt{Provider: p.Name(), OK: true})
		return Result{Provider: p.Name(), Attempts: attempts}, nil
	}
	return Result{Attempts: attempts}, fmt.Errorf("%w after %d attempts", ErrUndeliverable, len(attempts))
}
