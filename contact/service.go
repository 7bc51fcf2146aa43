package contact

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// Replier can send a standalone text message, used for acknowledgment
// replies to the submitter.
type Replier interface {
	SendText(ctx context.Context, to, subject, text string) error
}

const (
	ackSubject = "We received your Sri Lanka Travel request"
	ackBody    = "Thank you for contacting Sri Lanka Travel. We received your request and will reply within 24 hours."

	sideChannelTimeout = 10 * time.Second
)

// Service submits inquiries: the CRM notify runs on its own goroutine and
// never gates the outcome, delivery walks the failover chain, and an
// optional acknowledgment follows success.
type Service struct {
	chain     *Chain
	notifier  Notifier
	reply     Replier
	autoReply bool
}

// NewService creates a contact service. notifier and reply may be nil.
func NewService(chain *Chain, notifier Notifier, reply Replier, autoReply bool) *Service {
	return &Service{
		chain:     chain,
		notifier:  notifier,
		reply:     reply,
		autoReply: autoReply,
	}
}

// Submit delivers sub. identity is the caller's rate-limiting identity,
// forwarded to the CRM side channel only.
func (s *Service) Submit(ctx context.Context, sub Submission, identity string) (Result, error) {
	if s.notifier != nil {
		evt := Event{
			ID:       uuid.NewString(),
			Name:     sub.Name,
			Email:    sub.Email,
			Topic:    sub.Topic,
			Message:  sub.Message,
			Source:   sub.Source,
			Identity: identity,
		}
		// Detached from the request context: the side channel must not
		// block the response and may outlive a disconnecting caller.
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), sideChannelTimeout)
			defer cancel()
			if err := s.notifier.Notify(nctx, evt); err != nil {
				log.Printf("crm notify failed: %v", err)
			}
		}()
	}

	res, err := s.chain.Deliver(ctx, sub)
	if err != nil {
		return res, err
	}

	if s.autoReply && s.reply != nil {
		if err := s.reply.SendText(ctx, sub.Email, ackSubject, ackBody); err != nil {
			log.Printf("auto-reply to %s failed: %v", sub.Email, err)
		}
	}

	return res, nil
}
