package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var _ Provider = &Resend{}

// Resend delivers submissions through the Resend transactional email API.
type Resend struct {
	APIKey     string
	From       string
	To         string
	Endpoint   string
	HTTPClient *http.Client
}

// NewResend creates the Resend provider. It reports unconfigured when the
// API key is absent.
func NewResend(apiKey, from, to string, client *http.Client) *Resend {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Resend{
		APIKey:     apiKey,
		From:       from,
		To:         to,
		Endpoint:   "https://api.resend.com/emails",
		HTTPClient: client,
	}
}

func (r *Resend) Name() string { return "resend" }

func (r *Resend) Configured() bool {
	return strings.TrimSpace(r.APIKey) != ""
}

func (r *Resend) Send(ctx context.Context, sub Submission) error {
	return r.send(ctx, r.To, sub.Subject(), sub.Body(), sub.Email)
}

// SendText delivers a standalone message, used for acknowledgment
// replies.
func (r *Resend) SendText(ctx context.Context, to, subject, text string) error {
	return r.send(ctx, to, subject, text, "")
}

func (r *Resend) send(ctx context.Context, to, subject, text, replyTo string) error {
	payload := map[string]any{
		"from":    r.From,
		"to":      []string{to},
		"subject": subject,
		"text":    text,
	}
	if replyTo != "" {
		payload["reply_to"] = []string{replyTo}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build resend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.APIKey)

	res, err := r.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("resend request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("resend status %d: %s", res.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}
