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

// Event is the side-channel payload forwarded to the CRM collector.
type Event struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Topic    string `json:"topic"`
	Message  string `json:"message"`
	Source   string `json:"source"`
	Identity string `json:"ip,omitempty"`
}

// Notifier forwards events to a side channel. Callers fire and forget;
// failures are absorbed, never surfaced.
type Notifier interface {
	Notify(ctx context.Context, evt Event) error
}

var _ Notifier = &WebhookNotifier{}

// WebhookNotifier posts events to a CRM webhook. A notifier without a URL
// is a no-op.
type WebhookNotifier struct {
	URL        string
	HTTPClient *http.Client
}

func (n *WebhookNotifier) Notify(ctx context.Context, evt Event) error {
	if strings.TrimSpace(n.URL) == "" {
		return nil
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal crm event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build crm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := n.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("crm request failed: %w", err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 1024))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("crm status %d", res.StatusCode)
	}
	return nil
}
