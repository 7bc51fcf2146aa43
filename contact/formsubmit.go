package contact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var _ Provider = &FormSubmit{}

// FormSubmit relays submissions through the formsubmit.co ajax endpoint.
// It needs no credentials, which makes it the keyless fallback at the end
// of the delivery chain.
type FormSubmit struct {
	To         string
	Endpoint   string
	HTTPClient *http.Client
}

// NewFormSubmit creates the FormSubmit provider for the given recipient.
func NewFormSubmit(to string, client *http.Client) *FormSubmit {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &FormSubmit{
		To:         to,
		HTTPClient: client,
	}
}

func (f *FormSubmit) Name() string { return "formsubmit" }

func (f *FormSubmit) Configured() bool {
	return strings.TrimSpace(f.To) != ""
}

func (f *FormSubmit) Send(ctx context.Context, sub Submission) error {
	form := url.Values{}
	form.Set("name", sub.Name)
	form.Set("email", sub.Email)
	form.Set("topic", sub.Topic)
	form.Set("message", sub.Message)
	form.Set("source", sub.Source)
	form.Set("_subject", sub.Subject())
	form.Set("_captcha", "false")

	endpoint := f.Endpoint
	if endpoint == "" {
		endpoint = "https://formsubmit.co/ajax/" + url.PathEscape(f.To)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build formsubmit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := f.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("formsubmit request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("formsubmit status %d: %s", res.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}
