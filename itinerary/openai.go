package itinerary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrProviderBusy reports a provider-side rate limit or quota exhaustion,
// distinct from other upstream failures so callers can relay retry
// semantics instead of a generic error.
var ErrProviderBusy = errors.New("generation provider rate limited")

// Generator produces an itinerary plan for a normalized request. The call
// is slow, costly and rate-limited upstream; callers must consult the
// cache first.
type Generator interface {
	Generate(ctx context.Context, req TripRequest) (*Plan, error)
}

// OpenAIConfig configures the responses-endpoint generator.
type OpenAIConfig struct {
	APIKey          string
	Model           string
	ResponsesURL    string
	Temperature     float64
	MaxOutputTokens int
	HTTPClient      *http.Client
}

var _ Generator = &openAIGenerator{}

type openAIGenerator struct {
	cfg OpenAIConfig
}

// NewOpenAIGenerator builds a Generator backed by the OpenAI responses
// API.
func NewOpenAIGenerator(cfg OpenAIConfig) Generator {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if strings.TrimSpace(cfg.ResponsesURL) == "" {
		cfg.ResponsesURL = "https://api.openai.com/v1/responses"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gpt-4.1-mini"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.4
	}
	if cfg.MaxOutputTokens == 0 {
		// The token cap is what actually keeps plans short.
		cfg.MaxOutputTokens = 240
	}
	return &openAIGenerator{cfg: cfg}
}

func (g *openAIGenerator) Generate(ctx context.Context, req TripRequest) (*Plan, error) {
	if strings.TrimSpace(g.cfg.APIKey) == "" {
		return nil, errors.New("generation provider is not configured")
	}

	body, err := json.Marshal(map[string]any{
		"model":             g.cfg.Model,
		"input":             buildPrompt(req),
		"temperature":       g.cfg.Temperature,
		"max_output_tokens": g.cfg.MaxOutputTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.ResponsesURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	// Credential material goes only into the Authorization header and is
	// never echoed in errors.
	httpReq.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	res, err := g.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return nil, ErrProviderBusy
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("generation request status %d: %s", res.StatusCode, strings.TrimSpace(string(detail)))
	}

	var payload struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode generation response: %w", err)
	}

	text := payload.OutputText
	if text == "" {
		var sb strings.Builder
		for _, out := range payload.Output {
			for _, c := range out.Content {
				if c.Type == "output_text" {
					sb.WriteString(c.Text)
				}
			}
		}
		text = sb.String()
	}

	return ParsePlan(text)
}
