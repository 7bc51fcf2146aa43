// Package config loads the environment-driven service configuration.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every deploy-time knob. An empty RedisAddr selects the
// in-process limiter and cache stores.
type Config struct {
	Addr string `env:"ADDR" envDefault:":8080"`

	RedisAddr string `env:"REDIS_ADDR"`

	// RateStrategy is one of fixed, fixed-redis, sliding, token.
	RateStrategy string        `env:"RATE_STRATEGY" envDefault:"fixed"`
	RateWindow   time.Duration `env:"RATE_WINDOW" envDefault:"10m"`
	RateMax      uint64        `env:"RATE_MAX" envDefault:"5"`

	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"24h"`

	OpenAIKey   string `env:"OPENAI_API_KEY"`
	OpenAIModel string `env:"OPENAI_MODEL" envDefault:"gpt-4.1-mini"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	ContactTo    string `env:"CONTACT_TO_EMAIL"`
	ContactFrom  string `env:"CONTACT_FROM_EMAIL" envDefault:"Sri Lanka Travel <onboarding@resend.dev>"`
	AutoReply    bool   `env:"CONTACT_AUTO_REPLY"`

	CRMWebhookURL string `env:"CRM_WEBHOOK_URL"`

	// ProviderTimeout bounds every outbound provider call so one slow
	// provider cannot hold a request indefinitely.
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"20s"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
