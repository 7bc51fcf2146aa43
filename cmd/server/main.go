package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lankatrails/tripapi/api"
	"github.com/lankatrails/tripapi/cache"
	"github.com/lankatrails/tripapi/config"
	"github.com/lankatrails/tripapi/contact"
	"github.com/lankatrails/tripapi/itinerary"
	"github.com/lankatrails/tripapi/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	httpClient := &http.Client{Timeout: cfg.ProviderTimeout}

	var client *redis.Client
	if cfg.RedisAddr != "" {
		client = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis ping error: %v", err)
		}
		cancel()
	}

	limiter := buildLimiter(cfg.RateStrategy, client)

	var store cache.Store
	if client != nil {
		store = cache.NewRedisStore(client, cfg.CacheTTL)
	} else {
		store = cache.NewMemoryStore(cfg.CacheTTL, time.Now)
	}

	generator := itinerary.NewOpenAIGenerator(itinerary.OpenAIConfig{
		APIKey:     cfg.OpenAIKey,
		Model:      cfg.OpenAIModel,
		HTTPClient: httpClient,
	})
	itineraries := itinerary.NewService(store, generator, time.Now)

	resend := contact.NewResend(cfg.ResendAPIKey, cfg.ContactFrom, cfg.ContactTo, httpClient)
	formsubmit := contact.NewFormSubmit(cfg.ContactTo, httpClient)
	chain := contact.NewChain(resend, formsubmit)
	notifier := &contact.WebhookNotifier{URL: cfg.CRMWebhookURL, HTTPClient: httpClient}
	contacts := contact.NewService(chain, notifier, resend, cfg.AutoReply)

	srv := api.NewServer(limiter, cfg.RateMax, cfg.RateWindow, contacts, itineraries)

	log.Printf("tripapi listening on %s", cfg.Addr)
	log.Printf("rate: strategy=%s max=%d window=%s", cfg.RateStrategy, cfg.RateMax, cfg.RateWindow)
	log.Printf("cache: redis=%v ttl=%s", client != nil, cfg.CacheTTL)
	log.Printf("delivery: resend=%v formsubmit=%v crm=%v autoReply=%v",
		resend.Configured(), formsubmit.Configured(), cfg.CRMWebhookURL != "", cfg.AutoReply)

	if err := http.ListenAndServe(cfg.Addr, srv.Routes()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func buildLimiter(strategy string, client *redis.Client) ratelimit.Strategy {
	switch strategy {
	case "fixed":
		return ratelimit.NewMemoryFixedWindow(time.Now)
	case "fixed-redis":
		if client == nil {
			log.Fatalf("RATE_STRATEGY=fixed-redis requires REDIS_ADDR")
		}
		return ratelimit.NewRedisFixedWindow(client, time.Now)
	case "sliding":
		if client == nil {
			log.Fatalf("RATE_STRATEGY=sliding requires REDIS_ADDR")
		}
		return ratelimit.NewRedisSlidingWindow(client, time.Now)
	case "token":
		return ratelimit.NewTokenBucket(15 * time.Minute)
	default:
		log.Fatalf("unknown RATE_STRATEGY %q", strategy)
		return nil
	}
}
