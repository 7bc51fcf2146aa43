package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Store = &redisStore{}

const keyPrefix = "itinerary:"

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store backed by redis, durable across process
// restarts as far as the backing redis is. A zero ttl keeps entries until
// redis evicts them.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *redisStore) Get(ctx context.Context, key string) (*Entry, bool, error) {
	b, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("error reading cache entry %v: %w", key, err)
	}

	var entry Entry
	if err := json.Unmarshal(b, &entry); err != nil {
		// A corrupt entry reads as a miss so the caller regenerates.
		return nil, false, nil
	}
	return &entry, true, nil
}

func (s *redisStore) Put(ctx context.Context, key string, entry *Entry) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("error encoding cache entry %v: %w", key, err)
	}
	if err := s.client.Set(ctx, keyPrefix+key, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("error writing cache entry %v: %w", key, err)
	}
	return nil
}
