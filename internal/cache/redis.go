package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces cache keys in a shared Redis.
const DefaultRedisPrefix = "scry:cache:"

// RedisStore keeps entries in Redis as JSON with a native expiry, so every
// replica sharing the Redis instance shares cached batches.
type RedisStore struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

// NewRedisStore creates a store over client. An empty prefix uses
// DefaultRedisPrefix.
func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, false, fmt.Errorf("decoding cache entry: %w", err)
	}
	if entry.Expired(s.now()) {
		return Entry{}, false, nil
	}
	return entry, true, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, entry Entry) error {
	if entry.Key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidEntry)
	}

	ttl := entry.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+entry.Key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
