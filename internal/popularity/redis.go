package popularity

import (
	"context"
	"fmt"

	"github.com/phrazzld/scry-feed/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the sorted set holding topic counts.
const DefaultRedisKey = "scry:popular_topics"

// RedisCounter keeps counts in a Redis sorted set shared by all replicas.
type RedisCounter struct {
	client redis.Cmdable
	key    string
}

// NewRedisCounter creates a RedisCounter. An empty key uses DefaultRedisKey.
func NewRedisCounter(client redis.Cmdable, key string) *RedisCounter {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisCounter{client: client, key: key}
}

// Increment implements Counter.
func (c *RedisCounter) Increment(ctx context.Context, topic string) error {
	member := domain.NormalizeTopic(topic)
	if member == "" {
		return nil
	}
	if err := c.client.ZIncrBy(ctx, c.key, 1, member).Err(); err != nil {
		return fmt.Errorf("redis zincrby: %w", err)
	}
	return nil
}

// Top implements Counter.
func (c *RedisCounter) Top(ctx context.Context, limit int) ([]TopicCount, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	entries, err := c.client.ZRevRangeWithScores(ctx, c.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis zrevrange: %w", err)
	}

	out := make([]TopicCount, 0, len(entries))
	for _, z := range entries {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		out = append(out, TopicCount{Topic: member, Count: int64(z.Score)})
	}
	return out, nil
}
