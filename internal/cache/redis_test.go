package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-feed/internal/ciutil"
	"github.com/phrazzld/scry-feed/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	client := ciutil.RedisClient(t)
	ctx := context.Background()
	store := NewRedisStore(client, "scry:test:"+uuid.NewString()+":")

	now := time.Now()
	entry := Entry{
		Key: "feed:v1:abc",
		Batch: domain.Batch{
			Snippets: []string{"one", "two"},
			Options:  []domain.SubTopicOption{{Title: "t", Description: "d"}},
		},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Minute),
	}
	require.NoError(t, store.Set(ctx, entry))

	got, ok, err := store.Get(ctx, entry.Key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry.Batch, got.Batch)

	_, ok, err = store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := client.TTL(ctx, store.prefix+entry.Key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestRedisStore_Unreachable(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client, "")

	_, ok, err := store.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
}
