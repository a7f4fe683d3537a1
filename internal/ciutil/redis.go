package ciutil

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 3 * time.Second

// RedisURL returns the integration test Redis URL, or "" when none is set.
func RedisURL(logger *slog.Logger) string {
	return GetEnvWithFallbacks([]string{EnvTestRedisURL, EnvRedisURL}, "", logger)
}

// RedisClient connects to the integration test Redis. Without one the test is
// skipped, or failed when integration services are required. The client is
// closed when the test ends.
func RedisClient(t testing.TB) *redis.Client {
	t.Helper()

	url := RedisURL(slog.Default())
	if url == "" {
		if RequireIntegration() {
			t.Fatalf("%s must be set when %s is set in CI", EnvTestRedisURL, EnvRequireIntegration)
		}
		t.Skipf("%s not set", EnvTestRedisURL)
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("invalid %s: %v", EnvTestRedisURL, err)
	}

	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("failed to reach test redis: %v", err)
	}
	return client
}
