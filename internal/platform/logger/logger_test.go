package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/scry-feed/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		want  slog.Level
		known bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tc := range tests {
		level, ok := ParseLevel(tc.name)
		assert.Equal(t, tc.want, level, tc.name)
		assert.Equal(t, tc.known, ok, tc.name)
	}
}

// setup replaces the default logger, so these tests are not parallel.
func TestSetup(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	t.Run("writes JSON at configured level", func(t *testing.T) {
		buf := &TestLogBuffer{}
		log := setup(buf, config.ServerConfig{LogLevel: "warn"})

		log.Info("hidden")
		log.Warn("shown", "topic", "photography")

		entries, err := buf.GetLogEntries()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "shown", entries[0]["msg"])
		assert.Equal(t, "WARN", entries[0]["level"])
		assert.Equal(t, "photography", entries[0]["topic"])
		assert.Same(t, log, slog.Default())
	})

	t.Run("invalid level falls back to info with a warning", func(t *testing.T) {
		buf := &TestLogBuffer{}
		log := setup(buf, config.ServerConfig{LogLevel: "chatty"})

		log.Debug("hidden")
		log.Info("shown")

		AssertLogContains(t, buf, "invalid log level configured")
		AssertLogContains(t, buf, `"configured_level":"chatty"`)
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	log, buf := NewTestLogger(t)
	fallback := slog.New(slog.NewJSONHandler(&TestLogBuffer{}, nil))

	ctx := WithLogger(context.Background(), log.With("trace_id", "abc"))
	FromContext(ctx).Info("from context")

	AssertLogContains(t, buf, `"trace_id":"abc"`)
	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	assert.NotNil(t, FromContextOrDefault(context.Background(), nil))
}
