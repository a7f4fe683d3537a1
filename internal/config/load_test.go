package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv sets environment variables for the duration of the test.
func setupEnv(t *testing.T, envVars map[string]string) {
	t.Helper()
	for name, value := range envVars {
		t.Setenv(name, value)
	}
}

// TestLoadDefaults verifies that Load applies defaults when only the
// required fields are provided.
func TestLoadDefaults(t *testing.T) {
	setupEnv(t, map[string]string{
		"SCRY_LLM_GEMINI_API_KEY": "test-api-key",
		"SCRY_SERVER_PORT":        "",
		"SCRY_SERVER_LOG_LEVEL":   "",
	})

	cfg, err := load(t.TempDir())

	require.NoError(t, err, "Load() should not return an error with default values")
	require.NotNil(t, cfg)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout())
	assert.Equal(t, 30*time.Second, cfg.LLM.CircuitReset())
	assert.Equal(t, time.Hour, cfg.Cache.TTL())
	assert.Equal(t, 10*time.Minute, cfg.Cache.SweepInterval())
	assert.Equal(t, 16, cfg.Cache.Shards)
	assert.Equal(t, 500, cfg.Dedup.Capacity)
	assert.Empty(t, cfg.Cache.RedisURL)
	assert.True(t, cfg.Auth.IssueSessions)
}

// TestLoadFromEnv verifies that environment variables override defaults.
func TestLoadFromEnv(t *testing.T) {
	setupEnv(t, map[string]string{
		"SCRY_SERVER_PORT":              "9090",
		"SCRY_SERVER_LOG_LEVEL":         "debug",
		"SCRY_AUTH_JWT_SECRET":          "thisisasecretkeythatis32charslong!!",
		"SCRY_LLM_PROVIDER":             "openrouter",
		"SCRY_LLM_OPENAI_API_KEY":       "sk-test",
		"SCRY_LLM_GEMINI_API_KEY":       "",
		"SCRY_LLM_BASE_URL":             "https://openrouter.ai/api/v1",
		"SCRY_LLM_TIMEOUT_SECONDS":      "5",
		"SCRY_LLM_RATE_LIMIT_BURST":     "2",
		"SCRY_LLM_CIRCUIT_MAX_FAILURES": "0",
		"SCRY_CACHE_TTL_MINUTES":        "5",
		"SCRY_CACHE_REDIS_URL":          "redis://localhost:6379/0",
		"SCRY_DEDUP_CAPACITY":           "50",
		"SCRY_DEDUP_MAX_VIEWERS":        "100",
	})

	cfg, err := load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "openrouter", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAIAPIKey)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLM.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout())
	assert.Equal(t, 2, cfg.LLM.RateLimitBurst)
	assert.Equal(t, 0, cfg.LLM.CircuitMaxFailures)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL())
	assert.Equal(t, "redis://localhost:6379/0", cfg.Cache.RedisURL)
	assert.Equal(t, 50, cfg.Dedup.Capacity)
	assert.Equal(t, 100, cfg.Dedup.MaxViewers)
}

// TestLoadFromFile verifies that a config.yaml is read and that environment
// variables still take precedence over it.
func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
server:
  port: 7070
  log_level: warn
llm:
  gemini_api_key: file-key
  model_name: gemini-2.0-flash
cache:
  shards: 4
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))
	setupEnv(t, map[string]string{
		"SCRY_SERVER_PORT": "6060",
	})

	cfg, err := load(dir)

	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Server.Port, "env must override the file")
	assert.Equal(t, "warn", cfg.Server.LogLevel)
	assert.Equal(t, "file-key", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.ModelName)
	assert.Equal(t, 4, cfg.Cache.Shards)
}

// TestLoadValidationErrors verifies that invalid settings are rejected.
func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing gemini key",
			env:  map[string]string{"SCRY_LLM_PROVIDER": "gemini"},
		},
		{
			name: "missing openai key",
			env:  map[string]string{"SCRY_LLM_PROVIDER": "openai"},
		},
		{
			name: "unknown provider",
			env: map[string]string{
				"SCRY_LLM_PROVIDER":       "anthropic",
				"SCRY_LLM_GEMINI_API_KEY": "k",
				"SCRY_LLM_OPENAI_API_KEY": "k",
			},
		},
		{
			name: "invalid port",
			env: map[string]string{
				"SCRY_LLM_GEMINI_API_KEY": "k",
				"SCRY_SERVER_PORT":        "70000",
			},
		},
		{
			name: "invalid log level",
			env: map[string]string{
				"SCRY_LLM_GEMINI_API_KEY": "k",
				"SCRY_SERVER_LOG_LEVEL":   "verbose",
			},
		},
		{
			name: "short jwt secret",
			env: map[string]string{
				"SCRY_LLM_GEMINI_API_KEY": "k",
				"SCRY_AUTH_JWT_SECRET":    "short",
			},
		},
		{
			name: "zero cache ttl",
			env: map[string]string{
				"SCRY_LLM_GEMINI_API_KEY": "k",
				"SCRY_CACHE_TTL_MINUTES":  "0",
			},
		},
		{
			name: "invalid redis url",
			env: map[string]string{
				"SCRY_LLM_GEMINI_API_KEY": "k",
				"SCRY_CACHE_REDIS_URL":    "not a url",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setupEnv(t, map[string]string{
				"SCRY_LLM_GEMINI_API_KEY": "",
				"SCRY_LLM_OPENAI_API_KEY": "",
			})
			setupEnv(t, tc.env)

			cfg, err := load(t.TempDir())

			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}
