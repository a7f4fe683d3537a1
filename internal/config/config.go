package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Auth   AuthConfig   `mapstructure:"auth"`
	LLM    LLMConfig    `mapstructure:"llm" validate:"required"`
	Cache  CacheConfig  `mapstructure:"cache" validate:"required"`
	Dedup  DedupConfig  `mapstructure:"dedup" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// AuthConfig contains authentication settings. Authentication is optional:
// without a secret, viewers are identified by session id only.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`

	// IssueSessions hands anonymous clients a session id. When disabled they
	// are identified by client address instead.
	IssueSessions bool `mapstructure:"issue_sessions"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	// Provider selects the upstream backend.
	Provider string `mapstructure:"provider" validate:"required,oneof=gemini openai openrouter"`

	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required_if=Provider gemini"`
	OpenAIAPIKey string `mapstructure:"openai_api_key" validate:"required_unless=Provider gemini"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`

	// ModelName overrides the provider's default model.
	ModelName string `mapstructure:"model_name"`

	// PromptTemplatePath replaces the built-in prompt template.
	PromptTemplatePath string `mapstructure:"prompt_template_path" validate:"omitempty,file"`

	TimeoutSeconds      int     `mapstructure:"timeout_seconds" validate:"gt=0,lte=120"`
	RateLimitPerSecond  float64 `mapstructure:"rate_limit_per_second" validate:"gte=0"`
	RateLimitBurst      int     `mapstructure:"rate_limit_burst" validate:"gte=0"`
	CircuitMaxFailures  int     `mapstructure:"circuit_max_failures" validate:"gte=0"`
	CircuitResetSeconds int     `mapstructure:"circuit_reset_seconds" validate:"gte=0"`
}

// Timeout returns the per-call provider timeout.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CircuitReset returns how long an open circuit waits before a trial call.
func (c LLMConfig) CircuitReset() time.Duration {
	return time.Duration(c.CircuitResetSeconds) * time.Second
}

// CacheConfig controls the batch cache.
type CacheConfig struct {
	TTLMinutes           int `mapstructure:"ttl_minutes" validate:"gt=0"`
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes" validate:"gt=0"`
	Shards               int `mapstructure:"shards" validate:"gt=0,lte=256"`

	// RedisURL switches the cache and popularity counters to Redis when set.
	RedisURL string `mapstructure:"redis_url" validate:"omitempty,url"`
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// SweepInterval returns how often expired in-memory entries are purged.
func (c CacheConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

// DedupConfig bounds per-viewer seen-content tracking.
type DedupConfig struct {
	// Capacity is the number of fingerprints remembered per viewer.
	Capacity int `mapstructure:"capacity" validate:"gt=0"`

	// MaxViewers is the number of viewers tracked before the least recently
	// active are forgotten.
	MaxViewers int `mapstructure:"max_viewers" validate:"gt=0"`
}
