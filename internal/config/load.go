package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. SCRY_SERVER_PORT.
const EnvPrefix = "SCRY"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issue_sessions", true)

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.openai_api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model_name", "")
	v.SetDefault("llm.prompt_template_path", "")
	v.SetDefault("llm.timeout_seconds", 15)
	v.SetDefault("llm.rate_limit_per_second", 5.0)
	v.SetDefault("llm.rate_limit_burst", 5)
	v.SetDefault("llm.circuit_max_failures", 5)
	v.SetDefault("llm.circuit_reset_seconds", 30)

	v.SetDefault("cache.ttl_minutes", 60)
	v.SetDefault("cache.sweep_interval_minutes", 10)
	v.SetDefault("cache.shards", 16)
	v.SetDefault("cache.redis_url", "")

	v.SetDefault("dedup.capacity", 500)
	v.SetDefault("dedup.max_viewers", 10000)
}

// Load configuration from environment variables and optionally a config.yaml
// in the working directory. Environment variables take precedence over values
// from the config file. Returns a populated Config struct or an error if
// loading or validation fails.
func Load() (*Config, error) {
	return load(".")
}

func load(configDir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
