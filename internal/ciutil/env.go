package ciutil

import (
	"log/slog"
	"os"

	"github.com/phrazzld/scry-feed/internal/redact"
)

// Environment variables read by this package.
const (
	EnvCI            = "CI"
	EnvGitHubActions = "GITHUB_ACTIONS"
	EnvGitLabCI      = "GITLAB_CI"
	EnvJenkinsURL    = "JENKINS_URL"
	EnvCircleCI      = "CIRCLECI"

	// EnvTestRedisURL is the preferred name for the integration test Redis.
	EnvTestRedisURL = "SCRY_TEST_REDIS_URL"

	// EnvRedisURL is accepted as a fallback for EnvTestRedisURL.
	EnvRedisURL = "REDIS_URL"

	// EnvRequireIntegration turns skipped integration tests into failures in CI.
	EnvRequireIntegration = "SCRY_REQUIRE_INTEGRATION"
)

// IsCI reports whether the process runs under a known CI provider.
func IsCI() bool {
	return os.Getenv(EnvCI) != "" ||
		os.Getenv(EnvGitHubActions) != "" ||
		os.Getenv(EnvGitLabCI) != "" ||
		os.Getenv(EnvJenkinsURL) != "" ||
		os.Getenv(EnvCircleCI) != ""
}

// RequireIntegration reports whether integration services are mandatory.
func RequireIntegration() bool {
	return IsCI() && os.Getenv(EnvRequireIntegration) != ""
}

// GetEnvWithFallbacks returns the first non-empty variable among envVars, or
// defaultValue. Using a name other than the first is logged as legacy.
func GetEnvWithFallbacks(envVars []string, defaultValue string, logger *slog.Logger) string {
	for i, envVar := range envVars {
		val := os.Getenv(envVar)
		if val == "" {
			continue
		}
		if i > 0 && logger != nil {
			logger.Warn("using legacy environment variable",
				"used_var", envVar,
				"preferred_var", envVars[0],
				"value", redact.String(val))
		}
		return val
	}
	return defaultValue
}
