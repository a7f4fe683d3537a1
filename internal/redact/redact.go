// Package redact provides utilities for redacting sensitive information from strings
// before they are logged. Provider errors frequently echo request URLs, headers or
// connection strings, so everything derived from an upstream error passes through
// here before it reaches a log record or a call event.
package redact

import (
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// rules are applied in order; earlier rules see the original text.
var rules = []rule{
	// Credentials embedded in connection strings and URLs
	{
		pattern:     regexp.MustCompile(`(?i)(redis|rediss|postgres|postgresql|https?)://[^@\s/]+@`),
		placeholder: RedactedCredentialPlaceholder,
	},
	// JWT tokens: three base64url segments
	{
		pattern:     regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
		placeholder: "[REDACTED_JWT]",
	},
	// Google API keys
	{
		pattern:     regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`),
		placeholder: RedactedKeyPlaceholder,
	},
	// OpenAI and OpenRouter secret keys
	{
		pattern:     regexp.MustCompile(`\bsk-[A-Za-z0-9_\-]{16,}`),
		placeholder: RedactedKeyPlaceholder,
	},
	// Bearer authorization values
	{
		pattern:     regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/=]{8,}`),
		placeholder: "Bearer " + RedactedTokenPlaceholder,
	},
	// key=value parameters carrying secrets
	{
		pattern:     regexp.MustCompile(`(?i)\b(api[_-]?key|key|token|secret|password)=[^&\s"']+`),
		placeholder: RedactedKeyPlaceholder,
	},
	// Email addresses
	{
		pattern:     regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		placeholder: "[REDACTED_EMAIL]",
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
