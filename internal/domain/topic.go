package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxTopicLength is the maximum topic length in runes.
	MaxTopicLength = 200

	// MinCount and MaxCount bound the number of snippets per request.
	MinCount = 1
	MaxCount = 10

	// MaxOptions caps the number of sub-topic options in a result.
	MaxOptions = 4
)

// NormalizeTopic trims and case-folds a topic and collapses inner whitespace.
// The result is used for cache keys, popularity counters and dedup; the
// original text is what gets shown to the user.
func NormalizeTopic(topic string) string {
	return strings.ToLower(collapseSpace(topic))
}

// ValidateTopic checks that the topic is non-empty and within MaxTopicLength.
func ValidateTopic(topic string) error {
	trimmed := strings.TrimSpace(topic)
	if trimmed == "" {
		return NewValidationError("topic", "is required", ErrEmptyTopic)
	}
	if utf8.RuneCountInString(trimmed) > MaxTopicLength {
		return NewValidationError("topic", "exceeds 200 characters", ErrTopicTooLong)
	}
	return nil
}

// Fingerprint returns the identity of a snippet: its trimmed, case-folded,
// whitespace-collapsed text.
func Fingerprint(snippet string) string {
	return strings.ToLower(collapseSpace(snippet))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
