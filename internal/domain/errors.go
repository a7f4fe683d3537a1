// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrBadRequest is returned when a generation request fails validation.
	// It is the only error the generation pipeline surfaces to callers.
	ErrBadRequest = errors.New("bad request")

	// ErrEmptyTopic is returned when a topic is empty after trimming.
	ErrEmptyTopic = errors.New("topic cannot be empty")

	// ErrTopicTooLong is returned when a topic exceeds MaxTopicLength runes.
	ErrTopicTooLong = errors.New("topic is too long")

	// ErrInvalidCount is returned when the requested snippet count is out of range.
	ErrInvalidCount = errors.New("count out of range")

	// ErrMissingViewer is returned when a request carries no viewer key.
	ErrMissingViewer = errors.New("viewer key cannot be empty")

	// ErrInvalidCursor is returned when a continuation cursor cannot be decoded.
	ErrInvalidCursor = errors.New("invalid continuation cursor")
)

// ValidationError describes a request field that failed validation.
// It unwraps to both ErrBadRequest and the specific cause so callers can
// match either.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrBadRequest, e.Field, e.Message)
}

// Unwrap returns the bad-request sentinel and the specific cause.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrBadRequest}
	}
	return []error{ErrBadRequest, e.Err}
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}
