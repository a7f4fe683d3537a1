package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package
var (
	// ErrProviderTimeout is returned when the provider does not answer within the timeout
	ErrProviderTimeout = errors.New("provider call timed out")

	// ErrRateLimited is returned when the provider (or the local limiter) throttles the call
	ErrRateLimited = errors.New("provider rate limited")

	// ErrProviderUnavailable is returned for transport failures and non-throttling error statuses
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrInvalidResponse is returned when the provider answers successfully with no usable payload
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrMalformedResponse is returned when the response text holds no well-formed JSON object
	ErrMalformedResponse = errors.New("malformed response from language model")

	// ErrInvalidConfig is returned when a provider configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// StatusError carries the HTTP-style status a backend received. The Adapter
// classifies it; backends should not map statuses themselves.
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Message)
}

// IsFailure reports whether err is one of the provider failure kinds that
// callers recover from with fallback content.
func IsFailure(err error) bool {
	return errors.Is(err, ErrProviderTimeout) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrProviderUnavailable) ||
		errors.Is(err, ErrInvalidResponse) ||
		errors.Is(err, ErrMalformedResponse)
}

// Kind returns a short label for a provider failure, for logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrProviderTimeout):
		return "timeout"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrProviderUnavailable):
		return "unavailable"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	default:
		return "other"
	}
}
