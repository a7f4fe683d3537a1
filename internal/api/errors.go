package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-feed/internal/domain"
	"github.com/phrazzld/scry-feed/internal/popularity"
)

// MapErrorToStatusCode maps service errors to HTTP status codes. Only request
// validation failures are the client's fault.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrBadRequest),
		errors.Is(err, popularity.ErrInvalidLimit):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return "Invalid " + validationErr.Field + ": " + validationErr.Message
	}

	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return "Invalid request"
	case errors.Is(err, popularity.ErrInvalidLimit):
		return "Invalid limit"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into a message naming the
// failed field without echoing its value.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Validation error"
	}

	fe := fieldErrs[0]
	return "Invalid " + fe.Field() + ": " + validationTagMessage(fe.Tag())
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	default:
		return "validation failed"
	}
}
