// internal/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/vendly/vendpos-be/internal/core/domain"
)

// statusFromError maps domain errors to HTTP status codes. Unrecognized
// errors are treated as internal failures.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEmptyReport):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage returns the error text safe to expose to API clients.
// Internal errors are masked behind a generic message.
func clientMessage(err error) string {
	if statusFromError(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
