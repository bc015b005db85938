// internal/core/domain/errors.go
package domain

import "errors"

// Sentinel errors for the error taxonomy. Callers classify failures with
// errors.Is; lower layers wrap these with fmt.Errorf("...: %w", ...).
var (
	// ErrValidation indicates missing or malformed input. Never retried.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock indicates a sale was rejected because the item
	// does not have enough stock. Distinct from validation.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrEmptyReport indicates a report query matched no sales.
	ErrEmptyReport = errors.New("no sales match the requested range")

	// ErrStorageUnavailable indicates an infrastructure failure in the
	// persistence layer, surfaced to callers as a generic failure.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
