package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy for the booking surface. Validation failures never leave
// the process; everything else maps onto transport vs backend failures.

var (
	// ErrNetwork indicates a transport failure or request timeout
	ErrNetwork = errors.New("network error")

	// ErrServer indicates a backend-reported failure
	ErrServer = errors.New("server error")

	// ErrConflict indicates the desired slot was taken before submission completed
	ErrConflict = errors.New("slot no longer available")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")
)

// NetworkError creates a network error with context
func NetworkError(op string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%s: %v: %w", op, cause, ErrNetwork)
	}
	return fmt.Errorf("%s: %w", op, ErrNetwork)
}

// ServerError creates a server error carrying the backend message
func ServerError(op, message string) error {
	if message != "" {
		return fmt.Errorf("%s: %s: %w", op, message, ErrServer)
	}
	return fmt.Errorf("%s: %w", op, ErrServer)
}

// ConflictError creates a conflict error carrying the backend message
func ConflictError(message string) error {
	if message != "" {
		return fmt.Errorf("%s: %w", message, ErrConflict)
	}
	return ErrConflict
}

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsRetryable reports whether a failed upstream call is worth retrying.
// Only transport failures qualify: a backend that answered has made a
// decision, and resending the same request cannot change it.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNetwork)
}

// Message extracts the human-readable portion of a taxonomy error for
// user-visible surfaces. Falls back to the full error text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
