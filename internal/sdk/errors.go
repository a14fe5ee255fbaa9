package sdk

import (
	"errors"
	"fmt"
)

// Common SDK errors
var (
	// ErrNotConfigured indicates the client was constructed without a
	// base URL; callers should treat the integration as disabled.
	ErrNotConfigured = errors.New("sdk client is not configured")

	// ErrResourceNotFound indicates the requested resource does not
	// exist on the remote API.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrValidation indicates the request was rejected by the remote
	// API (or locally) as invalid.
	ErrValidation = errors.New("invalid request")
)

// APIError carries the status code and message of a non-2xx response
// from the remote API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}
