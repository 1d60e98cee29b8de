package route

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrNoAPIKey is returned when the directions API key is missing.
	ErrNoAPIKey = errors.New("route: API key required")

	// ErrRouteNotFound is returned when the service has no route between
	// the requested points.
	ErrRouteNotFound = errors.New("route: no route found")
)

// APIError represents an error response from the directions API.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error body returned by the API.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("route: API error %d: %s", e.StatusCode, e.Message)
}

// IsServerError returns true if this is a server-side error (HTTP 5xx).
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}
