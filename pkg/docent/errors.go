package docent

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrNoQuests is returned when a quest query matches nothing.
	ErrNoQuests = errors.New("docent: no quests found")

	// ErrExchangeClosed is returned when the server closes a streaming
	// exchange before sending the completion sentinel.
	ErrExchangeClosed = errors.New("docent: exchange closed before completion")
)

// APIError represents an error response from the backend HTTP API.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error message from the API.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("docent: API error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the resource was not found (HTTP 404).
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsServerError returns true if this is a server-side error (HTTP 5xx).
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// StreamError is an application error reported inside a streaming
// exchange, i.e. a frame carrying an explicit error field.
type StreamError struct {
	Message string
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	return fmt.Sprintf("docent: server error: %s", e.Message)
}
