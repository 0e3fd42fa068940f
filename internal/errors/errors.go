package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Auth errors (AUTH-001 to AUTH-099)
	ErrCodeAuthRequired      ErrorCode = "AUTH-001"
	ErrCodeSessionIncomplete ErrorCode = "AUTH-002"

	// Network errors (NET-001 to NET-099)
	ErrCodeNetworkFailure ErrorCode = "NET-001"

	// Remote API errors (API-001 to API-099)
	ErrCodeRemoteRejected ErrorCode = "API-001"
	ErrCodeDecodeFailed   ErrorCode = "API-002"

	// Profile resolution errors (PROFILE-001 to PROFILE-099)
	ErrCodeResolutionFailed ErrorCode = "PROFILE-001"

	// Input errors (INPUT-001 to INPUT-099)
	ErrCodeValidationFailed ErrorCode = "INPUT-001"

	// Synchronization errors (SYNC-001 to SYNC-099)
	ErrCodeLoadInFlight ErrorCode = "SYNC-001"

	// Local store errors (IO-001 to IO-099)
	ErrCodeStoreReadFailed  ErrorCode = "IO-001"
	ErrCodeStoreWriteFailed ErrorCode = "IO-002"
)

// ClientError represents an enhanced error with code, suggestions, and a cause
type ClientError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *ClientError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *ClientError) Unwrap() error {
	return e.Cause
}

// New creates a new ClientError
func New(code ErrorCode, message string) *ClientError {
	return &ClientError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new ClientError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *ClientError {
	return &ClientError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *ClientError) WithSuggestion(suggestion string) *ClientError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *ClientError) WithSuggestions(suggestions ...string) *ClientError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// CodeOf returns the error code of err if it is a ClientError, or "" otherwise.
// Wrapped causes are not inspected; the outermost code wins.
func CodeOf(err error) ErrorCode {
	if clientErr, ok := err.(*ClientError); ok {
		return clientErr.Code
	}
	return ""
}

// HasCode reports whether err carries the given code
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// Common error constructors for frequently used errors

// NewAuthRequiredError creates an error for a missing or rejected token
func NewAuthRequiredError() *ClientError {
	return New(ErrCodeAuthRequired, "authentication required").
		WithSuggestion("Run 'kickabout auth login' to authenticate").
		WithSuggestion("Your session may have expired; log in again")
}

// NewSessionIncompleteError creates an error for a partially persisted session
func NewSessionIncompleteError(missing string) *ClientError {
	return New(ErrCodeSessionIncomplete, fmt.Sprintf("stored session is missing %s", missing)).
		WithSuggestion("Run 'kickabout auth logout' then 'kickabout auth login' to repair the session")
}

// NewNetworkFailureError creates a transport-level failure error
func NewNetworkFailureError(cause error) *ClientError {
	return Wrap(ErrCodeNetworkFailure, "network request failed", cause).
		WithSuggestion("Check your internet connection").
		WithSuggestion("Verify the configured API URL")
}

// NewRemoteRejectedError creates an error carrying the server-supplied message verbatim
func NewRemoteRejectedError(message string, status int) *ClientError {
	return New(ErrCodeRemoteRejected, message).
		WithSuggestion(fmt.Sprintf("The server responded with status %d", status))
}

// NewDecodeFailedError creates an error for an unparseable server response
func NewDecodeFailedError(cause error) *ClientError {
	return Wrap(ErrCodeDecodeFailed, "failed to decode server response", cause)
}

// NewResolutionFailedError creates an error for an exhausted profile lookup
func NewResolutionFailedError(userID string, cause error) *ClientError {
	return Wrap(ErrCodeResolutionFailed, fmt.Sprintf("could not resolve username for user %s", userID), cause)
}

// NewValidationFailedError creates a client-side validation error
func NewValidationFailedError(field string) *ClientError {
	return New(ErrCodeValidationFailed, fmt.Sprintf("%s is required", field)).
		WithSuggestion(fmt.Sprintf("Provide a non-empty %s", field))
}

// NewStoreReadError creates a local store read error
func NewStoreReadError(path string, cause error) *ClientError {
	return Wrap(ErrCodeStoreReadFailed, fmt.Sprintf("failed to read %s", path), cause).
		WithSuggestion("Check file permissions in the kickabout state directory")
}

// NewStoreWriteError creates a local store write error
func NewStoreWriteError(path string, cause error) *ClientError {
	return Wrap(ErrCodeStoreWriteFailed, fmt.Sprintf("failed to write %s", path), cause).
		WithSuggestion("Check file permissions in the kickabout state directory")
}
