package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientErrorFormat(t *testing.T) {
	err := New(ErrCodeRemoteRejected, "Login failed.")
	assert.Contains(t, err.Error(), "[API-001]")
	assert.Contains(t, err.Error(), "Login failed.")
}

func TestClientErrorSuggestions(t *testing.T) {
	err := New(ErrCodeAuthRequired, "authentication required").
		WithSuggestion("log in first").
		WithSuggestions("check token", "check clock")

	require.Len(t, err.Suggestions, 3)
	assert.Contains(t, err.Error(), "Suggestions:")
	assert.Contains(t, err.Error(), "log in first")
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeNetworkFailure, "network request failed", cause)

	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.True(t, stderrors.Is(err, cause))
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"client error", NewAuthRequiredError(), ErrCodeAuthRequired},
		{"remote rejected", NewRemoteRejectedError("nope", 422), ErrCodeRemoteRejected},
		{"plain error", fmt.Errorf("boom"), ErrorCode("")},
		{"wrapped cause not inspected", fmt.Errorf("outer: %w", NewAuthRequiredError()), ErrorCode("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestHasCode(t *testing.T) {
	err := NewResolutionFailedError("u1", fmt.Errorf("timeout"))
	assert.True(t, HasCode(err, ErrCodeResolutionFailed))
	assert.False(t, HasCode(err, ErrCodeNetworkFailure))
}

func TestRemoteRejectedKeepsServerMessageVerbatim(t *testing.T) {
	err := NewRemoteRejectedError("Login failed.", 401)
	assert.Equal(t, "Login failed.", err.Message)
}
