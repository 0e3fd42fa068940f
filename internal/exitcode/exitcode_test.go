package exitcode

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kickabout/kickabout-cli/internal/errors"
)

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, Success},
		{"auth required", errors.NewAuthRequiredError(), AuthError},
		{"incomplete session", errors.NewSessionIncompleteError("userId"), AuthError},
		{"network", errors.NewNetworkFailureError(fmt.Errorf("refused")), NetworkError},
		{"remote rejected", errors.NewRemoteRejectedError("Login failed.", 401), RemoteError},
		{"validation", errors.NewValidationFailedError("email"), ValidationError},
		{"plain error", fmt.Errorf("boom"), GeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineExitCode(tt.err))
		})
	}
}
