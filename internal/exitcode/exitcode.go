package exitcode

import (
	"os"

	"github.com/kickabout/kickabout-cli/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ValidationError indicates client-side input validation failed
	ValidationError = 3

	// AuthError indicates an authentication failure
	AuthError = 5

	// NetworkError indicates a network connectivity issue
	NetworkError = 6

	// RemoteError indicates the server rejected the request
	RemoteError = 7

	// Interrupted indicates the operation was cancelled by the user
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	switch errors.CodeOf(err) {
	case errors.ErrCodeAuthRequired, errors.ErrCodeSessionIncomplete:
		return AuthError
	case errors.ErrCodeNetworkFailure:
		return NetworkError
	case errors.ErrCodeRemoteRejected:
		return RemoteError
	case errors.ErrCodeValidationFailed:
		return ValidationError
	default:
		return GeneralError
	}
}
