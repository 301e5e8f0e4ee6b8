package exitcode

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/pittsix/cmsctl/internal/api"
	"github.com/pittsix/cmsctl/internal/errors"
	"github.com/pittsix/cmsctl/internal/resource"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ValidationError indicates a draft failed local validation
	ValidationError = 3

	// NotFound indicates the requested resource does not exist
	NotFound = 4

	// AuthError indicates an authentication or authorization failure
	AuthError = 5

	// NetworkError indicates a network connectivity issue
	NetworkError = 6

	// Interrupted indicates the user cancelled the operation
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

	code := DetermineExitCode(err)
	Exit(code)
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var verrs resource.ValidationErrors
	if stderrors.As(err, &verrs) {
		return ValidationError
	}

	var cmsErr *errors.CMSError
	if stderrors.As(err, &cmsErr) {
		switch {
		case strings.HasPrefix(string(cmsErr.Code), "AUTH-"):
			return AuthError
		case cmsErr.Code == errors.ErrCodeAPINetwork:
			return NetworkError
		case cmsErr.Code == errors.ErrCodeResourceNotFound,
			cmsErr.Code == errors.ErrCodeFileNotFound:
			return NotFound
		case strings.HasPrefix(string(cmsErr.Code), "CFG-"):
			return UsageError
		}
	}

	if apiErr, ok := api.AsError(err); ok {
		switch {
		case apiErr.Kind == api.KindNetwork:
			return NetworkError
		case apiErr.AuthRejected():
			return AuthError
		case apiErr.Status == 404:
			return NotFound
		}
		return GeneralError
	}

	errMsg := strings.ToLower(err.Error())

	// Authentication errors
	if strings.Contains(errMsg, "unauthorized") || strings.Contains(errMsg, "not logged in") {
		return AuthError
	}
	if strings.Contains(errMsg, "token") || strings.Contains(errMsg, "session") {
		return AuthError
	}

	// Network errors
	if strings.Contains(errMsg, "network") || strings.Contains(errMsg, "connection") {
		return NetworkError
	}
	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "unreachable") {
		return NetworkError
	}

	// Not found
	if strings.Contains(errMsg, "not found") {
		return NotFound
	}

	// Usage errors
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "missing argument") {
		return UsageError
	}

	// Default to general error
	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ValidationError:
		return "Validation failed"
	case NotFound:
		return "Resource not found"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
