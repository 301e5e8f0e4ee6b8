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
	ErrCodeAuthRejected    ErrorCode = "AUTH-001"
	ErrCodeAuthLoginFailed ErrorCode = "AUTH-002"
	ErrCodeAuthNoSession   ErrorCode = "AUTH-003"

	// API errors (API-001 to API-099)
	ErrCodeAPIClient  ErrorCode = "API-001"
	ErrCodeAPIServer  ErrorCode = "API-002"
	ErrCodeAPINetwork ErrorCode = "API-003"
	ErrCodeAPIDecode  ErrorCode = "API-004"

	// Resource errors (RES-001 to RES-099)
	ErrCodeResourceNotFound ErrorCode = "RES-001"
	ErrCodeResourceRejected ErrorCode = "RES-002"

	// Config errors (CFG-001 to CFG-099)
	ErrCodeConfigNotFound ErrorCode = "CFG-001"
	ErrCodeConfigInvalid  ErrorCode = "CFG-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
)

// CMSError represents an enhanced error with code, suggestions, and documentation
type CMSError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *CMSError) Error() string {
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

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *CMSError) Unwrap() error {
	return e.Cause
}

// New creates a new CMSError
func New(code ErrorCode, message string) *CMSError {
	return &CMSError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new CMSError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *CMSError {
	return &CMSError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *CMSError) WithSuggestion(suggestion string) *CMSError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *CMSError) WithSuggestions(suggestions ...string) *CMSError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *CMSError) WithDocs(url string) *CMSError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewAuthRejectedError creates an error for a token the backend refused
func NewAuthRejectedError(cause error) *CMSError {
	return Wrap(ErrCodeAuthRejected, "session token was rejected by the backend", cause).
		WithSuggestion("Run 'cmsctl auth login' to re-authenticate").
		WithSuggestion("Check that your account still exists and is active")
}

// NewAuthLoginFailedError creates a login failure error
func NewAuthLoginFailedError(cause error) *CMSError {
	return Wrap(ErrCodeAuthLoginFailed, "login failed", cause).
		WithSuggestion("Verify the email and password are correct").
		WithSuggestion("Run 'cmsctl auth register' if you do not have an account yet")
}

// NewNoSessionError creates an error for commands that need a session
func NewNoSessionError() *CMSError {
	return New(ErrCodeAuthNoSession, "not logged in").
		WithSuggestion("Run 'cmsctl auth login' to authenticate")
}

// NewResourceNotFoundError creates an error for an id missing from the local cache
func NewResourceNotFoundError(kind, id string) *CMSError {
	return New(ErrCodeResourceNotFound, fmt.Sprintf("%s not found: %s", kind, id)).
		WithSuggestion(fmt.Sprintf("Run 'cmsctl %s list' to refresh the local view", kind)).
		WithSuggestion("The entry may have been removed by another operator")
}

// NewConfigInvalidError creates a config parse error
func NewConfigInvalidError(path string, cause error) *CMSError {
	return Wrap(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration file: %s", path), cause).
		WithSuggestion("Check the YAML syntax of the config file").
		WithSuggestion("Delete the file to fall back to defaults")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *CMSError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}
