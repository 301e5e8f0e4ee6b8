package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed call by what the transport observed.
type Kind int

const (
	// KindClientError is any 4xx response.
	KindClientError Kind = iota
	// KindServerError is any 5xx response.
	KindServerError
	// KindNetwork means no response was received at all.
	KindNetwork
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindClientError:
		return "client_error"
	case KindServerError:
		return "server_error"
	default:
		return "network"
	}
}

// Error is a classified API failure. Status is zero for KindNetwork.
// Body holds the backend's error text, which may be empty.
type Error struct {
	Kind   Kind
	Status int
	Body   string

	cause error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case KindNetwork:
		if e.cause != nil {
			return fmt.Sprintf("network failure: %v", e.cause)
		}
		return "network failure"
	default:
		if e.Body != "" {
			return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Body)
		}
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
}

// Unwrap exposes the transport cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Message returns display-ready text: the backend's body verbatim when
// present, else a generic message per kind.
func (e *Error) Message() string {
	if e.Body != "" {
		return e.Body
	}
	switch e.Kind {
	case KindNetwork:
		return "could not reach the server"
	case KindServerError:
		return "the server encountered an error"
	default:
		return "the request was rejected"
	}
}

// AuthRejected reports whether the failure was a 401 or 403.
func (e *Error) AuthRejected() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// errorBody is the JSON shape some backend handlers use for failures.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// classify builds an *Error from a non-2xx response. Error bodies may
// be a JSON object or an opaque string; either way the text is kept
// verbatim for display.
func classify(status int, body []byte) *Error {
	kind := KindClientError
	if status >= 500 {
		kind = KindServerError
	}

	text := strings.TrimSpace(string(body))
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Error != "" {
			text = eb.Error
		} else if eb.Message != "" {
			text = eb.Message
		}
	}

	return &Error{Kind: kind, Status: status, Body: text}
}

// AsError returns err as an *Error, unwrapping as needed.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuthRejected reports whether err is a classified 401/403.
func IsAuthRejected(err error) bool {
	if apiErr, ok := AsError(err); ok {
		return apiErr.AuthRejected()
	}
	return false
}

// IsNetwork reports whether err is a classified transport failure.
func IsNetwork(err error) bool {
	if apiErr, ok := AsError(err); ok {
		return apiErr.Kind == KindNetwork
	}
	return false
}
