// Package domainerrors defines the coded error taxonomy shared by services and
// transports. Services return coded errors; the HTTP layer maps codes to status
// codes without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure. Codes are stable API surface: they appear
// in JSON error bodies and drive the HTTP status mapping.
type Code string

const (
	// CodeBadRequest covers malformed or missing client input. Never retried.
	CodeBadRequest Code = "bad_request"

	// CodeUnauthorized covers missing or invalid credentials.
	CodeUnauthorized Code = "unauthorized"

	// CodeNotFound covers operations against a resource that does not exist,
	// including a face comparison with no persisted reference image.
	CodeNotFound Code = "not_found"

	// CodeConflict covers state transitions the current state does not permit.
	CodeConflict Code = "conflict"

	// CodeUnavailable covers upstream collaborator failures (extraction,
	// comparison, stores). Retryable by event redelivery where the trigger
	// supports it.
	CodeUnavailable Code = "unavailable"

	// CodeInternal is the fallback for unexpected failures. Its description is
	// never echoed to clients.
	CodeInternal Code = "internal_error"
)

// Error is a coded error with a human-readable message.
type Error struct {
	Code    Code
	Message string
	wrapped error
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a coded error that preserves the underlying cause for
// errors.Is/As chains and logging.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, wrapped: err}
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.wrapped }

// Is lets errors.Is match two coded errors by code and message, so tests can
// assert against a constructed expectation.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code && t.Message == e.Message
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal for
// uncoded errors.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInternal
}

// HTTPStatus maps a code to its HTTP status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
