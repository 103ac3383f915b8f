package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
)

// ErrNetwork marks transport-level failures (timeouts, connection errors).
// The cache is never touched when a call fails with it.
var ErrNetwork = errors.New("network error")

// Error is a status-coded error returned by the Wishwell API. Fields carries
// server-provided validation messages keyed by field name, when available.
type Error struct {
	Status  int
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError creates a status-coded API error.
func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// StatusCode extracts the HTTP status from an API error or a status-coded
// httperror. Returns 0 for transport failures and unknown errors.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	if httperror.IsHTTPError(err) {
		return httperror.GetStatusCode(err)
	}
	return 0
}

// IsAuthExpired reports whether the error is a 401 that tore down the session.
func IsAuthExpired(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsNotFound reports whether the resource is absent or inaccessible.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsConflict reports whether the server rejected the call as a conflict, such
// as a duplicate email or an already-reserved item.
func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}

// IsValidation reports whether the error is a client error carrying messages
// meant for the end user. Auth, not-found and conflict cases are excluded.
func IsValidation(err error) bool {
	status := StatusCode(err)
	switch status {
	case http.StatusUnauthorized, http.StatusNotFound, http.StatusConflict:
		return false
	}
	return status >= 400 && status < 500
}

// IsNetwork reports whether the call failed before reaching the server.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsRetryable reports whether a background refetch may retry the error.
// Client errors are never retryable; mutations never retry regardless.
func IsRetryable(err error) bool {
	if IsNetwork(err) {
		return true
	}
	return StatusCode(err) >= 500
}

// ValidationFields returns the server-provided field messages, if any.
func ValidationFields(err error) map[string]string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}
