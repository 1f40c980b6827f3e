package domain

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrNoSession          = errors.New("authentication required")
	ErrSessionExpired     = errors.New("session expired, please login again")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access forbidden")
	ErrRecordNotFound     = errors.New("record not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrUnknownTransition  = errors.New("unknown transition")
	ErrUnknownStatus      = errors.New("unknown status")
	ErrBackendUnavailable = errors.New("service temporarily unavailable, please try again later")
	ErrMalformedResponse  = errors.New("unexpected response from server")
)

// ValidationError is raised before any request leaves the process.
type ValidationError struct {
	Problems []string
}

func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return "invalid input"
	}
	return strings.Join(e.Problems, "; ")
}

// RequestError is a non-2xx answer from the backend.
type RequestError struct {
	Op      string
	Status  int
	Message string
}

func (e *RequestError) Error() string { return e.Message }

// Is lets callers test a 401 answer with errors.Is(err, ErrUnauthorized).
func (e *RequestError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// DefaultRequestMessage is used when the backend body carries no message.
func DefaultRequestMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Invalid request format"
	case http.StatusUnauthorized:
		return "Invalid email or password"
	case http.StatusForbidden:
		return "Account not authorized. Please contact support."
	case http.StatusNotFound:
		return "Account not found"
	case http.StatusInternalServerError:
		return "Server error. Please try again later."
	default:
		return "Request failed"
	}
}

// NetworkError means no response was received.
type NetworkError struct {
	Op      string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return "Request timeout. Please check your connection."
	}
	return "Network error. Please check your internet connection."
}

func (e *NetworkError) Unwrap() error { return e.Err }

// SessionError reports a missing or rejected session for a role. The HTTP
// layer turns it into a redirect to the role's login route.
type SessionError struct {
	Role Role
	Err  error
}

func (e *SessionError) Error() string { return e.Err.Error() }

func (e *SessionError) Unwrap() error { return e.Err }
