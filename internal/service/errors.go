package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is wrapped by errors caused by a 401 response.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when a task is not present in local state.
	ErrNotFound = errors.New("not found")
)

// AuthError reports a failed token exchange: rejected credentials or a
// network failure. The two are deliberately not distinguished.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("login failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// FetchError reports a failed task request.
type FetchError struct {
	// Op names the failed operation, e.g. "create task".
	Op string

	// Status is the HTTP status code, or 0 if no response was received.
	Status int

	// Message is the server-supplied error message, if any.
	Message string

	Err error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status == 0:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// HasResponse reports whether the server answered at all.
func (e *FetchError) HasResponse() bool { return e.Status != 0 }
