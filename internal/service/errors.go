package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the server has no such resource.
	ErrNotFound = errors.New("not found")

	// ErrSessionExpired is returned when an authenticated request is rejected
	// with 401. The stored session has already been cleared.
	ErrSessionExpired = errors.New("session expired")

	// ErrInvalidCredentials is returned when login or registration is rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden is returned for 403 responses and non-admin access to
	// admin operations.
	ErrForbidden = errors.New("access denied")
)

// APIError is a non-2xx response that does not map to a sentinel error.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}
