// Package exitcode defines exit codes for the CLI and maps errors to them.
package exitcode

import (
	"errors"
	"net/http"

	"taskboard/internal/forms"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, validation, not found).
	UserError = 1

	// AuthError indicates a missing or rejected session, bad credentials or
	// insufficient role.
	AuthError = 2

	// BackendError indicates a server, network or local storage failure.
	BackendError = 3
)

// For returns the exit code for err.
func For(err error) int {
	if err == nil {
		return Success
	}

	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		return UserError
	}

	switch {
	case errors.Is(err, session.ErrNoSession),
		errors.Is(err, service.ErrSessionExpired),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrForbidden):
		return AuthError
	case errors.Is(err, service.ErrNotFound):
		return UserError
	}

	var apiErr *service.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= http.StatusBadRequest && apiErr.Status < http.StatusInternalServerError {
		return UserError
	}
	return BackendError
}
