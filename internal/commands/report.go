package commands

import (
	"errors"
	"fmt"
	"io"

	"taskboard/internal/exitcode"
	"taskboard/internal/forms"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

// errUsage marks argument errors that are reported verbatim.
type errUsage struct{ msg string }

func (e errUsage) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return errUsage{msg: fmt.Sprintf(format, args...)}
}

// report prints err as a single "error: ..." line and returns its exit code.
func report(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %s\n", message(err))

	var uerr errUsage
	if errors.As(err, &uerr) {
		return exitcode.UserError
	}
	return exitcode.For(err)
}

func message(err error) string {
	var (
		uerr   errUsage
		verr   *forms.ValidationError
		apiErr *service.APIError
	)
	switch {
	case errors.As(err, &uerr):
		return uerr.msg
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, session.ErrNoSession):
		return "not logged in (run: taskboard login)"
	case errors.Is(err, service.ErrSessionExpired):
		return "session expired (run: taskboard login)"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, service.ErrForbidden):
		return "access denied"
	case errors.Is(err, service.ErrNotFound):
		return "not found"
	case errors.As(err, &apiErr) && exitcode.For(err) == exitcode.UserError:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return apiErr.Error()
	}
	return fmt.Sprintf("backend error: %v", err)
}
