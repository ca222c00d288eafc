package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/service"
)

func init() {
	Register(&UsersCmd{})
}

// UsersCmd implements the users command (admin only).
type UsersCmd struct{}

func (c *UsersCmd) Name() string          { return "users" }
func (c *UsersCmd) Aliases() []string     { return nil }
func (c *UsersCmd) Synopsis() string      { return "List accounts (admin)" }
func (c *UsersCmd) Usage() string         { return "taskboard users" }
func (c *UsersCmd) Requires() Requirement { return SessionService }

func (c *UsersCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UsersCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if _, err := requireAdmin(ctx, svc); err != nil {
		return report(errOut, err)
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		return report(errOut, err)
	}

	if len(users) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no users found")
		}
		return exitcode.Success
	}
	for i, u := range users {
		output.FormatUser(out, i+1, u)
	}
	return exitcode.Success
}

// resolveUser finds a user by list number, id or email.
func resolveUser(users []service.User, ref string) (service.User, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(users) {
			return service.User{}, usageErrorf("user number out of range: %d", n)
		}
		return users[n-1], nil
	}
	for _, u := range users {
		if u.ID == ref || strings.EqualFold(u.Email, ref) {
			return u, nil
		}
	}
	return service.User{}, usageErrorf("user not found: %s", ref)
}
