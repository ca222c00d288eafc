package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

func init() {
	Register(&RoleCmd{})
}

// RoleCmd implements the role command (admin only).
type RoleCmd struct{}

func (c *RoleCmd) Name() string          { return "role" }
func (c *RoleCmd) Aliases() []string     { return nil }
func (c *RoleCmd) Synopsis() string      { return "Change a user's role (admin)" }
func (c *RoleCmd) Usage() string         { return "taskboard role <user> <user|admin>" }
func (c *RoleCmd) Requires() Requirement { return SessionService }

func (c *RoleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RoleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(errOut, "error: user and role required")
		return exitcode.UserError
	}
	role, err := service.ParseRole(args[1])
	if err != nil {
		return report(errOut, usageErrorf("%v", err))
	}

	if _, err := requireAdmin(ctx, svc); err != nil {
		return report(errOut, err)
	}
	users, err := svc.ListUsers(ctx)
	if err != nil {
		return report(errOut, err)
	}
	user, err := resolveUser(users, args[0])
	if err != nil {
		return report(errOut, err)
	}

	if user.Role == role {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no change")
		}
		return exitcode.Success
	}
	if err := svc.UpdateUserRole(ctx, user.ID, role); err != nil {
		return report(errOut, err)
	}

	ok(cfg, out)
	return exitcode.Success
}
