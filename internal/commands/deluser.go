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
	Register(&DelUserCmd{})
}

// DelUserCmd implements the deluser command (admin only).
type DelUserCmd struct {
	force bool
}

// SetForce sets the force flag (for testing).
func (c *DelUserCmd) SetForce(force bool) {
	c.force = force
}

func (c *DelUserCmd) Name() string          { return "deluser" }
func (c *DelUserCmd) Aliases() []string     { return []string{"rmuser"} }
func (c *DelUserCmd) Synopsis() string      { return "Delete an account (admin)" }
func (c *DelUserCmd) Usage() string         { return "taskboard deluser [--force] <user>" }
func (c *DelUserCmd) Requires() Requirement { return SessionService }

func (c *DelUserCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
	fs.BoolVar(&c.force, "f", false, "")
}

func (c *DelUserCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: user required")
		return exitcode.UserError
	}

	me, err := requireAdmin(ctx, svc)
	if err != nil {
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
	if user.ID == me.ID {
		fmt.Fprintln(errOut, "error: cannot delete your own account")
		return exitcode.UserError
	}
	if !c.force {
		fmt.Fprintf(errOut, "error: deleting %s <%s> requires --force\n", user.Name, user.Email)
		return exitcode.UserError
	}

	if err := svc.DeleteUser(ctx, user.ID); err != nil {
		return report(errOut, err)
	}

	ok(cfg, out)
	return exitcode.Success
}
