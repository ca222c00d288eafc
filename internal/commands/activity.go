package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/service"
)

func init() {
	Register(&ActivityCmd{})
}

// ActivityCmd implements the activity command (admin only).
type ActivityCmd struct {
	limit int
}

// SetLimit sets the entry limit (for testing).
func (c *ActivityCmd) SetLimit(limit int) {
	c.limit = limit
}

func (c *ActivityCmd) Name() string          { return "activity" }
func (c *ActivityCmd) Aliases() []string     { return []string{"log"} }
func (c *ActivityCmd) Synopsis() string      { return "Show the activity log (admin)" }
func (c *ActivityCmd) Usage() string         { return "taskboard activity [--limit <n>]" }
func (c *ActivityCmd) Requires() Requirement { return SessionService }

func (c *ActivityCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.limit, "limit", 0, "")
	fs.IntVar(&c.limit, "n", 0, "")
}

func (c *ActivityCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.limit < 0 {
		fmt.Fprintf(errOut, "error: invalid limit: %d\n", c.limit)
		return exitcode.UserError
	}
	if _, err := requireAdmin(ctx, svc); err != nil {
		return report(errOut, err)
	}

	entries, err := svc.ListActivity(ctx)
	if err != nil {
		return report(errOut, err)
	}
	if c.limit > 0 && len(entries) > c.limit {
		entries = entries[:c.limit]
	}

	if len(entries) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no activity")
		}
		return exitcode.Success
	}
	for _, e := range entries {
		output.FormatActivity(out, e)
	}
	return exitcode.Success
}
