package commands

import (
	"context"
	"flag"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/service"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd implements the whoami command.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string          { return "whoami" }
func (c *WhoamiCmd) Aliases() []string     { return []string{"me"} }
func (c *WhoamiCmd) Synopsis() string      { return "Show the signed-in account" }
func (c *WhoamiCmd) Usage() string         { return "taskboard whoami" }
func (c *WhoamiCmd) Requires() Requirement { return SessionService }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	me, err := svc.Me(ctx)
	if err != nil {
		return report(errOut, err)
	}
	refreshSessionUser(cfg, me)

	output.FormatProfile(out, me)
	return exitcode.Success
}
