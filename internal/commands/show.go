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
	Register(&ShowCmd{})
}

// ShowCmd implements the show command.
type ShowCmd struct{}

func (c *ShowCmd) Name() string          { return "show" }
func (c *ShowCmd) Aliases() []string     { return nil }
func (c *ShowCmd) Synopsis() string      { return "Show one task" }
func (c *ShowCmd) Usage() string         { return "taskboard show <ref>" }
func (c *ShowCmd) Requires() Requirement { return SessionService }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	_, task, release, err := resolveTask(ctx, cfg, svc, args)
	if err != nil {
		return report(errOut, err)
	}
	defer release()

	output.FormatTaskDetail(out, task)
	return exitcode.Success
}
