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
	Register(&BreakdownCmd{})
}

// BreakdownCmd implements the breakdown command.
type BreakdownCmd struct{}

func (c *BreakdownCmd) Name() string          { return "breakdown" }
func (c *BreakdownCmd) Aliases() []string     { return nil }
func (c *BreakdownCmd) Synopsis() string      { return "Split a task into subtasks" }
func (c *BreakdownCmd) Usage() string         { return "taskboard breakdown <ref>" }
func (c *BreakdownCmd) Requires() Requirement { return SessionService }

func (c *BreakdownCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *BreakdownCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	m, task, release, err := resolveTask(ctx, cfg, svc, args)
	if err != nil {
		return report(errOut, err)
	}
	defer release()

	subs, err := m.Breakdown(ctx, task.ID)
	if err != nil {
		return report(errOut, err)
	}

	if len(subs) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no subtasks suggested")
		}
		return exitcode.Success
	}
	for i, s := range subs {
		fmt.Fprintf(out, "%4d  %s\n", i+1, s)
	}
	return exitcode.Success
}
