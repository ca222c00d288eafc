package commands

import (
	"context"
	"flag"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string          { return "rm" }
func (c *RmCmd) Aliases() []string     { return []string{"delete"} }
func (c *RmCmd) Synopsis() string      { return "Delete a task" }
func (c *RmCmd) Usage() string         { return "taskboard rm <ref>" }
func (c *RmCmd) Requires() Requirement { return SessionService }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	m, task, release, err := resolveTask(ctx, cfg, svc, args)
	if err != nil {
		return report(errOut, err)
	}
	defer release()

	if err := m.Delete(ctx, task.ID); err != nil {
		return report(errOut, err)
	}

	ok(cfg, out)
	return exitcode.Success
}
