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
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string          { return "done" }
func (c *DoneCmd) Aliases() []string     { return nil }
func (c *DoneCmd) Synopsis() string      { return "Mark a task done" }
func (c *DoneCmd) Usage() string         { return "taskboard done <ref>" }
func (c *DoneCmd) Requires() Requirement { return SessionService }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	m, task, release, err := resolveTask(ctx, cfg, svc, args)
	if err != nil {
		return report(errOut, err)
	}
	defer release()

	_, changed, err := m.SetStatus(ctx, task.ID, service.StatusDone)
	if err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		if changed {
			fmt.Fprintln(out, "ok")
		} else {
			fmt.Fprintln(out, "already done")
		}
	}
	return exitcode.Success
}
