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
	Register(&MoveCmd{})
}

// MoveCmd implements the move command: a drop of one card onto a column
// or onto another card.
type MoveCmd struct{}

func (c *MoveCmd) Name() string          { return "move" }
func (c *MoveCmd) Aliases() []string     { return []string{"mv"} }
func (c *MoveCmd) Synopsis() string      { return "Move a task to a column or next to another task" }
func (c *MoveCmd) Usage() string         { return "taskboard move <ref> <status|ref>" }
func (c *MoveCmd) Requires() Requirement { return SessionService }

func (c *MoveCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *MoveCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: task reference and target required")
		return exitcode.UserError
	}

	m, task, release, err := resolveTask(ctx, cfg, svc, args[:1])
	if err != nil {
		return report(errOut, err)
	}
	defer release()

	overID, err := dropTarget(m.Tasks(), args[1])
	if err != nil {
		return report(errOut, err)
	}

	moved, changed, err := m.Move(ctx, task.ID, overID)
	if err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		if changed {
			fmt.Fprintf(out, "ok: %s\n", moved.Status)
		} else {
			fmt.Fprintln(out, "no change")
		}
	}
	return exitcode.Success
}

// dropTarget turns a status name or task reference into a drop id.
func dropTarget(tasks []service.Task, arg string) (string, error) {
	if s, err := service.ParseStatus(arg); err == nil {
		return string(s), nil
	}
	ref, err := ParseTaskRef([]string{arg})
	if err != nil {
		return "", err
	}
	target, err := ref.Resolve(tasks)
	if err != nil {
		return "", usageErrorf("invalid target: %s", arg)
	}
	return target.ID, nil
}
