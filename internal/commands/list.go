package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/cache"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskboard` (no args) and `taskboard list`.
// Numbers are positions in server order and stay stable under --status.
type ListCmd struct {
	status string
	cached bool
}

// SetStatus sets the status filter (for testing).
func (c *ListCmd) SetStatus(status string) {
	c.status = status
}

// SetCached selects the cached listing (for testing).
func (c *ListCmd) SetCached(cached bool) {
	c.cached = cached
}

func (c *ListCmd) Name() string          { return "list" }
func (c *ListCmd) Aliases() []string     { return []string{"ls"} }
func (c *ListCmd) Synopsis() string      { return "List tasks" }
func (c *ListCmd) Usage() string         { return "taskboard list [--status <status>] [--cached]" }
func (c *ListCmd) Requires() Requirement { return SessionService }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.status, "s", "", "")
	fs.BoolVar(&c.cached, "cached", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	var filter service.Status
	if c.status != "" {
		s, err := service.ParseStatus(c.status)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		filter = s
	}

	var list []service.Task
	if c.cached {
		tasks, code := c.loadCached(ctx, cfg, out, errOut)
		if code != exitcode.Success {
			return code
		}
		list = tasks
	} else {
		m, release, err := loadManager(ctx, cfg, svc)
		if err != nil {
			return report(errOut, err)
		}
		defer release()
		list = m.Tasks()
	}

	shown := 0
	for i, task := range list {
		if filter != "" && task.Status != filter {
			continue
		}
		output.FormatTask(out, i+1, task)
		output.FormatSubTasks(out, task.SubTasks)
		shown++
	}

	if shown == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}

func (c *ListCmd) loadCached(ctx context.Context, cfg *config.Config, out, errOut io.Writer) ([]service.Task, int) {
	if !cfg.CacheEnabled {
		fmt.Fprintln(errOut, "error: task cache is disabled")
		return nil, exitcode.UserError
	}

	tc, err := cache.Open(ctx, cfg.CachePath())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, exitcode.BackendError
	}
	defer tc.Close()

	tasks, err := tc.LoadTasks(ctx)
	if errors.Is(err, cache.ErrEmpty) {
		fmt.Fprintln(errOut, "error: task cache is empty (run: taskboard list)")
		return nil, exitcode.UserError
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, exitcode.BackendError
	}

	if !cfg.Quiet {
		if at, err := tc.SyncedAt(ctx); err == nil {
			output.FormatCacheNote(out, at)
		}
	}
	return tasks, exitcode.Success
}
