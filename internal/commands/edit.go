package commands

import (
	"context"
	"flag"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/forms"
	"taskboard/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Only flags that are given change.
type EditCmd struct {
	title       optString
	description optString
	status      optString
	due         optString
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(title string) { _ = c.title.Set(title) }

// SetStatus sets the new status (for testing).
func (c *EditCmd) SetStatus(status string) { _ = c.status.Set(status) }

// SetDue sets the new due date (for testing).
func (c *EditCmd) SetDue(due string) { _ = c.due.Set(due) }

func (c *EditCmd) Name() string          { return "edit" }
func (c *EditCmd) Aliases() []string     { return nil }
func (c *EditCmd) Synopsis() string      { return "Edit a task" }
func (c *EditCmd) Requires() Requirement { return SessionService }

func (c *EditCmd) Usage() string {
	return "taskboard edit [--title <text>] [--desc <text>] [--status <status>] [--due <dd/mm/yyyy>] <ref>"
}

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.description, "desc", "")
	fs.Var(&c.description, "d", "")
	fs.Var(&c.status, "status", "")
	fs.Var(&c.status, "s", "")
	fs.Var(&c.due, "due", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	form := forms.EditTaskForm{
		Title:       c.title.ptr(),
		Description: c.description.ptr(),
		Status:      c.status.ptr(),
		DueDate:     c.due.ptr(),
	}
	// Validate before any request.
	if _, err := form.Update(); err != nil {
		return report(errOut, err)
	}

	m, task, release, err := resolveTask(ctx, cfg, svc, args)
	if err != nil {
		return report(errOut, err)
	}
	defer release()

	if _, err := m.Update(ctx, task.ID, form); err != nil {
		return report(errOut, err)
	}

	ok(cfg, out)
	return exitcode.Success
}
