package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/forms"
	"taskboard/internal/service"
)

func init() {
	Register(&AddCmd{name: "add", synopsis: "Create a task"})
	Register(&AddCmd{name: "create", synopsis: "Create a task (alias for add)"})
}

// AddCmd implements the add and create commands.
type AddCmd struct {
	name     string
	synopsis string

	description string
	status      string
	due         string
}

// NewAddCmd creates an add command (for testing).
func NewAddCmd() *AddCmd {
	return &AddCmd{name: "add", synopsis: "Create a task"}
}

// SetFields sets the optional task fields (for testing).
func (c *AddCmd) SetFields(description, status, due string) {
	c.description, c.status, c.due = description, status, due
}

func (c *AddCmd) Name() string          { return c.name }
func (c *AddCmd) Aliases() []string     { return nil }
func (c *AddCmd) Synopsis() string      { return c.synopsis }
func (c *AddCmd) Requires() Requirement { return SessionService }

func (c *AddCmd) Usage() string {
	return "taskboard " + c.name + " [--desc <text>] [--status <status>] [--due <dd/mm/yyyy>] <title...>"
}

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "desc", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.status, "s", "", "")
	fs.StringVar(&c.due, "due", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	form := forms.TaskForm{
		Title:       strings.Join(args, " "),
		Description: c.description,
		Status:      c.status,
		DueDate:     c.due,
	}

	m, release := newManager(ctx, cfg, svc)
	defer release()

	if _, err := m.Create(ctx, form); err != nil {
		return report(errOut, err)
	}

	ok(cfg, out)
	return exitcode.Success
}
