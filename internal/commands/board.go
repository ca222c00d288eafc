package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

// DefaultBoardWidth is used when --width is not given.
const DefaultBoardWidth = 100

func init() {
	Register(&BoardCmd{width: DefaultBoardWidth})
}

// BoardCmd implements the board command.
type BoardCmd struct {
	interactive bool
	width       int
}

// SetWidth sets the render width (for testing).
func (c *BoardCmd) SetWidth(width int) {
	c.width = width
}

func (c *BoardCmd) Name() string          { return "board" }
func (c *BoardCmd) Aliases() []string     { return nil }
func (c *BoardCmd) Synopsis() string      { return "Show the kanban board" }
func (c *BoardCmd) Usage() string         { return "taskboard board [--interactive] [--width <n>]" }
func (c *BoardCmd) Requires() Requirement { return SessionService }

func (c *BoardCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.interactive, "interactive", false, "")
	fs.BoolVar(&c.interactive, "i", false, "")
	fs.IntVar(&c.width, "width", DefaultBoardWidth, "")
}

func (c *BoardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.width < 1 {
		fmt.Fprintf(errOut, "error: invalid width: %d\n", c.width)
		return exitcode.UserError
	}

	m, release, err := loadManager(ctx, cfg, svc)
	if err != nil {
		return report(errOut, err)
	}
	defer release()

	if c.interactive {
		if err := board.Run(ctx, m); err != nil {
			return report(errOut, err)
		}
		return exitcode.Success
	}

	fmt.Fprintln(out, board.Render(m.Tasks(), c.width))
	return exitcode.Success
}
