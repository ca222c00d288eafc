package commands

import (
	"context"
	"flag"
	"io"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/forms"
	"taskboard/internal/service"
	"taskboard/internal/timeline"
)

func init() {
	Register(&TimelineCmd{now: time.Now})
}

// TimelineCmd implements the timeline command.
type TimelineCmd struct {
	date string
	now  func() time.Time
}

// SetNow overrides the clock (for testing).
func (c *TimelineCmd) SetNow(now func() time.Time) {
	c.now = now
}

func (c *TimelineCmd) Name() string          { return "timeline" }
func (c *TimelineCmd) Aliases() []string     { return []string{"week"} }
func (c *TimelineCmd) Synopsis() string      { return "Show tasks by due date for a week" }
func (c *TimelineCmd) Usage() string         { return "taskboard timeline [--date <dd/mm/yyyy>]" }
func (c *TimelineCmd) Requires() Requirement { return SessionService }

func (c *TimelineCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.date, "date", "", "")
}

func (c *TimelineCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref := time.Now()
	if c.now != nil {
		ref = c.now()
	}
	if c.date != "" {
		d, err := forms.ParseDueDate(c.date)
		if err != nil {
			return report(errOut, usageErrorf("invalid date: %s", c.date))
		}
		ref = d
	}

	m, release, err := loadManager(ctx, cfg, svc)
	if err != nil {
		return report(errOut, err)
	}
	defer release()

	timeline.Render(out, timeline.Build(m.Tasks(), ref))
	return exitcode.Success
}
