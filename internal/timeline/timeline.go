// Package timeline arranges tasks by due date over a seven-day window.
package timeline

import (
	"fmt"
	"io"
	"time"

	"taskboard/internal/forms"
	"taskboard/internal/service"
)

// HeaderLayout formats a day header, e.g. "Monday, 29.12.2025".
const HeaderLayout = "Monday, 02.01.2006"

// Days is the window length.
const Days = 7

// Day is one calendar day of the window.
type Day struct {
	Date  time.Time
	Tasks []service.Task
}

// Header returns the day heading.
func (d Day) Header() string {
	return d.Date.Format(HeaderLayout)
}

// Week is a seven-day window starting on a Monday.
type Week struct {
	Days []Day

	// Overdue holds unfinished tasks due before the window.
	Overdue []service.Task

	// Unscheduled counts tasks without a due date.
	Unscheduled int

	// Later counts tasks due after the window.
	Later int
}

// Start returns the Monday the window begins on.
func (w Week) Start() time.Time {
	return w.Days[0].Date
}

// WeekStart returns UTC midnight of the Monday on or before ref's calendar
// date.
func WeekStart(ref time.Time) time.Time {
	y, m, d := ref.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Build places tasks into the week containing ref. Order within a day
// follows the input.
func Build(tasks []service.Task, ref time.Time) Week {
	start := WeekStart(ref)
	end := start.AddDate(0, 0, Days)

	w := Week{Days: make([]Day, Days)}
	for i := range w.Days {
		w.Days[i].Date = start.AddDate(0, 0, i)
	}

	for _, t := range tasks {
		if t.DueDate == nil {
			w.Unscheduled++
			continue
		}
		y, m, d := t.DueDate.UTC().Date()
		due := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

		switch {
		case due.Before(start):
			if t.Status != service.StatusDone {
				w.Overdue = append(w.Overdue, t)
			}
		case !due.Before(end):
			w.Later++
		default:
			idx := int(due.Sub(start).Hours() / 24)
			w.Days[idx].Tasks = append(w.Days[idx].Tasks, t)
		}
	}
	return w
}

// Render writes the week as plain text.
func Render(out io.Writer, w Week) {
	for _, d := range w.Days {
		fmt.Fprintln(out, d.Header())
		if len(d.Tasks) == 0 {
			fmt.Fprintln(out, "  -")
		}
		for _, t := range d.Tasks {
			fmt.Fprintf(out, "  [%s] %s\n", statusMark(t.Status), title(t))
		}
	}

	if len(w.Overdue) > 0 {
		fmt.Fprintln(out, "Overdue")
		for _, t := range w.Overdue {
			fmt.Fprintf(out, "  [%s] %s (due %s)\n", statusMark(t.Status), title(t), forms.FormatDueDate(*t.DueDate))
		}
	}

	if w.Unscheduled > 0 || w.Later > 0 {
		fmt.Fprintf(out, "%d unscheduled, %d later\n", w.Unscheduled, w.Later)
	}
}

func statusMark(s service.Status) string {
	switch s {
	case service.StatusInProgress:
		return "~"
	case service.StatusDone:
		return "x"
	default:
		return " "
	}
}

func title(t service.Task) string {
	if t.Title == "" {
		return "(untitled)"
	}
	return t.Title
}
