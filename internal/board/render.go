package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/forms"
	"taskboard/internal/service"
)

const (
	minColumnWidth = 18
	gutter         = 1
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	selectedCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("12"))

	heldCardStyle = cardStyle.
			BorderForeground(lipgloss.Color("214")).
			Bold(true)

	dueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Padding(0, 1)

	statusColors = map[service.Status]lipgloss.Color{
		service.StatusTodo:       lipgloss.Color("39"),
		service.StatusInProgress: lipgloss.Color("214"),
		service.StatusDone:       lipgloss.Color("42"),
	}
)

// highlight marks the card under the cursor and the card being moved.
type highlight struct {
	col, row int
	heldID   string
	active   bool
}

// Render draws the board as three columns side by side within width
// terminal cells.
func Render(tasks []service.Task, width int) string {
	return render(Group(tasks), width, highlight{})
}

func columnWidth(width int) int {
	w := (width - 2*gutter) / len(service.Statuses)
	if w < minColumnWidth {
		w = minColumnWidth
	}
	return w
}

func render(cols []Column, width int, hl highlight) string {
	colWidth := columnWidth(width)

	blocks := make([]string, 0, 2*len(cols))
	for i, col := range cols {
		if i > 0 {
			blocks = append(blocks, strings.Repeat(" ", gutter))
		}
		blocks = append(blocks, renderColumn(col, i, colWidth, hl))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func renderColumn(col Column, idx, width int, hl highlight) string {
	header := headerStyle.
		Foreground(statusColors[col.Status]).
		Width(width).
		Render(fmt.Sprintf("%s (%d)", col.Status.Title(), len(col.Tasks)))

	parts := []string{header}
	if len(col.Tasks) == 0 {
		marker := ""
		if hl.active && hl.col == idx {
			marker = "> "
		}
		parts = append(parts, emptyStyle.Width(width).Render(marker+"No tasks"))
	}
	for row, t := range col.Tasks {
		selected := hl.active && hl.col == idx && hl.row == row
		parts = append(parts, renderCard(t, width, selected, t.ID == hl.heldID))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderCard(t service.Task, width int, selected, held bool) string {
	style := cardStyle
	switch {
	case held:
		style = heldCardStyle
	case selected:
		style = selectedCardStyle
	}

	title := t.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	switch {
	case held:
		title = "* " + title
	case selected:
		title = "> " + title
	}

	lines := []string{title}
	if t.DueDate != nil {
		lines = append(lines, dueStyle.Render("Due "+forms.FormatDueDate(*t.DueDate)))
	}
	if n := len(t.SubTasks); n > 0 {
		lines = append(lines, dueStyle.Render(fmt.Sprintf("%d subtasks", n)))
	}

	// Width includes padding but not the border.
	return style.Width(width - 2).Render(strings.Join(lines, "\n"))
}
