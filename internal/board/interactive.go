package board

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/service"
)

// Mover is the task controller behind the interactive board.
type Mover interface {
	Tasks() []service.Task
	Move(ctx context.Context, activeID, overID string) (service.Task, bool, error)
}

var (
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const defaultWidth = 96

// movedMsg reports the outcome of a drop.
type movedMsg struct {
	task    service.Task
	changed bool
	err     error
}

// Model is the bubbletea model of the interactive board.
// A card is picked up with space or enter, carried with the arrow keys and
// dropped with space or enter over a card or an empty column.
type Model struct {
	ctx      context.Context
	mover    Mover
	cols     []Column
	col, row int
	heldID   string
	// busy is set while a drop is being saved; cards cannot be picked up
	// or dropped until it completes.
	busy     bool
	width    int
	message  string
	err      error
	quitting bool
}

// NewModel creates a board model over mover's current tasks.
func NewModel(ctx context.Context, mover Mover) Model {
	return Model{
		ctx:   ctx,
		mover: mover,
		cols:  Group(mover.Tasks()),
		width: defaultWidth,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case movedMsg:
		return m.handleMoved(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "esc":
			if m.heldID == "" {
				m.quitting = true
				return m, tea.Quit
			}
			m.heldID = ""
			m.message = "move cancelled"

		case "left", "h":
			if m.col > 0 {
				m.col--
				m.clampRow()
			}

		case "right", "l":
			if m.col < len(m.cols)-1 {
				m.col++
				m.clampRow()
			}

		case "up", "k":
			if m.row > 0 {
				m.row--
			}

		case "down", "j":
			if m.row < len(m.cols[m.col].Tasks)-1 {
				m.row++
			}

		case " ", "enter":
			if m.busy {
				m.message = "saving previous move..."
				return m, nil
			}
			if m.heldID == "" {
				if t, ok := m.current(); ok {
					m.heldID = t.ID
					m.message = fmt.Sprintf("moving %q", t.Title)
				}
				return m, nil
			}
			activeID, overID := m.heldID, m.overID()
			m.heldID = ""
			m.busy = true
			m.message = "saving..."
			return m, m.moveCmd(activeID, overID)
		}
	}

	return m, nil
}

func (m Model) handleMoved(msg movedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		if errors.Is(msg.err, service.ErrSessionExpired) {
			m.err = msg.err
			m.quitting = true
			return m, tea.Quit
		}
		m.message = "error: " + msg.err.Error()
		return m, nil
	}

	m.cols = Group(m.mover.Tasks())
	if msg.changed {
		m.message = fmt.Sprintf("moved %q to %s", msg.task.Title, msg.task.Status.Title())
		m.follow(msg.task.ID)
	} else {
		m.message = "no change"
		m.clampRow()
	}
	return m, nil
}

func (m Model) moveCmd(activeID, overID string) tea.Cmd {
	ctx, mover := m.ctx, m.mover
	return func() tea.Msg {
		task, changed, err := mover.Move(ctx, activeID, overID)
		return movedMsg{task: task, changed: changed, err: err}
	}
}

// overID is the drop target under the cursor: the card, or the column when
// it has no cards.
func (m Model) overID() string {
	if t, ok := m.current(); ok {
		return t.ID
	}
	return string(m.cols[m.col].Status)
}

func (m Model) current() (service.Task, bool) {
	tasks := m.cols[m.col].Tasks
	if m.row < 0 || m.row >= len(tasks) {
		return service.Task{}, false
	}
	return tasks[m.row], true
}

func (m *Model) clampRow() {
	n := len(m.cols[m.col].Tasks)
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

// follow moves the cursor onto the task with id.
func (m *Model) follow(id string) {
	for c, col := range m.cols {
		for r, t := range col.Tasks {
			if t.ID == id {
				m.col, m.row = c, r
				return
			}
		}
	}
	m.clampRow()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(render(m.cols, m.width, highlight{col: m.col, row: m.row, heldID: m.heldID, active: true}))
	s.WriteString("\n\n")
	if m.message != "" {
		if strings.HasPrefix(m.message, "error: ") {
			s.WriteString(errorStyle.Render(m.message))
		} else {
			s.WriteString(m.message)
		}
		s.WriteString("\n")
	}
	s.WriteString(footerStyle.Render("(arrows or h/j/k/l to move, space to pick up or drop, esc to cancel, q to quit)"))
	s.WriteString("\n")
	return s.String()
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error {
	return m.err
}

// Run starts the interactive board and blocks until the user quits.
func Run(ctx context.Context, mover Mover, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(NewModel(ctx, mover), opts...)
	final, err := p.Run()
	if err != nil {
		return err
	}
	return final.(Model).Err()
}
