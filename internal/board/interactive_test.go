package board

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/service"
)

type fakeMover struct {
	tasks []service.Task
	moves [][2]string
	err   error
}

func (f *fakeMover) Tasks() []service.Task {
	return append([]service.Task(nil), f.tasks...)
}

func (f *fakeMover) Move(ctx context.Context, activeID, overID string) (service.Task, bool, error) {
	f.moves = append(f.moves, [2]string{activeID, overID})
	if f.err != nil {
		return service.Task{}, false, f.err
	}
	target, ok := ResolveDrop(f.tasks, overID)
	for i, t := range f.tasks {
		if t.ID != activeID {
			continue
		}
		if !ok || t.Status == target {
			return t, false, nil
		}
		f.tasks[i].Status = target
		return f.tasks[i], true, nil
	}
	return service.Task{}, false, service.ErrNotFound
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to the model and runs any resulting command.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		model, cmd := m.Update(key(k))
		m = model.(Model)
		if cmd == nil {
			continue
		}
		msg := cmd()
		if _, ok := msg.(movedMsg); ok {
			model, _ = m.Update(msg)
			m = model.(Model)
		}
	}
	return m
}

func TestModel_Navigation(t *testing.T) {
	m := NewModel(context.Background(), &fakeMover{tasks: sampleTasks()})

	m = press(t, m, "j")
	if m.row != 1 {
		t.Errorf("row = %d after j, want 1", m.row)
	}
	m = press(t, m, "j")
	if m.row != 1 {
		t.Errorf("row = %d past last card, want 1", m.row)
	}

	// Moving to a shorter column clamps the row.
	m = press(t, m, "l")
	if m.col != 1 || m.row != 0 {
		t.Errorf("cursor = (%d,%d), want (1,0)", m.col, m.row)
	}
	m = press(t, m, "l", "l")
	if m.col != 2 {
		t.Errorf("col = %d, want 2", m.col)
	}
}

func TestModel_DragToColumn(t *testing.T) {
	mover := &fakeMover{tasks: sampleTasks()}
	m := NewModel(context.Background(), mover)

	// Pick up "Write docs", carry it over "Review PR" and drop.
	m = press(t, m, " ")
	if m.heldID != "a" {
		t.Fatalf("heldID = %q, want a", m.heldID)
	}
	m = press(t, m, "l", " ")

	if len(mover.moves) != 1 || mover.moves[0] != [2]string{"a", "b"} {
		t.Fatalf("moves = %v", mover.moves)
	}
	if m.heldID != "" {
		t.Error("card still held after drop")
	}
	if got := len(m.cols[1].Tasks); got != 2 {
		t.Errorf("in-progress column has %d tasks, want 2", got)
	}
	if !strings.Contains(m.message, "In Progress") {
		t.Errorf("message = %q", m.message)
	}
	if cur, _ := m.current(); cur.ID != "a" {
		t.Errorf("cursor on %q, want moved card", cur.ID)
	}
}

func TestModel_DropOnEmptyColumnUsesColumnID(t *testing.T) {
	tasks := []service.Task{{ID: "a", Title: "Solo", Status: service.StatusTodo}}
	mover := &fakeMover{tasks: tasks}
	m := NewModel(context.Background(), mover)

	m = press(t, m, " ", "l", "l", " ")
	if len(mover.moves) != 1 || mover.moves[0] != [2]string{"a", "done"} {
		t.Fatalf("moves = %v", mover.moves)
	}
	if mover.tasks[0].Status != service.StatusDone {
		t.Errorf("status = %s, want done", mover.tasks[0].Status)
	}
}

func TestModel_DropInSameColumnIsNoop(t *testing.T) {
	mover := &fakeMover{tasks: sampleTasks()}
	m := NewModel(context.Background(), mover)

	m = press(t, m, " ", "j", " ")
	if m.message != "no change" {
		t.Errorf("message = %q, want no change", m.message)
	}
}

func TestModel_EscCancelsMove(t *testing.T) {
	mover := &fakeMover{tasks: sampleTasks()}
	m := NewModel(context.Background(), mover)

	m = press(t, m, " ", "esc")
	if m.heldID != "" || m.quitting {
		t.Errorf("heldID = %q quitting = %v", m.heldID, m.quitting)
	}
	if len(mover.moves) != 0 {
		t.Errorf("unexpected moves: %v", mover.moves)
	}
}

func TestModel_SessionExpiredQuits(t *testing.T) {
	mover := &fakeMover{tasks: sampleTasks(), err: service.ErrSessionExpired}
	m := NewModel(context.Background(), mover)

	m = press(t, m, " ", "l", " ")
	if !m.quitting {
		t.Error("expected quit on session expiry")
	}
	if !errors.Is(m.Err(), service.ErrSessionExpired) {
		t.Errorf("Err() = %v", m.Err())
	}
}

func TestModel_OtherErrorsStay(t *testing.T) {
	mover := &fakeMover{tasks: sampleTasks(), err: errors.New("boom")}
	m := NewModel(context.Background(), mover)

	m = press(t, m, " ", "l", " ")
	if m.quitting {
		t.Error("unexpected quit")
	}
	if m.message != "error: boom" {
		t.Errorf("message = %q", m.message)
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel(context.Background(), &fakeMover{tasks: sampleTasks()})
	m = press(t, m, " ")

	view := m.View()
	if !strings.Contains(view, "* Write docs") {
		t.Errorf("held card not marked:\n%s", view)
	}
	if !strings.Contains(view, "q to quit") {
		t.Errorf("footer missing:\n%s", view)
	}

	model, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Error("expected quit command")
	}
	if model.(Model).View() != "" {
		t.Error("view not empty after quit")
	}
}
