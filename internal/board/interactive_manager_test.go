package board_test

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/board"
	"taskboard/internal/service"
	"taskboard/internal/tasks"
	"taskboard/internal/testutil"
)

var (
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	left  = tea.KeyMsg{Type: tea.KeyLeft}
	right = tea.KeyMsg{Type: tea.KeyRight}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func statusOf(svc *testutil.FakeService, id string) service.Status {
	for _, t := range svc.Tasks() {
		if t.ID == id {
			return t.Status
		}
	}
	return ""
}

// A drop made while the previous one is still saving is ignored, so the
// manager is only ever changed by one move at a time.
func TestModel_SecondDropWaitsForFirst(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: "a", Title: "Write docs", Status: service.StatusTodo})
	svc.AddTask(service.Task{ID: "b", Title: "Review PR", Status: service.StatusTodo})
	svc.UpdateTaskDelay = 20 * time.Millisecond

	mgr := tasks.NewManager(svc)
	if err := mgr.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	var m tea.Model = board.NewModel(context.Background(), mgr)
	send := func(msg tea.Msg) tea.Cmd {
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		return cmd
	}

	// Carry "Write docs" to the empty In Progress column.
	send(space)
	send(right)
	first := send(space)
	if first == nil {
		t.Fatal("drop returned no command")
	}

	// Try to carry "Review PR" to Done before the first save returns.
	send(left)
	send(down)
	if cmd := send(space); cmd != nil {
		t.Fatal("pick up accepted while a move is saving")
	}
	send(right)
	send(right)
	if cmd := send(space); cmd != nil {
		t.Fatal("drop accepted while a move is saving")
	}

	result := make(chan tea.Msg, 1)
	go func() { result <- first() }()
	for i := 0; i < 5; i++ {
		_ = m.View()
		_ = mgr.Tasks()
		time.Sleep(5 * time.Millisecond)
	}
	send(<-result)

	if got := svc.Calls("UpdateTask"); got != 1 {
		t.Fatalf("UpdateTask calls = %d, want 1", got)
	}
	if got := statusOf(svc, "a"); got != service.StatusInProgress {
		t.Errorf("a status = %s, want in-progress", got)
	}
	if got := statusOf(svc, "b"); got != service.StatusTodo {
		t.Errorf("b status = %s, want todo", got)
	}

	// Once saved, the next card can be moved.
	send(left)
	send(space)
	send(right)
	send(right)
	second := send(space)
	if second == nil {
		t.Fatal("drop after save returned no command")
	}
	send(second())

	if got := statusOf(svc, "b"); got != service.StatusDone {
		t.Errorf("b status = %s, want done", got)
	}
	if got := svc.Calls("UpdateTask"); got != 2 {
		t.Errorf("UpdateTask calls = %d, want 2", got)
	}
	for _, task := range mgr.Tasks() {
		if task.Status != statusOf(svc, task.ID) {
			t.Errorf("local %s status = %s, server has %s", task.ID, task.Status, statusOf(svc, task.ID))
		}
	}
}
