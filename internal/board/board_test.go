package board

import (
	"strings"
	"testing"
	"time"

	"taskboard/internal/service"
)

func sampleTasks() []service.Task {
	due := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	return []service.Task{
		{ID: "a", Title: "Write docs", Status: service.StatusTodo},
		{ID: "b", Title: "Review PR", Status: service.StatusInProgress, DueDate: &due},
		{ID: "c", Title: "Plan sprint", Status: service.StatusTodo},
		{ID: "d", Title: "Deploy", Status: service.StatusDone},
	}
}

func TestColumns(t *testing.T) {
	cols := Columns()
	want := []service.Status{service.StatusTodo, service.StatusInProgress, service.StatusDone}
	if len(cols) != len(want) {
		t.Fatalf("got %d columns, want %d", len(cols), len(want))
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("column %d = %s, want %s", i, cols[i], want[i])
		}
	}

	// Callers cannot reorder the shared status list.
	cols[0] = service.StatusDone
	if service.Statuses[0] != service.StatusTodo {
		t.Error("Columns returned the shared slice")
	}
}

func TestGroup(t *testing.T) {
	cols := Group(sampleTasks())

	ids := func(c Column) string {
		var s []string
		for _, t := range c.Tasks {
			s = append(s, t.ID)
		}
		return strings.Join(s, ",")
	}

	tests := []struct {
		status service.Status
		want   string
	}{
		{service.StatusTodo, "a,c"},
		{service.StatusInProgress, "b"},
		{service.StatusDone, "d"},
	}
	for i, tt := range tests {
		if cols[i].Status != tt.status {
			t.Errorf("column %d status = %s, want %s", i, cols[i].Status, tt.status)
		}
		if got := ids(cols[i]); got != tt.want {
			t.Errorf("column %s = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestGroup_Empty(t *testing.T) {
	cols := Group(nil)
	if len(cols) != 3 {
		t.Fatalf("got %d columns, want 3", len(cols))
	}
	for _, c := range cols {
		if len(c.Tasks) != 0 {
			t.Errorf("column %s not empty", c.Status)
		}
	}
}

func TestResolveDrop(t *testing.T) {
	tasks := sampleTasks()

	tests := []struct {
		name   string
		overID string
		want   service.Status
		ok     bool
	}{
		{"column todo", "todo", service.StatusTodo, true},
		{"column in-progress", "in-progress", service.StatusInProgress, true},
		{"column done", "done", service.StatusDone, true},
		{"card in progress", "b", service.StatusInProgress, true},
		{"card done", "d", service.StatusDone, true},
		{"unknown", "zzz", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveDrop(tasks, tt.overID)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ResolveDrop(%q) = %q, %v; want %q, %v", tt.overID, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRender(t *testing.T) {
	out := Render(sampleTasks(), 120)

	for _, want := range []string{"Todo (2)", "In Progress (1)", "Done (1)", "Write docs", "Review PR", "Due 31/12/2025", "Deploy"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}

	// Columns are side by side: all three headers share the first line.
	first := strings.SplitN(out, "\n", 2)[0]
	if !strings.Contains(first, "Todo") || !strings.Contains(first, "Done") {
		t.Errorf("headers not on one line: %q", first)
	}
}

func TestRender_EmptyColumn(t *testing.T) {
	out := Render([]service.Task{{ID: "a", Title: "Only", Status: service.StatusTodo}}, 90)
	if !strings.Contains(out, "No tasks") {
		t.Errorf("expected empty column placeholder:\n%s", out)
	}
}
