package output

import (
	"bytes"
	"testing"
	"time"

	"taskboard/internal/service"
)

func TestFormatTask(t *testing.T) {
	due := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		num  int
		task service.Task
		want string
	}{
		{"plain", 1, service.Task{Title: "Buy milk", Status: service.StatusTodo}, "   1  todo         Buy milk\n"},
		{"due", 12, service.Task{Title: "Ship release", Status: service.StatusInProgress, DueDate: &due}, "  12  in-progress  Ship release  due 31/12/2025\n"},
		{"untitled", 3, service.Task{Title: "  ", Status: service.StatusDone}, "   3  done         (untitled)\n"},
		{"newline", 4, service.Task{Title: "a\nb", Status: service.StatusTodo}, "   4  todo         a b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatTask(&buf, tt.num, tt.task)
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestFormatUser(t *testing.T) {
	var buf bytes.Buffer
	FormatUser(&buf, 2, service.User{Name: "Ada", Email: "ada@example.com", Role: service.RoleAdmin})
	FormatUser(&buf, 3, service.User{Name: "Bob", Email: "bob@example.com"})

	want := "   2  admin  Ada <ada@example.com>\n   3  user   Bob <bob@example.com>\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestFormatActivity(t *testing.T) {
	at := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	var buf bytes.Buffer
	FormatActivity(&buf, service.ActivityEntry{Action: "login", User: "Ada", CreatedAt: &at})
	FormatActivity(&buf, service.ActivityEntry{Action: "delete_task", Details: "Old\ntask"})

	want := "2025-06-01 10:30  Ada  login\n----------------  -  delete_task  Old task\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestFormatTaskDetail(t *testing.T) {
	due := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	FormatTaskDetail(&buf, service.Task{
		ID:       "t1",
		Title:    "Ship release",
		Status:   service.StatusInProgress,
		DueDate:  &due,
		SubTasks: []string{"tag", "publish"},
	})

	want := "ID:          t1\n" +
		"Title:       Ship release\n" +
		"Status:      In Progress\n" +
		"Due:         31/12/2025\n" +
		"Subtasks:\n" +
		"  - tag\n" +
		"  - publish\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
