package forms

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/service"
)

func strPtr(s string) *string { return &s }

func TestTaskForm_Input(t *testing.T) {
	in, err := TaskForm{Title: "  Ship release ", Status: "todo", DueDate: "31/12/2025"}.Input()
	require.NoError(t, err)

	assert.Equal(t, "Ship release", in.Title)
	assert.Equal(t, service.StatusTodo, in.Status)
	require.NotNil(t, in.DueDate)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), *in.DueDate)
}

func TestTaskForm_DefaultsStatus(t *testing.T) {
	in, err := TaskForm{Title: "Write docs"}.Input()
	require.NoError(t, err)
	assert.Equal(t, service.StatusTodo, in.Status)
	assert.Nil(t, in.DueDate)
}

func TestTaskForm_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		form  TaskForm
		field string
	}{
		{"missing title", TaskForm{Title: ""}, "title"},
		{"blank title", TaskForm{Title: "   "}, "title"},
		{"bad status", TaskForm{Title: "x", Status: "blocked"}, "status"},
		{"bad date", TaskForm{Title: "x", DueDate: "2025-12-31"}, "dueDate"},
		{"impossible date", TaskForm{Title: "x", DueDate: "31/02/2025"}, "dueDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.form.Input()
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.True(t, verr.Has(tt.field), "fields: %+v", verr.Fields)
		})
	}
}

func TestTaskForm_MissingTitleMessage(t *testing.T) {
	_, err := TaskForm{}.Input()
	require.Error(t, err)
	assert.Equal(t, "Title is required", err.Error())
}

func TestEditTaskForm_Update(t *testing.T) {
	upd, err := EditTaskForm{Status: strPtr("In Progress"), DueDate: strPtr("01/02/2026")}.Update()
	require.NoError(t, err)

	assert.Nil(t, upd.Title)
	require.NotNil(t, upd.Status)
	assert.Equal(t, service.StatusInProgress, *upd.Status)
	require.NotNil(t, upd.DueDate)
	assert.Equal(t, "01/02/2026", FormatDueDate(*upd.DueDate))
}

func TestEditTaskForm_Rejects(t *testing.T) {
	_, err := EditTaskForm{}.Update()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	_, err = EditTaskForm{Title: strPtr("  ")}.Update()
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("title"))

	_, err = EditTaskForm{Status: strPtr("later")}.Update()
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("status"))
}

func TestRegisterForm(t *testing.T) {
	in, err := RegisterForm{Name: " Ada ", Email: "ada@example.com", Password: "secret1"}.Input()
	require.NoError(t, err)
	assert.Equal(t, "Ada", in.Name)

	_, err = RegisterForm{Name: "A", Email: "not-an-email", Password: "123"}.Input()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("name"))
	assert.True(t, verr.Has("email"))
	assert.True(t, verr.Has("password"))
	assert.Contains(t, err.Error(), "Password must be at least 6 characters")
}

func TestLoginForm(t *testing.T) {
	_, err := LoginForm{Email: "ada@example.com"}.Credentials()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("password"))

	creds, err := LoginForm{Email: " ada@example.com", Password: "pw"}.Credentials()
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", creds.Email)
}

func TestProfileForm(t *testing.T) {
	_, err := ProfileForm{}.Input()
	require.NoError(t, err)

	_, err = ProfileForm{Email: "bad"}.Input()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("email"))
}

func TestDueDateRoundTrip(t *testing.T) {
	for _, s := range []string{"01/01/2000", "29/02/2024", "31/12/2025", "15/06/1999"} {
		d, err := ParseDueDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, FormatDueDate(d))
	}
}

func TestParseDueDate_Strict(t *testing.T) {
	for _, s := range []string{"1/1/2000", "29/02/2023", "32/01/2025", "31-12-2025", ""} {
		_, err := ParseDueDate(s)
		assert.Error(t, err, s)
	}
}
