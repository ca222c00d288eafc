package forms

import (
	"strings"

	"taskboard/internal/service"
)

// TaskForm is the add-task form. Status defaults to todo.
type TaskForm struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"max=2000"`
	Status      string `form:"status" validate:"required,status"`
	DueDate     string `form:"dueDate" validate:"omitempty,duedate"`
}

// Normalize returns the form with strings trimmed and defaults applied.
func (f TaskForm) Normalize() TaskForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Status = strings.TrimSpace(f.Status)
	f.DueDate = strings.TrimSpace(f.DueDate)
	if f.Status == "" {
		f.Status = string(service.StatusTodo)
	}
	return f
}

// Input validates the form and builds the creation payload.
func (f TaskForm) Input() (service.TaskInput, error) {
	f = f.Normalize()
	if err := check(f); err != nil {
		return service.TaskInput{}, err
	}

	status, _ := service.ParseStatus(f.Status)
	in := service.TaskInput{
		Title:       f.Title,
		Description: f.Description,
		Status:      status,
	}
	if f.DueDate != "" {
		due, _ := ParseDueDate(f.DueDate)
		in.DueDate = &due
	}
	return in, nil
}

// EditTaskForm is the edit-task form. Nil fields are left unchanged;
// present fields follow the add-task rules.
type EditTaskForm struct {
	Title       *string `form:"title" validate:"omitnil,min=1,max=200"`
	Description *string `form:"description" validate:"omitnil,max=2000"`
	Status      *string `form:"status" validate:"omitnil,status"`
	DueDate     *string `form:"dueDate" validate:"omitnil,duedate"`
}

// Update validates the form and builds the partial update.
func (f EditTaskForm) Update() (service.TaskUpdate, error) {
	f.Title = trimPtr(f.Title)
	f.Description = trimPtr(f.Description)
	f.Status = trimPtr(f.Status)
	f.DueDate = trimPtr(f.DueDate)

	if f.Title == nil && f.Description == nil && f.Status == nil && f.DueDate == nil {
		return service.TaskUpdate{}, &ValidationError{Fields: []FieldError{{Field: "task", Message: "Nothing to update"}}}
	}
	if err := check(f); err != nil {
		return service.TaskUpdate{}, err
	}

	upd := service.TaskUpdate{Title: f.Title, Description: f.Description}
	if f.Status != nil {
		status, _ := service.ParseStatus(*f.Status)
		upd.Status = &status
	}
	if f.DueDate != nil {
		due, _ := ParseDueDate(*f.DueDate)
		upd.DueDate = &due
	}
	return upd, nil
}
