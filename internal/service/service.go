// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All REST calls go through this interface; commands never build HTTP
// requests directly.
type Service interface {
	// Register creates an account and returns the new session.
	Register(ctx context.Context, in RegisterInput) (Session, error)

	// Login exchanges credentials for a session.
	Login(ctx context.Context, creds Credentials) (Session, error)

	// Me returns the authenticated user.
	Me(ctx context.Context) (User, error)

	// UpdateProfile changes the authenticated user's profile.
	UpdateProfile(ctx context.Context, in ProfileInput) (User, error)

	// ListTasks returns the user's tasks in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns the stored record.
	CreateTask(ctx context.Context, in TaskInput) (Task, error)

	// UpdateTask applies a partial update and returns the stored record.
	UpdateTask(ctx context.Context, id string, upd TaskUpdate) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id string) error

	// BreakdownTask asks the server for generated subtasks.
	BreakdownTask(ctx context.Context, id string) ([]string, error)

	// ListUsers returns every account (admin only).
	ListUsers(ctx context.Context) ([]User, error)

	// UpdateUserRole changes a user's role (admin only).
	UpdateUserRole(ctx context.Context, id string, role Role) error

	// DeleteUser deletes an account (admin only).
	DeleteUser(ctx context.Context, id string) error

	// ListActivity returns the activity log (admin only).
	ListActivity(ctx context.Context) ([]ActivityEntry, error)
}
