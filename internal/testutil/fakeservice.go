// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taskboard/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu       sync.RWMutex
	tasks    []service.Task
	users    []service.User
	activity []service.ActivityEntry
	me       service.User
	nextID   int
	calls    map[string]int

	// Password accepted by Login. Empty accepts any password.
	Password string

	// SubTasks is returned by BreakdownTask.
	SubTasks []string

	// LastUpdate is the most recent UpdateTask payload.
	LastUpdate service.TaskUpdate

	// LastProfile is the most recent UpdateProfile payload.
	LastProfile service.ProfileInput

	// UpdateTaskDelay holds each UpdateTask call before it is applied.
	UpdateTaskDelay time.Duration

	// Error injection for testing
	RegisterErr       error
	LoginErr          error
	MeErr             error
	UpdateProfileErr  error
	ListTasksErr      error
	CreateTaskErr     error
	UpdateTaskErr     error
	DeleteTaskErr     error
	BreakdownTaskErr  error
	ListUsersErr      error
	UpdateUserRoleErr error
	DeleteUserErr     error
	ListActivityErr   error
}

// NewFakeService creates a FakeService whose current user is a regular user.
func NewFakeService() *FakeService {
	me := service.User{ID: "u1", Name: "Ada Lovelace", Email: "ada@example.com", Role: service.RoleUser}
	return &FakeService{
		me:    me,
		users: []service.User{me},
		calls: make(map[string]int),
	}
}

// SetMe replaces the current user.
func (f *FakeService) SetMe(u service.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.me = u
	for i := range f.users {
		if f.users[i].ID == u.ID {
			f.users[i] = u
			return
		}
	}
	f.users = append(f.users, u)
}

// AddTask appends a task in server order.
func (f *FakeService) AddTask(t service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, t)
}

// AddUser appends a user.
func (f *FakeService) AddUser(u service.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, u)
}

// AddActivity appends an activity entry.
func (f *FakeService) AddActivity(e service.ActivityEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activity = append(f.activity, e)
}

// Tasks returns a snapshot of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Users returns a snapshot of the stored users.
func (f *FakeService) Users() []service.User {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.User, len(f.users))
	copy(out, f.users)
	return out
}

// Calls returns how many times the named method was invoked.
func (f *FakeService) Calls(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (f *FakeService) TotalCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeService) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, in service.RegisterInput) (service.Session, error) {
	f.record("Register")
	if f.RegisterErr != nil {
		return service.Session{}, f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u := service.User{ID: fmt.Sprintf("u%d", len(f.users)+1), Name: in.Name, Email: in.Email, Role: service.RoleUser}
	if in.Avatar != nil {
		u.ProfileImage = "/uploads/" + in.Avatar.Filename
	}
	f.users = append(f.users, u)
	f.me = u
	return service.Session{Token: "token-" + u.ID, User: u}, nil
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, creds service.Credentials) (service.Session, error) {
	f.record("Login")
	if f.LoginErr != nil {
		return service.Session{}, f.LoginErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.Password != "" && creds.Password != f.Password {
		return service.Session{}, service.ErrInvalidCredentials
	}
	for _, u := range f.users {
		if u.Email == creds.Email {
			return service.Session{Token: "token-" + u.ID, User: u}, nil
		}
	}
	return service.Session{}, service.ErrInvalidCredentials
}

// Me implements service.Service.
func (f *FakeService) Me(ctx context.Context) (service.User, error) {
	f.record("Me")
	if f.MeErr != nil {
		return service.User{}, f.MeErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.me, nil
}

// UpdateProfile implements service.Service.
func (f *FakeService) UpdateProfile(ctx context.Context, in service.ProfileInput) (service.User, error) {
	f.record("UpdateProfile")
	if f.UpdateProfileErr != nil {
		return service.User{}, f.UpdateProfileErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastProfile = in
	if in.Name != "" {
		f.me.Name = in.Name
	}
	if in.Email != "" {
		f.me.Email = in.Email
	}
	if in.Avatar != nil {
		f.me.ProfileImage = "/uploads/" + in.Avatar.Filename
	}
	return f.me, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.record("ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	f.record("CreateTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	status := in.Status
	if status == "" {
		status = service.StatusTodo
	}
	t := service.Task{
		ID:          fmt.Sprintf("t%d", f.nextID),
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		DueDate:     in.DueDate,
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, upd service.TaskUpdate) (service.Task, error) {
	f.record("UpdateTask")
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	if f.UpdateTaskDelay > 0 {
		select {
		case <-time.After(f.UpdateTaskDelay):
		case <-ctx.Done():
			return service.Task{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.LastUpdate = upd
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i] = upd.Apply(t)
			return f.tasks[i], nil
		}
	}
	return service.Task{}, service.ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}

// BreakdownTask implements service.Service.
func (f *FakeService) BreakdownTask(ctx context.Context, id string) ([]string, error) {
	f.record("BreakdownTask")
	if f.BreakdownTaskErr != nil {
		return nil, f.BreakdownTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].SubTasks = append([]string(nil), f.SubTasks...)
			return append([]string(nil), f.SubTasks...), nil
		}
	}
	return nil, service.ErrNotFound
}

// ListUsers implements service.Service.
func (f *FakeService) ListUsers(ctx context.Context) ([]service.User, error) {
	f.record("ListUsers")
	if f.ListUsersErr != nil {
		return nil, f.ListUsersErr
	}
	return f.Users(), nil
}

// UpdateUserRole implements service.Service.
func (f *FakeService) UpdateUserRole(ctx context.Context, id string, role service.Role) error {
	f.record("UpdateUserRole")
	if f.UpdateUserRoleErr != nil {
		return f.UpdateUserRoleErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, u := range f.users {
		if u.ID == id {
			f.users[i].Role = role
			return nil
		}
	}
	return service.ErrNotFound
}

// DeleteUser implements service.Service.
func (f *FakeService) DeleteUser(ctx context.Context, id string) error {
	f.record("DeleteUser")
	if f.DeleteUserErr != nil {
		return f.DeleteUserErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}

// ListActivity implements service.Service.
func (f *FakeService) ListActivity(ctx context.Context) ([]service.ActivityEntry, error) {
	f.record("ListActivity")
	if f.ListActivityErr != nil {
		return nil, f.ListActivityErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.ActivityEntry, len(f.activity))
	copy(out, f.activity)
	return out, nil
}
