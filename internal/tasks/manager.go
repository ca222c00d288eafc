// Package tasks keeps the client-side task collection in sync with the
// server. Every mutation is sent first and applied locally only after the
// server confirms it.
package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"taskboard/internal/board"
	"taskboard/internal/forms"
	"taskboard/internal/service"
)

// Cache persists the confirmed task list between runs.
type Cache interface {
	SaveTasks(ctx context.Context, tasks []service.Task) error
}

// Option configures a Manager.
type Option func(*Manager)

// WithCache writes the collection through to c after every change.
func WithCache(c Cache) Option {
	return func(m *Manager) { m.cache = c }
}

// WithLogger sets the logger used for cache failures.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// Manager holds the task collection in server order. It is safe for
// concurrent use; mutations are applied one at a time.
type Manager struct {
	svc   service.Service
	cache Cache
	log   *slog.Logger

	mu    sync.Mutex
	tasks []service.Task

	// loaded is set once the collection came from the server; only a
	// complete collection is written to the cache.
	loaded bool
}

// NewManager creates an empty manager. Call Load to fetch tasks.
func NewManager(svc service.Service, opts ...Option) *Manager {
	m := &Manager{svc: svc, log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load fetches all tasks and replaces the collection.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tasks, err := m.svc.ListTasks(ctx)
	if err != nil {
		return err
	}
	m.tasks = tasks
	m.loaded = true
	m.persist(ctx)
	return nil
}

// Tasks returns a copy of the collection in server order.
func (m *Manager) Tasks() []service.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]service.Task(nil), m.tasks...)
}

// Get returns the task with id.
func (m *Manager) Get(id string) (service.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(id)
}

func (m *Manager) get(id string) (service.Task, bool) {
	i := m.index(id)
	if i < 0 {
		return service.Task{}, false
	}
	return m.tasks[i], true
}

// Create validates form, creates the task and appends the server's record.
func (m *Manager) Create(ctx context.Context, form forms.TaskForm) (service.Task, error) {
	in, err := form.Input()
	if err != nil {
		return service.Task{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, err := m.svc.CreateTask(ctx, in)
	if err != nil {
		return service.Task{}, err
	}
	m.tasks = append(m.tasks, task)
	m.persist(ctx)
	return task, nil
}

// Update validates form and applies it to the task with id.
func (m *Manager) Update(ctx context.Context, id string, form forms.EditTaskForm) (service.Task, error) {
	upd, err := form.Update()
	if err != nil {
		return service.Task{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.update(ctx, id, upd)
}

// Delete removes the task with id on the server, then locally.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.svc.DeleteTask(ctx, id); err != nil {
		return err
	}
	if i := m.index(id); i >= 0 {
		m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
	}
	m.persist(ctx)
	return nil
}

// SetStatus moves the task with id to status. It reports false, and makes
// no request, when the task already has that status.
func (m *Manager) SetStatus(ctx context.Context, id string, status service.Status) (service.Task, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setStatus(ctx, id, status)
}

func (m *Manager) setStatus(ctx context.Context, id string, status service.Status) (service.Task, bool, error) {
	if !status.Valid() {
		return service.Task{}, false, fmt.Errorf("invalid status: %s", status)
	}
	current, ok := m.get(id)
	if !ok {
		return service.Task{}, false, service.ErrNotFound
	}
	if current.Status == status {
		return current, false, nil
	}

	task, err := m.update(ctx, id, service.TaskUpdate{Status: &status})
	if err != nil {
		return service.Task{}, false, err
	}
	return task, true, nil
}

// Move applies a drop of the task activeID onto overID, which names either
// a column or another task. Drops that resolve to no status, or to the
// task's current status, change nothing.
func (m *Manager) Move(ctx context.Context, activeID, overID string) (service.Task, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.get(activeID)
	if !ok {
		return service.Task{}, false, service.ErrNotFound
	}
	status, ok := board.ResolveDrop(m.tasks, overID)
	if !ok {
		return current, false, nil
	}
	return m.setStatus(ctx, activeID, status)
}

// Breakdown asks the server to split the task into subtasks and stores
// them on the task.
func (m *Manager) Breakdown(ctx context.Context, id string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs, err := m.svc.BreakdownTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if i := m.index(id); i >= 0 {
		m.tasks[i].SubTasks = subs
	}
	m.persist(ctx)
	return subs, nil
}

func (m *Manager) update(ctx context.Context, id string, upd service.TaskUpdate) (service.Task, error) {
	task, err := m.svc.UpdateTask(ctx, id, upd)
	if err != nil {
		return service.Task{}, err
	}
	if i := m.index(id); i >= 0 {
		m.tasks[i] = task
	}
	m.persist(ctx)
	return task, nil
}

func (m *Manager) index(id string) int {
	for i, t := range m.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// persist writes the collection to the cache. Failures are logged only.
func (m *Manager) persist(ctx context.Context) {
	if m.cache == nil || !m.loaded {
		return
	}
	if err := m.cache.SaveTasks(ctx, m.tasks); err != nil {
		m.log.Warn("failed to update task cache", "error", err)
	}
}
