package restapi

import (
	"context"
	"net/http"

	"taskboard/internal/service"
)

// ListTasks implements service.Service. Tasks are returned in server order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, request{method: http.MethodGet, path: "/tasks"}, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	req, err := jsonRequest(http.MethodPost, "/tasks", in)
	if err != nil {
		return service.Task{}, err
	}

	var task service.Task
	if err := c.do(ctx, req, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id string, upd service.TaskUpdate) (service.Task, error) {
	req, err := jsonRequest(http.MethodPut, taskPath(id), upd)
	if err != nil {
		return service.Task{}, err
	}

	var task service.Task
	if err := c.do(ctx, req, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: taskPath(id)}, nil)
}

// BreakdownTask implements service.Service. It returns the generated
// subtasks.
func (c *Client) BreakdownTask(ctx context.Context, id string) ([]string, error) {
	var resp struct {
		SubTasks []string `json:"subTasks"`
	}
	err := c.do(ctx, request{method: http.MethodPost, path: taskPath(id) + "/breakdown"}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.SubTasks, nil
}
