// Package board groups tasks into the three status columns and resolves
// drag-and-drop targets.
package board

import "taskboard/internal/service"

// Column is one status lane with its tasks in server order.
type Column struct {
	Status service.Status
	Tasks  []service.Task
}

// Columns returns the fixed statuses in board order.
func Columns() []service.Status {
	return append([]service.Status(nil), service.Statuses...)
}

// Group buckets tasks by status. Order within a column follows the input.
// Tasks with an unknown status are not placed.
func Group(tasks []service.Task) []Column {
	cols := make([]Column, len(service.Statuses))
	for i, s := range service.Statuses {
		cols[i].Status = s
	}
	for _, t := range tasks {
		for i := range cols {
			if cols[i].Status == t.Status {
				cols[i].Tasks = append(cols[i].Tasks, t)
				break
			}
		}
	}
	return cols
}

// ResolveDrop returns the status a card dropped on overID should take.
// overID may name a column (its wire status) or a task, in which case the
// task's status is used. ok is false when overID names neither.
func ResolveDrop(tasks []service.Task, overID string) (status service.Status, ok bool) {
	if overID == "" {
		return "", false
	}
	for _, s := range service.Statuses {
		if string(s) == overID {
			return s, true
		}
	}
	for _, t := range tasks {
		if t.ID == overID {
			return t.Status, true
		}
	}
	return "", false
}
