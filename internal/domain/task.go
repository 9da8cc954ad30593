// Package domain contains core business entities, ports, and the task
// reconstruction rules shared by every command.
package domain

import (
	"slices"
	"strings"
	"time"
)

// UnassignedName is the assignee recorded for tasks created without a mention.
const UnassignedName = "Unassigned"

// Task is a task reconstructed from chat notifications.
// The JSON shape is the unit persisted to and reloaded from the tasks file.
type Task struct {
	CreatedTime time.Time `json:"created_time" yaml:"created_time"` // Time of the first Created event
	ID          string    `json:"id" yaml:"id"`                     // Task ID taken from the thread name
	Assignee    string    `json:"assignee" yaml:"assignee"`         // Display name of the assignee
	Status      Status    `json:"status" yaml:"status"`             // OPEN or COMPLETED
	Space       string    `json:"space" yaml:"space"`               // Space resource name (spaces/<id>)
}

// IsCompleted returns true if the task ended in the COMPLETED state.
func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// SortTasks returns the tasks of a reconstructed set ordered by ID.
func SortTasks(tasks map[string]Task) []Task {
	result := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, t)
	}
	slices.SortFunc(result, func(a, b Task) int {
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

// SortTasksForOutput orders tasks by space, creation time, then ID.
func SortTasksForOutput(tasks []Task) {
	slices.SortStableFunc(tasks, func(a, b Task) int {
		if c := strings.Compare(a.Space, b.Space); c != 0 {
			return c
		}
		if c := a.CreatedTime.Compare(b.CreatedTime); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
