package models

import (
	"time"

	"github.com/google/uuid"
)

// Task status constants.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// ValidTaskStatuses contains all valid task status values.
var ValidTaskStatuses = []string{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

// IsValidTaskStatus checks if the given task status is valid.
func IsValidTaskStatus(status string) bool {
	for _, s := range ValidTaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Task is a unit of staff work scoped to a project.
type Task struct {
	ID         uuid.UUID  `json:"id"`
	ProjectID  uuid.UUID  `json:"project_id"`
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty"`
	Title      string     `json:"title"`
	Status     string     `json:"status"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TaskUpdates describes the mutable fields of a task. Nil fields are left unchanged.
type TaskUpdates struct {
	Title      *string    `json:"title,omitempty"`
	Status     *string    `json:"status,omitempty"`
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
}
