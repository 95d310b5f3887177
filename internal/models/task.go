package models

import (
	"time"

	"github.com/starford/syndic/internal/apperr"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// TaskStatus is the completion state of a task.
type TaskStatus string

const (
	TaskTodo TaskStatus = "TODO"
	TaskDone TaskStatus = "DONE"
)

// Toggled flips TODO and DONE. Any other value is returned unchanged.
func (s TaskStatus) Toggled() TaskStatus {
	switch s {
	case TaskTodo:
		return TaskDone
	case TaskDone:
		return TaskTodo
	default:
		return s
	}
}

// TaskPriority orders tasks by urgency.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

var (
	taskStatuses   = []any{TaskTodo, TaskDone}
	taskPriorities = []any{PriorityLow, PriorityMedium, PriorityHigh}
)

// Task is a to-do item.
type Task struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Validate checks the fields required to store a task. Empty status and
// priority are accepted; the store fills in TODO and MEDIUM.
func (t Task) Validate() error {
	return apperr.Invalid("task", validation.ValidateStruct(&t,
		validation.Field(&t.Title, notBlank),
		validation.Field(&t.Status, validation.In(taskStatuses...)),
		validation.Field(&t.Priority, validation.In(taskPriorities...)),
	))
}

// TaskPatch carries the task fields to change. ClearDueDate removes the due
// date and takes precedence over DueDate.
type TaskPatch struct {
	Title        *string       `json:"title,omitempty"`
	Description  *string       `json:"description,omitempty"`
	Status       *TaskStatus   `json:"status,omitempty"`
	Priority     *TaskPriority `json:"priority,omitempty"`
	DueDate      *time.Time    `json:"due_date,omitempty"`
	ClearDueDate bool          `json:"clear_due_date,omitempty"`
}

// Validate checks the provided fields.
func (p TaskPatch) Validate() error {
	return apperr.Invalid("task", validation.ValidateStruct(&p,
		validation.Field(&p.Title, notBlankPtr),
		validation.Field(&p.Status, validation.In(taskStatuses...)),
		validation.Field(&p.Priority, validation.In(taskPriorities...)),
	))
}
