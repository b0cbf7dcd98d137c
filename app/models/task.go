package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskStatus is both the board column of a task and its state
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

// TaskStatuses lists the board columns in display order
var TaskStatuses = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

// Valid reports whether s is a known status
func (s TaskStatus) Valid() bool {
	return s == TaskStatusTodo || s == TaskStatusInProgress || s == TaskStatusDone
}

// Label returns the column heading
func (s TaskStatus) Label() string {
	switch s {
	case TaskStatusTodo:
		return "To Do"
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusDone:
		return "Done"
	}
	return string(s)
}

// TaskPriority cycles low, medium, high
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is a known priority
func (p TaskPriority) Valid() bool {
	return p == TaskPriorityLow || p == TaskPriorityMedium || p == TaskPriorityHigh
}

// Next returns the following priority, wrapping high back to low.
// Unknown values restart the cycle at low.
func (p TaskPriority) Next() TaskPriority {
	switch p {
	case TaskPriorityLow:
		return TaskPriorityMedium
	case TaskPriorityMedium:
		return TaskPriorityHigh
	default:
		return TaskPriorityLow
	}
}

// Task is a card on the task board. Column membership is derived from Status;
// Position is the global order across all columns.
type Task struct {
	Id          uint           `json:"id" gorm:"primarykey"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Title       string         `json:"title" gorm:"type:varchar(255)"`
	Description string         `json:"description" gorm:"type:text"`
	Category    string         `json:"category" gorm:"type:varchar(100)"`
	Status      TaskStatus     `json:"status" gorm:"type:varchar(20);index"`
	Priority    TaskPriority   `json:"priority" gorm:"type:varchar(10)"`
	DueDate     *time.Time     `json:"due_date"`
	AssigneeId  uint           `json:"assignee_id" gorm:"index"`
	Position    int            `json:"position" gorm:"index"`
	RemindedAt  *time.Time     `json:"-"`
}

// TableName returns the table name for the Task model
func (m *Task) TableName() string {
	return "tasks"
}

// GetId returns the Id of the model
func (m *Task) GetId() uint {
	return m.Id
}

// GetModelName returns the model name
func (m *Task) GetModelName() string {
	return "task"
}

// CreateTaskRequest represents the request payload for creating a Task
type CreateTaskRequest struct {
	Title       string       `json:"title" binding:"required,max=255"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Status      TaskStatus   `json:"status" binding:"omitempty,oneof=todo in-progress done"`
	Priority    TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time   `json:"due_date"`
	AssigneeId  uint         `json:"assignee_id"`
}

// UpdateTaskRequest represents the request payload for updating a Task
type UpdateTaskRequest struct {
	Title       *string       `json:"title,omitempty" binding:"omitempty,max=255"`
	Description *string       `json:"description,omitempty"`
	Category    *string       `json:"category,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty" binding:"omitempty,oneof=todo in-progress done"`
	Priority    *TaskPriority `json:"priority,omitempty" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	AssigneeId  *uint         `json:"assignee_id,omitempty"`
}
