package model

import "time"

// TaskStatus is a kanban column.
type TaskStatus string

const (
	StatusPending     TaskStatus = "pending"
	StatusOnHold      TaskStatus = "onHold"
	StatusInProgress  TaskStatus = "inProgress"
	StatusUnderReview TaskStatus = "underReview"
	StatusCompleted   TaskStatus = "completed"
)

// TaskStatuses lists the board columns in display order.
var TaskStatuses = []TaskStatus{
	StatusPending,
	StatusOnHold,
	StatusInProgress,
	StatusUnderReview,
	StatusCompleted,
}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	for _, st := range TaskStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Task is a unit of work on a project board.
type Task struct {
	ID          string         `json:"id"`
	ProjectID   string         `json:"project"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Status      TaskStatus     `json:"status"`
	CompletedBy []StatusChange `json:"completedBy,omitempty"`
	Notes       []Note         `json:"notes,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// StatusChange records who moved a task into which column.
type StatusChange struct {
	ID        string      `json:"id"`
	TaskID    string      `json:"-"`
	User      UserSummary `json:"user"`
	Status    TaskStatus  `json:"status"`
	ChangedAt time.Time   `json:"changedAt"`
}
