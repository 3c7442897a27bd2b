package repository

import (
	"context"

	"nexuspro/internal/model"
)

// TaskRepository defines persistence for tasks and their status history.
type TaskRepository interface {
	Create(ctx context.Context, t *model.Task) (*model.Task, error)
	FindByID(ctx context.Context, id string) (*model.Task, error)

	// ListByProject returns the project's tasks, oldest first.
	ListByProject(ctx context.Context, projectID string) ([]model.Task, error)

	// Update persists name and description.
	Update(ctx context.Context, t *model.Task) (*model.Task, error)

	Delete(ctx context.Context, id string) error

	// UpdateStatus sets the task status and appends the history entry in one transaction.
	UpdateStatus(ctx context.Context, change *model.StatusChange) error

	// ListStatusChanges returns the task's history, oldest first, with user summaries.
	ListStatusChanges(ctx context.Context, taskID string) ([]model.StatusChange, error)
}
