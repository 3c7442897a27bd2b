package repository

import (
	"context"

	"nexuspro/internal/model"
)

// NoteRepository defines persistence for task notes.
type NoteRepository interface {
	Create(ctx context.Context, n *model.Note) (*model.Note, error)
	FindByID(ctx context.Context, id string) (*model.Note, error)

	// ListByTask returns the task's notes, oldest first, with author summaries.
	ListByTask(ctx context.Context, taskID string) ([]model.Note, error)

	Delete(ctx context.Context, id string) error
}
