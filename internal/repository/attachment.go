package repository

import (
	"context"

	"nexuspro/internal/model"
)

// AttachmentRepository defines data access for task attachment metadata.
// No business logic here — strictly persistence operations.
type AttachmentRepository interface {
	// Create inserts a new attachment record and returns the stored row.
	Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error)

	FindByID(ctx context.Context, id string) (*model.Attachment, error)

	// ListByTask returns the task's attachments, newest first.
	ListByTask(ctx context.Context, taskID string) ([]model.Attachment, error)

	// Delete removes an attachment by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
