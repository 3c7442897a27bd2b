package service

import (
	"context"

	"go.uber.org/zap"

	"nexuspro/internal/repository"
	"nexuspro/internal/storage"
)

// objectPurger removes stored attachment objects ahead of a cascading row delete.
// Failures are logged; rows are still removed.
type objectPurger struct {
	attachments repository.AttachmentRepository
	store       storage.Storage
	log         *zap.Logger
}

func (p objectPurger) purgeTask(ctx context.Context, taskID string) {
	if p.attachments == nil || p.store == nil {
		return
	}
	items, err := p.attachments.ListByTask(ctx, taskID)
	if err != nil {
		p.log.Warn("attachment_purge_failed", zap.String("task_id", taskID), zap.Error(err))
		return
	}
	for _, a := range items {
		if err := p.store.Delete(ctx, a.StoragePath); err != nil {
			p.log.Warn("attachment_purge_failed",
				zap.String("task_id", taskID),
				zap.String("key", a.StoragePath),
				zap.Error(err),
			)
		}
	}
}
