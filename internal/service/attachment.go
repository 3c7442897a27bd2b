package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nexuspro/internal/model"
	"nexuspro/internal/repository"
	"nexuspro/internal/storage"
)

// UploadInput describes a file streamed from the client.
type UploadInput struct {
	Reader           io.Reader
	OriginalFilename string
	ContentType      string
	Size             int64
}

// AttachmentService defines the use cases for files attached to tasks.
type AttachmentService interface {
	// Upload stores the content, then saves its metadata. If the metadata save
	// fails the stored object is removed again.
	Upload(ctx context.Context, t *model.Task, uploaderID string, in UploadInput) (*model.Attachment, error)

	List(ctx context.Context, taskID string) ([]model.Attachment, error)

	// Get returns the attachment if it belongs to t.
	Get(ctx context.Context, t *model.Task, id string) (*model.Attachment, error)

	// DownloadURL returns a pre-signed URL for the attachment's object.
	DownloadURL(ctx context.Context, a *model.Attachment) (string, error)

	// Open streams the attachment's object. The caller closes the reader.
	Open(ctx context.Context, a *model.Attachment) (io.ReadCloser, storage.ObjectInfo, error)

	// Delete removes the object, then its record. Allowed for the manager or the uploader.
	Delete(ctx context.Context, p *model.Project, t *model.Task, actorID, id string) error
}

type attachmentService struct {
	store         storage.Storage
	repo          repository.AttachmentRepository
	presignExpiry time.Duration
	pub           EventPublisher
	log           *zap.Logger
	now           func() time.Time
}

// NewAttachmentService constructs the AttachmentService.
func NewAttachmentService(
	store storage.Storage,
	repo repository.AttachmentRepository,
	presignExpiry time.Duration,
	pub EventPublisher,
	log *zap.Logger,
) AttachmentService {
	return &attachmentService{
		store:         store,
		repo:          repo,
		presignExpiry: presignExpiry,
		pub:           publisherOrNop(pub),
		log:           log.With(zap.String("component", "attachments")),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *attachmentService) Upload(ctx context.Context, t *model.Task, uploaderID string, in UploadInput) (*model.Attachment, error) {
	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	// Stored name is a UUID with the client's extension.
	genName := uuid.New().String() + filepath.Ext(in.OriginalFilename)
	key := storage.AttachmentKey(t.ID, genName)

	objInfo, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.OriginalFilename,
			"task-id":           t.ID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	stored, err := s.repo.Create(ctx, &model.Attachment{
		ID:               uuid.New().String(),
		TaskID:           t.ID,
		Filename:         genName,
		OriginalFilename: in.OriginalFilename,
		StoragePath:      objInfo.Key,
		Size:             objInfo.Size,
		ContentType:      objInfo.ContentType,
		UploadedBy:       uploaderID,
		CreatedAt:        s.now(),
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.pub.Publish(event(model.EventAttachmentCreated, t.ProjectID, uploaderID, stored, stored.CreatedAt))
	return stored, nil
}

func (s *attachmentService) List(ctx context.Context, taskID string) ([]model.Attachment, error) {
	return s.repo.ListByTask(ctx, taskID)
}

func (s *attachmentService) Get(ctx context.Context, t *model.Task, id string) (*model.Attachment, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrAttachmentNotFound)
	}
	if a.TaskID != t.ID {
		return nil, ErrAttachmentNotFound
	}
	return a, nil
}

func (s *attachmentService) DownloadURL(ctx context.Context, a *model.Attachment) (string, error) {
	u, err := s.store.PresignGet(ctx, a.StoragePath, s.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}
	return u, nil
}

func (s *attachmentService) Open(ctx context.Context, a *model.Attachment) (io.ReadCloser, storage.ObjectInfo, error) {
	rc, info, err := s.store.Get(ctx, a.StoragePath)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Warn("attachment_object_missing", zap.String("attachment_id", a.ID), zap.String("key", a.StoragePath))
		return nil, storage.ObjectInfo{}, ErrAttachmentNotFound
	}
	if err != nil {
		return nil, storage.ObjectInfo{}, fmt.Errorf("open object: %w", err)
	}
	return rc, info, nil
}

func (s *attachmentService) Delete(ctx context.Context, p *model.Project, t *model.Task, actorID, id string) error {
	a, err := s.Get(ctx, t, id)
	if err != nil {
		return err
	}
	if !p.IsManager(actorID) && a.UploadedBy != actorID {
		return ErrForbidden
	}

	// Keep the row if the object could not be removed, so it can be retried.
	if err := s.store.Delete(ctx, a.StoragePath); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.repo.Delete(ctx, a.ID); err != nil {
		return err
	}

	s.log.Info("attachment_deleted", zap.String("attachment_id", a.ID), zap.String("actor_id", actorID))
	s.pub.Publish(event(model.EventAttachmentDeleted, t.ProjectID, actorID, map[string]string{"id": a.ID, "task": t.ID}, s.now()))
	return nil
}
