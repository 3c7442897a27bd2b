package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nexuspro/internal/model"
	"nexuspro/internal/repository"
)

// NoteService manages comments on tasks.
type NoteService interface {
	Create(ctx context.Context, t *model.Task, author model.UserSummary, content string) (*model.Note, error)
	ListByTask(ctx context.Context, taskID string) ([]model.Note, error)

	// Delete removes a note on t. Only its author may delete it.
	Delete(ctx context.Context, t *model.Task, actorID, noteID string) error
}

type noteService struct {
	notes repository.NoteRepository
	pub   EventPublisher
	now   func() time.Time
}

func NewNoteService(notes repository.NoteRepository, pub EventPublisher) NoteService {
	return &noteService{
		notes: notes,
		pub:   publisherOrNop(pub),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *noteService) Create(ctx context.Context, t *model.Task, author model.UserSummary, content string) (*model.Note, error) {
	n, err := s.notes.Create(ctx, &model.Note{
		ID:        uuid.New().String(),
		TaskID:    t.ID,
		Content:   content,
		CreatedBy: author,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	s.pub.Publish(event(model.EventNoteCreated, t.ProjectID, author.ID, n, n.CreatedAt))
	return n, nil
}

func (s *noteService) ListByTask(ctx context.Context, taskID string) ([]model.Note, error) {
	return s.notes.ListByTask(ctx, taskID)
}

func (s *noteService) Delete(ctx context.Context, t *model.Task, actorID, noteID string) error {
	if noteID == "" {
		return ErrIDRequired
	}
	n, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return notFound(err, ErrNoteNotFound)
	}
	if n.TaskID != t.ID {
		return ErrNoteNotFound
	}
	if n.CreatedBy.ID != actorID {
		return ErrNotAuthor
	}

	if err := s.notes.Delete(ctx, n.ID); err != nil {
		return notFound(err, ErrNoteNotFound)
	}
	s.pub.Publish(event(model.EventNoteDeleted, t.ProjectID, actorID, map[string]string{"id": n.ID, "task": t.ID}, s.now()))
	return nil
}
