package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nexuspro/internal/model"
	"nexuspro/internal/repository"
	"nexuspro/internal/storage"
)

// TaskInput carries the editable task fields.
type TaskInput struct {
	Name        string
	Description string
}

// TaskService defines the board use cases. The project is already loaded and authorized.
type TaskService interface {
	Create(ctx context.Context, p *model.Project, actorID string, in TaskInput) (*model.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]model.Task, error)
	Get(ctx context.Context, id string) (*model.Task, error)

	// GetDetail is Get plus status history and notes.
	GetDetail(ctx context.Context, id string) (*model.Task, error)

	Update(ctx context.Context, t *model.Task, actorID string, in TaskInput) (*model.Task, error)

	// Delete removes the task's stored attachments best-effort, then the task.
	Delete(ctx context.Context, t *model.Task, actorID string) error

	// UpdateStatus moves the task and records who moved it.
	UpdateStatus(ctx context.Context, t *model.Task, actor model.UserSummary, status model.TaskStatus) (*model.Task, error)
}

type taskService struct {
	tasks  repository.TaskRepository
	notes  repository.NoteRepository
	purger objectPurger
	pub    EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

func NewTaskService(
	tasks repository.TaskRepository,
	notes repository.NoteRepository,
	attachments repository.AttachmentRepository,
	store storage.Storage,
	pub EventPublisher,
	log *zap.Logger,
) TaskService {
	log = log.With(zap.String("component", "tasks"))
	return &taskService{
		tasks:  tasks,
		notes:  notes,
		purger: objectPurger{attachments: attachments, store: store, log: log},
		pub:    publisherOrNop(pub),
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *taskService) Create(ctx context.Context, p *model.Project, actorID string, in TaskInput) (*model.Task, error) {
	now := s.now()
	t, err := s.tasks.Create(ctx, &model.Task{
		ID:          uuid.New().String(),
		ProjectID:   p.ID,
		Name:        in.Name,
		Description: in.Description,
		Status:      model.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.pub.Publish(event(model.EventTaskCreated, p.ID, actorID, t, now))
	return t, nil
}

func (s *taskService) ListByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) Get(ctx context.Context, id string) (*model.Task, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}
	return t, nil
}

func (s *taskService) GetDetail(ctx context.Context, id string) (*model.Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.tasks.ListStatusChanges(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("list status changes: %w", err)
	}
	notes, err := s.notes.ListByTask(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	t.CompletedBy = history
	t.Notes = notes
	return t, nil
}

func (s *taskService) Update(ctx context.Context, t *model.Task, actorID string, in TaskInput) (*model.Task, error) {
	changed := *t
	changed.Name = in.Name
	changed.Description = in.Description
	changed.UpdatedAt = s.now()

	updated, err := s.tasks.Update(ctx, &changed)
	if err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}
	s.pub.Publish(event(model.EventTaskUpdated, t.ProjectID, actorID, updated, changed.UpdatedAt))
	return updated, nil
}

func (s *taskService) Delete(ctx context.Context, t *model.Task, actorID string) error {
	s.purger.purgeTask(ctx, t.ID)
	if err := s.tasks.Delete(ctx, t.ID); err != nil {
		return notFound(err, ErrTaskNotFound)
	}
	s.pub.Publish(event(model.EventTaskDeleted, t.ProjectID, actorID, map[string]string{"id": t.ID}, s.now()))
	return nil
}

func (s *taskService) UpdateStatus(ctx context.Context, t *model.Task, actor model.UserSummary, status model.TaskStatus) (*model.Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	change := &model.StatusChange{
		ID:        uuid.New().String(),
		TaskID:    t.ID,
		User:      actor,
		Status:    status,
		ChangedAt: s.now(),
	}
	if err := s.tasks.UpdateStatus(ctx, change); err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}

	updated := *t
	updated.Status = status
	updated.UpdatedAt = change.ChangedAt
	s.pub.Publish(event(model.EventTaskStatus, t.ProjectID, actor.ID, map[string]any{
		"task":   t.ID,
		"change": change,
	}, change.ChangedAt))
	return &updated, nil
}
