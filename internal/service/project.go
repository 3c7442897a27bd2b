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

// ProjectInput carries the editable project fields.
type ProjectInput struct {
	ProjectName string
	ClientName  string
	Description string
}

// MaxPageSize caps the project list limit.
const MaxPageSize = 100

// ProjectListResult is the service-level DTO for paginated projects.
type ProjectListResult struct {
	Items []model.Project `json:"data"`
	Total int             `json:"total"`
}

// ProjectService defines the project use cases. Callers authorize before mutating.
type ProjectService interface {
	Create(ctx context.Context, managerID string, in ProjectInput) (*model.Project, error)

	// ListForUser returns projects managed by or shared with userID, newest first.
	ListForUser(ctx context.Context, userID string, limit, offset int) (*ProjectListResult, error)

	Get(ctx context.Context, id string) (*model.Project, error)

	// GetWithTasks is Get plus the project's tasks.
	GetWithTasks(ctx context.Context, id string) (*model.Project, error)

	Update(ctx context.Context, p *model.Project, actorID string, in ProjectInput) (*model.Project, error)
	Delete(ctx context.Context, p *model.Project, actorID string) error
}

type projectService struct {
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	purger   objectPurger
	pub      EventPublisher
	log      *zap.Logger
	now      func() time.Time
}

// NewProjectService constructs the ProjectService. attachments and store are used
// to remove stored files when a project is deleted.
func NewProjectService(
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	attachments repository.AttachmentRepository,
	store storage.Storage,
	pub EventPublisher,
	log *zap.Logger,
) ProjectService {
	log = log.With(zap.String("component", "projects"))
	return &projectService{
		projects: projects,
		tasks:    tasks,
		purger:   objectPurger{attachments: attachments, store: store, log: log},
		pub:      publisherOrNop(pub),
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *projectService) Create(ctx context.Context, managerID string, in ProjectInput) (*model.Project, error) {
	if managerID == "" {
		return nil, ErrIDRequired
	}
	now := s.now()
	p, err := s.projects.Create(ctx, &model.Project{
		ID:          uuid.New().String(),
		ProjectName: in.ProjectName,
		ClientName:  in.ClientName,
		Description: in.Description,
		ManagerID:   managerID,
		Team:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	s.log.Info("project_created", zap.String("project_id", p.ID), zap.String("manager_id", managerID))
	return p, nil
}

func (s *projectService) ListForUser(ctx context.Context, userID string, limit, offset int) (*ProjectListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.projects.ListForUser(ctx, userID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ProjectListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *projectService) Get(ctx context.Context, id string) (*model.Project, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	return p, nil
}

func (s *projectService) GetWithTasks(ctx context.Context, id string) (*model.Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	p.Tasks = tasks
	return p, nil
}

func (s *projectService) Update(ctx context.Context, p *model.Project, actorID string, in ProjectInput) (*model.Project, error) {
	changed := *p
	changed.ProjectName = in.ProjectName
	changed.ClientName = in.ClientName
	changed.Description = in.Description
	changed.UpdatedAt = s.now()

	updated, err := s.projects.Update(ctx, &changed)
	if err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	s.pub.Publish(event(model.EventProjectUpdated, p.ID, actorID, updated, changed.UpdatedAt))
	return updated, nil
}

func (s *projectService) Delete(ctx context.Context, p *model.Project, actorID string) error {
	tasks, err := s.tasks.ListByProject(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	for _, t := range tasks {
		s.purger.purgeTask(ctx, t.ID)
	}

	if err := s.projects.Delete(ctx, p.ID); err != nil {
		return notFound(err, ErrProjectNotFound)
	}
	s.log.Info("project_deleted", zap.String("project_id", p.ID), zap.String("actor_id", actorID))
	s.pub.Publish(event(model.EventProjectDeleted, p.ID, actorID, nil, s.now()))
	return nil
}
