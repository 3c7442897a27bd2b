package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"nexuspro/internal/model"
	"nexuspro/internal/repository"
)

// TeamService manages project membership.
type TeamService interface {
	FindMemberByEmail(ctx context.Context, email string) (*model.UserSummary, error)
	List(ctx context.Context, projectID string) ([]model.UserSummary, error)

	// Add puts userID on the team. The manager cannot be added.
	Add(ctx context.Context, p *model.Project, actorID, userID string) error
	Remove(ctx context.Context, p *model.Project, actorID, userID string) error
}

type teamService struct {
	users    repository.UserRepository
	projects repository.ProjectRepository
	pub      EventPublisher
	log      *zap.Logger
	now      func() time.Time
}

func NewTeamService(users repository.UserRepository, projects repository.ProjectRepository, pub EventPublisher, log *zap.Logger) TeamService {
	return &teamService{
		users:    users,
		projects: projects,
		pub:      publisherOrNop(pub),
		log:      log.With(zap.String("component", "team")),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *teamService) FindMemberByEmail(ctx context.Context, email string) (*model.UserSummary, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	summary := u.Summary()
	return &summary, nil
}

func (s *teamService) List(ctx context.Context, projectID string) ([]model.UserSummary, error) {
	return s.projects.ListMembers(ctx, projectID)
}

func (s *teamService) Add(ctx context.Context, p *model.Project, actorID, userID string) error {
	if userID == "" {
		return ErrIDRequired
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if p.IsManager(u.ID) {
		return ErrManagerMember
	}
	if p.HasMember(u.ID) {
		return ErrMemberExists
	}

	if err := s.projects.AddMember(ctx, p.ID, u.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrMemberExists
		}
		return err
	}
	s.log.Info("team_member_added", zap.String("project_id", p.ID), zap.String("user_id", u.ID))
	s.publish(ctx, p, actorID)
	return nil
}

func (s *teamService) Remove(ctx context.Context, p *model.Project, actorID, userID string) error {
	if !p.HasMember(userID) {
		return ErrMemberMissing
	}
	if err := s.projects.RemoveMember(ctx, p.ID, userID); err != nil {
		return notFound(err, ErrMemberMissing)
	}
	s.log.Info("team_member_removed", zap.String("project_id", p.ID), zap.String("user_id", userID))
	s.publish(ctx, p, actorID)
	return nil
}

// publish sends the current team; a failed reload only skips the event.
func (s *teamService) publish(ctx context.Context, p *model.Project, actorID string) {
	members, err := s.projects.ListMembers(ctx, p.ID)
	if err != nil {
		s.log.Warn("team_event_skipped", zap.String("project_id", p.ID), zap.Error(err))
		return
	}
	change := model.TeamChange{ManagerID: p.ManagerID, Members: members}
	s.pub.Publish(event(model.EventTeamUpdated, p.ID, actorID, change, s.now()))
}
