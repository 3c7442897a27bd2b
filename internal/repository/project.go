package repository

import (
	"context"

	"nexuspro/internal/model"
)

// ProjectRepository defines persistence for projects and their teams.
// Returned projects always carry their team member ids.
type ProjectRepository interface {
	Create(ctx context.Context, p *model.Project) (*model.Project, error)
	FindByID(ctx context.Context, id string) (*model.Project, error)

	// ListForUser returns projects the user manages or belongs to, newest first.
	ListForUser(ctx context.Context, userID string, pq PageQuery) (*PageResult[model.Project], error)

	Update(ctx context.Context, p *model.Project) (*model.Project, error)

	// Delete removes the project; members, tasks and notes cascade.
	Delete(ctx context.Context, id string) error

	ListMembers(ctx context.Context, projectID string) ([]model.UserSummary, error)

	// AddMember returns ErrDuplicate if the user already belongs to the project.
	AddMember(ctx context.Context, projectID, userID string) error

	// RemoveMember returns sql.ErrNoRows if the user is not on the team.
	RemoveMember(ctx context.Context, projectID, userID string) error
}
