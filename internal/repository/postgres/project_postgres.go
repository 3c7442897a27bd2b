package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"nexuspro/internal/model"
	"nexuspro/internal/repository"
)

// ProjectPostgres is a PostgreSQL implementation of repository.ProjectRepository.
// Team ids are folded into each project row with string_agg so a page of
// projects is a single query.
type ProjectPostgres struct {
	db *sql.DB
}

// NewProjectPostgres creates a new ProjectPostgres repository.
func NewProjectPostgres(db *sql.DB) *ProjectPostgres {
	return &ProjectPostgres{db: db}
}

var _ repository.ProjectRepository = (*ProjectPostgres)(nil)

const projectSelect = `
	SELECT p.id, p.project_name, p.client_name, p.description, p.manager_id, p.created_at, p.updated_at,
	       COALESCE((SELECT string_agg(m.user_id::text, ',' ORDER BY m.added_at)
	                 FROM project_members m WHERE m.project_id = p.id), '') AS team
	FROM projects p
`

const accessFilter = `p.manager_id = $1 OR EXISTS (
	SELECT 1 FROM project_members m WHERE m.project_id = p.id AND m.user_id = $1)`

func scanProject(row interface{ Scan(...any) error }) (*model.Project, error) {
	var (
		p    model.Project
		team string
	)
	if err := row.Scan(
		&p.ID,
		&p.ProjectName,
		&p.ClientName,
		&p.Description,
		&p.ManagerID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&team,
	); err != nil {
		return nil, err
	}
	p.Team = splitIDs(team)
	return &p, nil
}

func splitIDs(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// Create inserts a new project row. The team starts empty.
func (r *ProjectPostgres) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	const q = `
		INSERT INTO projects (id, project_name, client_name, description, manager_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, project_name, client_name, description, manager_id, created_at, updated_at
	`
	var out model.Project
	if err := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.ProjectName,
		p.ClientName,
		p.Description,
		p.ManagerID,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(
		&out.ID,
		&out.ProjectName,
		&out.ClientName,
		&out.Description,
		&out.ManagerID,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return nil, err
	}
	out.Team = []string{}
	return &out, nil
}

// FindByID fetches a single project by its ID, team included.
func (r *ProjectPostgres) FindByID(ctx context.Context, id string) (*model.Project, error) {
	return scanProject(r.db.QueryRowContext(ctx, projectSelect+` WHERE p.id = $1`, id))
}

// ListForUser returns the projects visible to userID using LIMIT/OFFSET pagination and a total count.
func (r *ProjectPostgres) ListForUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.Project], error) {
	qCount := `SELECT COUNT(*) FROM projects p WHERE ` + accessFilter
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, userID).Scan(&total); err != nil {
		return nil, err
	}

	qList := projectSelect + ` WHERE ` + accessFilter + `
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, qList, userID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Project]{
		Items: items,
		Total: total,
	}, nil
}

// Update persists the editable project fields and returns the stored project.
func (r *ProjectPostgres) Update(ctx context.Context, p *model.Project) (*model.Project, error) {
	const q = `
		UPDATE projects
		SET project_name = $2, client_name = $3, description = $4, updated_at = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q, p.ID, p.ProjectName, p.ClientName, p.Description, p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, p.ID)
}

// Delete removes a project by ID. Dependent rows go with it through FK cascades.
func (r *ProjectPostgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ListMembers returns the team in the order members were added.
func (r *ProjectPostgres) ListMembers(ctx context.Context, projectID string) ([]model.UserSummary, error) {
	const q = `
		SELECT u.id, u.name, u.email
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY m.added_at, u.id
	`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]model.UserSummary, 0)
	for rows.Next() {
		var u model.UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		members = append(members, u)
	}
	return members, rows.Err()
}

// AddMember inserts the membership; an existing membership yields ErrDuplicate.
func (r *ProjectPostgres) AddMember(ctx context.Context, projectID, userID string) error {
	const q = `
		INSERT INTO project_members (project_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (project_id, user_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, q, projectID, userID)
	if err != nil {
		return mapError(err)
	}
	if err := requireAffected(res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// RemoveMember deletes the membership, returning sql.ErrNoRows if there was none.
func (r *ProjectPostgres) RemoveMember(ctx context.Context, projectID, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
