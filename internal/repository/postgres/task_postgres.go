package postgres

import (
	"context"
	"database/sql"

	"nexuspro/internal/model"
	"nexuspro/internal/repository"
)

// TaskPostgres is a PostgreSQL implementation of repository.TaskRepository.
type TaskPostgres struct {
	db *sql.DB
}

// NewTaskPostgres creates a new TaskPostgres repository.
func NewTaskPostgres(db *sql.DB) *TaskPostgres {
	return &TaskPostgres{db: db}
}

var _ repository.TaskRepository = (*TaskPostgres)(nil)

const taskColumns = `id, project_id, name, description, status, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	if err := row.Scan(
		&t.ID,
		&t.ProjectID,
		&t.Name,
		&t.Description,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new task row and returns the stored record.
func (r *TaskPostgres) Create(ctx context.Context, t *model.Task) (*model.Task, error) {
	const q = `
		INSERT INTO tasks (id, project_id, name, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRowContext(ctx, q,
		t.ID,
		t.ProjectID,
		t.Name,
		t.Description,
		t.Status,
		t.CreatedAt,
		t.UpdatedAt,
	))
}

// FindByID fetches a single task by its ID.
func (r *TaskPostgres) FindByID(ctx context.Context, id string) (*model.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.db.QueryRowContext(ctx, q, id))
}

// ListByProject returns every task of the project, oldest first.
func (r *TaskPostgres) ListByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Update persists name and description and returns the stored task.
func (r *TaskPostgres) Update(ctx context.Context, t *model.Task) (*model.Task, error) {
	const q = `
		UPDATE tasks SET name = $2, description = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRowContext(ctx, q, t.ID, t.Name, t.Description, t.UpdatedAt))
}

// Delete removes a task by ID. Notes, history and attachment rows cascade.
func (r *TaskPostgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// UpdateStatus moves the task and records who did it.
func (r *TaskPostgres) UpdateStatus(ctx context.Context, change *model.StatusChange) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE tasks SET status = $2, updated_at = $3 WHERE id = $1`,
			change.TaskID, change.Status, change.ChangedAt,
		)
		if err != nil {
			return err
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO task_status_changes (id, task_id, user_id, status, changed_at)
			VALUES ($1, $2, $3, $4, $5)`,
			change.ID, change.TaskID, change.User.ID, change.Status, change.ChangedAt,
		)
		return err
	})
}

// ListStatusChanges returns the task's history with the acting users, oldest first.
func (r *TaskPostgres) ListStatusChanges(ctx context.Context, taskID string) ([]model.StatusChange, error) {
	const q = `
		SELECT c.id, c.task_id, c.status, c.changed_at, u.id, u.name, u.email
		FROM task_status_changes c
		JOIN users u ON u.id = c.user_id
		WHERE c.task_id = $1
		ORDER BY c.changed_at, c.id
	`
	rows, err := r.db.QueryContext(ctx, q, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := make([]model.StatusChange, 0)
	for rows.Next() {
		var c model.StatusChange
		if err := rows.Scan(
			&c.ID,
			&c.TaskID,
			&c.Status,
			&c.ChangedAt,
			&c.User.ID,
			&c.User.Name,
			&c.User.Email,
		); err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}
