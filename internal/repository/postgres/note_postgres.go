package postgres

import (
	"context"
	"database/sql"

	"nexuspro/internal/model"
	"nexuspro/internal/repository"
)

// NotePostgres is a PostgreSQL implementation of repository.NoteRepository.
type NotePostgres struct {
	db *sql.DB
}

// NewNotePostgres creates a new NotePostgres repository.
func NewNotePostgres(db *sql.DB) *NotePostgres {
	return &NotePostgres{db: db}
}

var _ repository.NoteRepository = (*NotePostgres)(nil)

func scanNote(row interface{ Scan(...any) error }) (*model.Note, error) {
	var n model.Note
	if err := row.Scan(
		&n.ID,
		&n.TaskID,
		&n.Content,
		&n.CreatedAt,
		&n.CreatedBy.ID,
		&n.CreatedBy.Name,
		&n.CreatedBy.Email,
	); err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts a note and returns it with its author summary.
func (r *NotePostgres) Create(ctx context.Context, n *model.Note) (*model.Note, error) {
	const q = `
		WITH inserted AS (
			INSERT INTO notes (id, task_id, content, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, task_id, content, created_by, created_at
		)
		SELECT i.id, i.task_id, i.content, i.created_at, u.id, u.name, u.email
		FROM inserted i
		JOIN users u ON u.id = i.created_by
	`
	return scanNote(r.db.QueryRowContext(ctx, q, n.ID, n.TaskID, n.Content, n.CreatedBy.ID, n.CreatedAt))
}

// FindByID fetches a single note by its ID.
func (r *NotePostgres) FindByID(ctx context.Context, id string) (*model.Note, error) {
	const q = `
		SELECT n.id, n.task_id, n.content, n.created_at, u.id, u.name, u.email
		FROM notes n
		JOIN users u ON u.id = n.created_by
		WHERE n.id = $1
	`
	return scanNote(r.db.QueryRowContext(ctx, q, id))
}

// ListByTask returns the task's notes, oldest first.
func (r *NotePostgres) ListByTask(ctx context.Context, taskID string) ([]model.Note, error) {
	const q = `
		SELECT n.id, n.task_id, n.content, n.created_at, u.id, u.name, u.email
		FROM notes n
		JOIN users u ON u.id = n.created_by
		WHERE n.task_id = $1
		ORDER BY n.created_at, n.id
	`
	rows, err := r.db.QueryContext(ctx, q, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]model.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

// Delete removes a note by ID.
func (r *NotePostgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
