package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"nexuspro/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskCols = []string{"id", "project_id", "name", "description", "status", "created_at", "updated_at"}

func TestTaskPostgres_CreateAndFind(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewTaskPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()
	task := &model.Task{ID: "task-1", ProjectID: "proj-1", Name: "Wireframes", Description: "Home", Status: model.StatusPending, CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery("INSERT INTO tasks").
		WithArgs("task-1", "proj-1", "Wireframes", "Home", "pending", now, now).
		WillReturnRows(sqlmock.NewRows(taskCols).AddRow("task-1", "proj-1", "Wireframes", "Home", "pending", now, now))

	created, err := repo.Create(ctx, task)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPending, created.Status)

	mock.ExpectQuery("SELECT (.+) FROM tasks WHERE id = ?").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_ListByProject(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM tasks WHERE project_id = (.+) ORDER BY created_at").
		WithArgs("proj-1").
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow("task-1", "proj-1", "A", "a", "pending", now, now).
			AddRow("task-2", "proj-1", "B", "b", "completed", now, now))

	tasks, err := NewTaskPostgres(db).ListByProject(context.Background(), "proj-1")

	assert.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, model.StatusCompleted, tasks[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("UPDATE tasks SET name").
		WithArgs("task-1", "Renamed", "desc", now).
		WillReturnRows(sqlmock.NewRows(taskCols).AddRow("task-1", "proj-1", "Renamed", "desc", "inProgress", now, now))

	out, err := NewTaskPostgres(db).Update(context.Background(), &model.Task{ID: "task-1", Name: "Renamed", Description: "desc", UpdatedAt: now})

	assert.NoError(t, err)
	assert.Equal(t, "Renamed", out.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM tasks WHERE id = ?").WithArgs("task-1").WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, NewTaskPostgres(db).Delete(context.Background(), "task-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskPostgres_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	change := &model.StatusChange{
		ID:        "chg-1",
		TaskID:    "task-1",
		User:      model.UserSummary{ID: "user-2"},
		Status:    model.StatusInProgress,
		ChangedAt: now,
	}

	t.Run("commits status and history", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE tasks SET status").
			WithArgs("task-1", "inProgress", now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO task_status_changes").
			WithArgs("chg-1", "task-1", "user-2", "inProgress", now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, NewTaskPostgres(db).UpdateStatus(ctx, change))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("history failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE tasks SET status").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO task_status_changes").WillReturnError(errors.New("fk violation"))
		mock.ExpectRollback()

		assert.Error(t, NewTaskPostgres(db).UpdateStatus(ctx, change))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing task", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE tasks SET status").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, NewTaskPostgres(db).UpdateStatus(ctx, change), sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTaskPostgres_ListStatusChanges(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM task_status_changes c JOIN users u").
		WithArgs("task-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "task_id", "status", "changed_at", "uid", "name", "email"}).
			AddRow("chg-1", "task-1", "inProgress", now, "user-2", "Bo", "bo@example.com"))

	changes, err := NewTaskPostgres(db).ListStatusChanges(context.Background(), "task-1")

	assert.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "Bo", changes[0].User.Name)
	assert.Equal(t, model.StatusInProgress, changes[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
