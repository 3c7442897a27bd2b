package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"nexuspro/internal/model"
)

var attachmentCols = []string{"id", "task_id", "filename", "original_filename", "storage_path", "size", "content_type", "uploaded_by", "created_at"}

func TestAttachmentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAttachmentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	a := &model.Attachment{
		ID:               "att-1",
		TaskID:           "task-1",
		Filename:         "gen.pdf",
		OriginalFilename: "brief.pdf",
		StoragePath:      "attachments/task-1/gen.pdf",
		Size:             123,
		ContentType:      "application/pdf",
		UploadedBy:       "user-1",
		CreatedAt:        now,
	}

	rows := sqlmock.NewRows(attachmentCols).
		AddRow(a.ID, a.TaskID, a.Filename, a.OriginalFilename, a.StoragePath, a.Size, a.ContentType, a.UploadedBy, a.CreatedAt)

	mock.ExpectQuery("INSERT INTO task_attachments").
		WithArgs(a.ID, a.TaskID, a.Filename, a.OriginalFilename, a.StoragePath, a.Size, a.ContentType, a.UploadedBy, a.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, a)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, a.ID, result.ID)
	assert.Equal(t, "brief.pdf", result.OriginalFilename)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachmentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAttachmentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(attachmentCols).
			AddRow("att-1", "task-1", "gen.txt", "file.txt", "path/gen.txt", 100, "text/plain", "user-1", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM task_attachments WHERE id = ?").
			WithArgs("att-1").
			WillReturnRows(rows)

		a, err := repo.FindByID(ctx, "att-1")

		assert.NoError(t, err)
		assert.NotNil(t, a)
		assert.Equal(t, "task-1", a.TaskID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM task_attachments WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		a, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, a)
	})
}

func TestAttachmentPostgres_ListByTask(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAttachmentPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(attachmentCols).
		AddRow("att-2", "task-1", "b.txt", "b.txt", "p/b.txt", 2, "text/plain", "user-1", time.Now()).
		AddRow("att-1", "task-1", "a.txt", "a.txt", "p/a.txt", 1, "text/plain", "user-1", time.Now())

	mock.ExpectQuery("SELECT (.+) FROM task_attachments WHERE task_id = (.+) ORDER BY").
		WithArgs("task-1").
		WillReturnRows(rows)

	items, err := repo.ListByTask(ctx, "task-1")

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "att-2", items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachmentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAttachmentPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM task_attachments WHERE id = ?").
		WithArgs("att-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Delete(ctx, "att-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
