package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nexuspro/internal/model"
	repoMocks "nexuspro/internal/repository/mocks"
)

func TestNoteService_Create(t *testing.T) {
	ctx := context.Background()
	task := &model.Task{ID: "t1", ProjectID: "p1"}
	author := model.UserSummary{ID: "u1", Name: "Ana"}

	notes := new(repoMocks.MockNoteRepository)
	pub := &recordingPublisher{}
	svc := NewNoteService(notes, pub)

	notes.On("Create", ctx, mock.MatchedBy(func(n *model.Note) bool {
		return n.TaskID == "t1" && n.CreatedBy == author && n.Content == "Looks good"
	})).Return(&model.Note{ID: "n1", TaskID: "t1", CreatedBy: author, Content: "Looks good"}, nil)

	n, err := svc.Create(ctx, task, author, "Looks good")

	require.NoError(t, err)
	assert.Equal(t, "n1", n.ID)
	assert.Equal(t, []model.EventType{model.EventNoteCreated}, pub.types())
}

func TestNoteService_Delete(t *testing.T) {
	ctx := context.Background()
	task := &model.Task{ID: "t1", ProjectID: "p1"}
	note := &model.Note{ID: "n1", TaskID: "t1", CreatedBy: model.UserSummary{ID: "author"}}

	tests := []struct {
		name    string
		actorID string
		noteID  string
		setup   func(notes *repoMocks.MockNoteRepository)
		wantErr error
	}{
		{
			name:    "author deletes",
			actorID: "author",
			noteID:  "n1",
			setup: func(notes *repoMocks.MockNoteRepository) {
				notes.On("FindByID", ctx, "n1").Return(note, nil)
				notes.On("Delete", ctx, "n1").Return(nil)
			},
		},
		{
			name:    "someone else",
			actorID: "manager",
			noteID:  "n1",
			setup: func(notes *repoMocks.MockNoteRepository) {
				notes.On("FindByID", ctx, "n1").Return(note, nil)
			},
			wantErr: ErrNotAuthor,
		},
		{
			name:    "missing",
			actorID: "author",
			noteID:  "n9",
			setup: func(notes *repoMocks.MockNoteRepository) {
				notes.On("FindByID", ctx, "n9").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNoteNotFound,
		},
		{
			name:    "note on another task",
			actorID: "author",
			noteID:  "n2",
			setup: func(notes *repoMocks.MockNoteRepository) {
				notes.On("FindByID", ctx, "n2").Return(&model.Note{ID: "n2", TaskID: "t2", CreatedBy: model.UserSummary{ID: "author"}}, nil)
			},
			wantErr: ErrNoteNotFound,
		},
		{
			name:    "empty id",
			actorID: "author",
			setup:   func(notes *repoMocks.MockNoteRepository) {},
			wantErr: ErrIDRequired,
		},
		{
			name:    "repository error",
			actorID: "author",
			noteID:  "n1",
			setup: func(notes *repoMocks.MockNoteRepository) {
				notes.On("FindByID", ctx, "n1").Return(note, nil)
				notes.On("Delete", ctx, "n1").Return(errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes := new(repoMocks.MockNoteRepository)
			pub := &recordingPublisher{}
			svc := NewNoteService(notes, pub)
			tt.setup(notes)

			err := svc.Delete(ctx, task, tt.actorID, tt.noteID)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())
				assert.Empty(t, pub.events)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, []model.EventType{model.EventNoteDeleted}, pub.types())
			}
			notes.AssertExpectations(t)
		})
	}
}
