package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"nexuspro/internal/model"
)

type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) Create(ctx context.Context, t *model.Task, author model.UserSummary, content string) (*model.Note, error) {
	args := m.Called(ctx, t, author, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Note), args.Error(1)
}

func (m *MockNoteService) ListByTask(ctx context.Context, taskID string) ([]model.Note, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Note), args.Error(1)
}

func (m *MockNoteService) Delete(ctx context.Context, t *model.Task, actorID, noteID string) error {
	return m.Called(ctx, t, actorID, noteID).Error(0)
}
