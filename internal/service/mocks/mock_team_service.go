package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"nexuspro/internal/model"
)

type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) FindMemberByEmail(ctx context.Context, email string) (*model.UserSummary, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSummary), args.Error(1)
}

func (m *MockTeamService) List(ctx context.Context, projectID string) ([]model.UserSummary, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserSummary), args.Error(1)
}

func (m *MockTeamService) Add(ctx context.Context, p *model.Project, actorID, userID string) error {
	return m.Called(ctx, p, actorID, userID).Error(0)
}

func (m *MockTeamService) Remove(ctx context.Context, p *model.Project, actorID, userID string) error {
	return m.Called(ctx, p, actorID, userID).Error(0)
}
