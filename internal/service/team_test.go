package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nexuspro/internal/model"
	"nexuspro/internal/repository"
	repoMocks "nexuspro/internal/repository/mocks"
)

func TestTeamService_FindMemberByEmail(t *testing.T) {
	ctx := context.Background()
	users := new(repoMocks.MockUserRepository)
	svc := NewTeamService(users, new(repoMocks.MockProjectRepository), nil, zap.NewNop())

	users.On("FindByEmail", ctx, "bea@example.com").
		Return(&model.User{ID: "u2", Name: "Bea", Email: "bea@example.com", PasswordHash: "x"}, nil)
	users.On("FindByEmail", ctx, "nobody@example.com").Return(nil, sql.ErrNoRows)

	s, err := svc.FindMemberByEmail(ctx, "Bea@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.UserSummary{ID: "u2", Name: "Bea", Email: "bea@example.com"}, *s)

	_, err = svc.FindMemberByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestTeamService_Add(t *testing.T) {
	ctx := context.Background()
	p := &model.Project{ID: "p1", ManagerID: "manager", Team: []string{"member"}}

	tests := []struct {
		name      string
		userID    string
		setup     func(users *repoMocks.MockUserRepository, projects *repoMocks.MockProjectRepository)
		wantErr   error
		wantEvent bool
	}{
		{
			name:   "adds new member",
			userID: "newbie",
			setup: func(users *repoMocks.MockUserRepository, projects *repoMocks.MockProjectRepository) {
				users.On("FindByID", ctx, "newbie").Return(&model.User{ID: "newbie"}, nil)
				projects.On("AddMember", ctx, "p1", "newbie").Return(nil)
				projects.On("ListMembers", ctx, "p1").Return([]model.UserSummary{{ID: "member"}, {ID: "newbie"}}, nil)
			},
			wantEvent: true,
		},
		{
			name:   "unknown user",
			userID: "ghost",
			setup: func(users *repoMocks.MockUserRepository, projects *repoMocks.MockProjectRepository) {
				users.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrUserNotFound,
		},
		{
			name:   "already a member",
			userID: "member",
			setup: func(users *repoMocks.MockUserRepository, projects *repoMocks.MockProjectRepository) {
				users.On("FindByID", ctx, "member").Return(&model.User{ID: "member"}, nil)
			},
			wantErr: ErrMemberExists,
		},
		{
			name:   "manager cannot join",
			userID: "manager",
			setup: func(users *repoMocks.MockUserRepository, projects *repoMocks.MockProjectRepository) {
				users.On("FindByID", ctx, "manager").Return(&model.User{ID: "manager"}, nil)
			},
			wantErr: ErrManagerMember,
		},
		{
			name:   "concurrent add hits unique key",
			userID: "newbie",
			setup: func(users *repoMocks.MockUserRepository, projects *repoMocks.MockProjectRepository) {
				users.On("FindByID", ctx, "newbie").Return(&model.User{ID: "newbie"}, nil)
				projects.On("AddMember", ctx, "p1", "newbie").Return(repository.ErrDuplicate)
			},
			wantErr: ErrMemberExists,
		},
		{
			name:    "empty id",
			setup:   func(users *repoMocks.MockUserRepository, projects *repoMocks.MockProjectRepository) {},
			wantErr: ErrIDRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(repoMocks.MockUserRepository)
			projects := new(repoMocks.MockProjectRepository)
			pub := &recordingPublisher{}
			svc := NewTeamService(users, projects, pub, zap.NewNop())
			tt.setup(users, projects)

			err := svc.Add(ctx, p, "manager", tt.userID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				projects.AssertNotCalled(t, "ListMembers", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantEvent {
				require.Len(t, pub.events, 1)
				assert.Equal(t, model.EventTeamUpdated, pub.events[0].Type)
				change, ok := pub.events[0].Payload.(model.TeamChange)
				require.True(t, ok)
				assert.Equal(t, "manager", change.ManagerID)
				assert.Len(t, change.Members, 2)
			}
			users.AssertExpectations(t)
			projects.AssertExpectations(t)
		})
	}
}

func TestTeamService_Remove(t *testing.T) {
	ctx := context.Background()
	p := &model.Project{ID: "p1", ManagerID: "manager", Team: []string{"member"}}

	t.Run("removes member", func(t *testing.T) {
		projects := new(repoMocks.MockProjectRepository)
		pub := &recordingPublisher{}
		svc := NewTeamService(new(repoMocks.MockUserRepository), projects, pub, zap.NewNop())
		projects.On("RemoveMember", ctx, "p1", "member").Return(nil)
		projects.On("ListMembers", ctx, "p1").Return([]model.UserSummary{}, nil)

		assert.NoError(t, svc.Remove(ctx, p, "manager", "member"))
		assert.Equal(t, []model.EventType{model.EventTeamUpdated}, pub.types())
		change := pub.events[0].Payload.(model.TeamChange)
		assert.False(t, change.Allows("member"))
		assert.True(t, change.Allows("manager"))
	})

	t.Run("not a member", func(t *testing.T) {
		projects := new(repoMocks.MockProjectRepository)
		svc := NewTeamService(new(repoMocks.MockUserRepository), projects, nil, zap.NewNop())

		assert.ErrorIs(t, svc.Remove(ctx, p, "manager", "stranger"), ErrMemberMissing)
		projects.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("removed concurrently", func(t *testing.T) {
		projects := new(repoMocks.MockProjectRepository)
		svc := NewTeamService(new(repoMocks.MockUserRepository), projects, nil, zap.NewNop())
		projects.On("RemoveMember", ctx, "p1", "member").Return(sql.ErrNoRows)

		assert.ErrorIs(t, svc.Remove(ctx, p, "manager", "member"), ErrMemberMissing)
	})
}
