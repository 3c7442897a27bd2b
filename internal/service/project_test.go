package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nexuspro/internal/model"
	"nexuspro/internal/repository"
	repoMocks "nexuspro/internal/repository/mocks"
	storeMocks "nexuspro/internal/storage/mocks"
)

type projectDeps struct {
	projects    *repoMocks.MockProjectRepository
	tasks       *repoMocks.MockTaskRepository
	attachments *repoMocks.MockAttachmentRepository
	store       *storeMocks.MockStorage
	pub         *recordingPublisher
}

func newProjectFixture() (ProjectService, projectDeps) {
	d := projectDeps{
		projects:    new(repoMocks.MockProjectRepository),
		tasks:       new(repoMocks.MockTaskRepository),
		attachments: new(repoMocks.MockAttachmentRepository),
		store:       new(storeMocks.MockStorage),
		pub:         &recordingPublisher{},
	}
	return NewProjectService(d.projects, d.tasks, d.attachments, d.store, d.pub, zap.NewNop()), d
}

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()
	in := ProjectInput{ProjectName: "Shop", ClientName: "ACME", Description: "New storefront"}

	t.Run("manager is the creator", func(t *testing.T) {
		svc, d := newProjectFixture()
		d.projects.On("Create", ctx, mock.MatchedBy(func(p *model.Project) bool {
			return p.ID != "" && p.ManagerID == "u1" && p.ProjectName == "Shop" && len(p.Team) == 0
		})).Return(&model.Project{ID: "p1", ManagerID: "u1"}, nil)

		p, err := svc.Create(ctx, "u1", in)

		require.NoError(t, err)
		assert.Equal(t, "p1", p.ID)
		d.projects.AssertExpectations(t)
	})

	t.Run("missing manager", func(t *testing.T) {
		svc, _ := newProjectFixture()

		_, err := svc.Create(ctx, "", in)

		assert.ErrorIs(t, err, ErrIDRequired)
	})

	t.Run("repository error", func(t *testing.T) {
		svc, d := newProjectFixture()
		d.projects.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))

		_, err := svc.Create(ctx, "u1", in)

		assert.ErrorContains(t, err, "create project: db fail")
	})
}

func TestProjectService_ListForUser(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		limit      int
		offset     int
		setupMocks func(mRepo *repoMocks.MockProjectRepository)
		wantErr    bool
		checkRes   func(t *testing.T, res *ProjectListResult)
	}{
		{
			name:   "happy path",
			limit:  5,
			offset: 5,
			setupMocks: func(mRepo *repoMocks.MockProjectRepository) {
				mRepo.On("ListForUser", ctx, "u1", repository.PageQuery{Limit: 5, Offset: 5}).
					Return(&repository.PageResult[model.Project]{
						Items: []model.Project{{ID: "1"}, {ID: "2"}},
						Total: 7,
					}, nil)
			},
			checkRes: func(t *testing.T, res *ProjectListResult) {
				assert.Len(t, res.Items, 2)
				assert.Equal(t, 7, res.Total)
			},
		},
		{
			name:   "pagination boundary - zero limit uses default",
			limit:  0,
			offset: -1,
			setupMocks: func(mRepo *repoMocks.MockProjectRepository) {
				mRepo.On("ListForUser", ctx, "u1", repository.PageQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Project]{Items: []model.Project{}}, nil)
			},
		},
		{
			name:  "oversized limit is capped",
			limit: 1000000,
			setupMocks: func(mRepo *repoMocks.MockProjectRepository) {
				mRepo.On("ListForUser", ctx, "u1", repository.PageQuery{Limit: MaxPageSize, Offset: 0}).
					Return(&repository.PageResult[model.Project]{Items: []model.Project{}}, nil)
			},
		},
		{
			name:  "repository error",
			limit: 10,
			setupMocks: func(mRepo *repoMocks.MockProjectRepository) {
				mRepo.On("ListForUser", ctx, "u1", mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newProjectFixture()
			tt.setupMocks(d.projects)

			res, err := svc.ListForUser(ctx, "u1", tt.limit, tt.offset)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.checkRes != nil {
					tt.checkRes(t, res)
				}
			}
			d.projects.AssertExpectations(t)
		})
	}
}

func TestProjectService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		svc, d := newProjectFixture()
		d.projects.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		_, err := svc.Get(ctx, "missing")

		assert.ErrorIs(t, err, ErrProjectNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		svc, _ := newProjectFixture()

		_, err := svc.Get(ctx, "")

		assert.ErrorIs(t, err, ErrIDRequired)
	})

	t.Run("with tasks", func(t *testing.T) {
		svc, d := newProjectFixture()
		d.projects.On("FindByID", ctx, "p1").Return(&model.Project{ID: "p1"}, nil)
		d.tasks.On("ListByProject", ctx, "p1").Return([]model.Task{{ID: "t1"}, {ID: "t2"}}, nil)

		p, err := svc.GetWithTasks(ctx, "p1")

		require.NoError(t, err)
		assert.Len(t, p.Tasks, 2)
	})
}

func TestProjectService_Update(t *testing.T) {
	ctx := context.Background()
	p := &model.Project{ID: "p1", ManagerID: "u1", ProjectName: "Old"}

	svc, d := newProjectFixture()
	d.projects.On("Update", ctx, mock.MatchedBy(func(changed *model.Project) bool {
		return changed.ID == "p1" && changed.ProjectName == "New" && changed.ClientName == "ACME"
	})).Return(&model.Project{ID: "p1", ProjectName: "New"}, nil)

	updated, err := svc.Update(ctx, p, "u1", ProjectInput{ProjectName: "New", ClientName: "ACME", Description: "d"})

	require.NoError(t, err)
	assert.Equal(t, "New", updated.ProjectName)
	assert.Equal(t, "Old", p.ProjectName, "caller's project is not mutated")
	assert.Equal(t, []model.EventType{model.EventProjectUpdated}, d.pub.types())
}

func TestProjectService_Delete(t *testing.T) {
	ctx := context.Background()
	p := &model.Project{ID: "p1", ManagerID: "u1"}

	t.Run("purges stored objects then deletes", func(t *testing.T) {
		svc, d := newProjectFixture()
		d.tasks.On("ListByProject", ctx, "p1").Return([]model.Task{{ID: "t1"}, {ID: "t2"}}, nil)
		d.attachments.On("ListByTask", ctx, "t1").Return([]model.Attachment{{StoragePath: "a/1"}}, nil)
		d.attachments.On("ListByTask", ctx, "t2").Return([]model.Attachment{{StoragePath: "a/2"}}, nil)
		d.store.On("Delete", ctx, "a/1").Return(nil)
		d.store.On("Delete", ctx, "a/2").Return(errors.New("minio down"))
		d.projects.On("Delete", ctx, "p1").Return(nil)

		err := svc.Delete(ctx, p, "u1")

		require.NoError(t, err)
		assert.Equal(t, []model.EventType{model.EventProjectDeleted}, d.pub.types())
		d.store.AssertExpectations(t)
		d.projects.AssertExpectations(t)
	})

	t.Run("already gone", func(t *testing.T) {
		svc, d := newProjectFixture()
		d.tasks.On("ListByProject", ctx, "p1").Return([]model.Task{}, nil)
		d.projects.On("Delete", ctx, "p1").Return(sql.ErrNoRows)

		err := svc.Delete(ctx, p, "u1")

		assert.ErrorIs(t, err, ErrProjectNotFound)
		assert.Empty(t, d.pub.events)
	})
}
