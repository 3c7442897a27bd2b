package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
	"nexuspro/internal/model"
	"nexuspro/internal/service"
	"nexuspro/internal/storage"
)

type MockAttachmentService struct {
	mock.Mock
}

func (m *MockAttachmentService) Upload(ctx context.Context, t *model.Task, uploaderID string, in service.UploadInput) (*model.Attachment, error) {
	args := m.Called(ctx, t, uploaderID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) List(ctx context.Context, taskID string) ([]model.Attachment, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) Get(ctx context.Context, t *model.Task, id string) (*model.Attachment, error) {
	args := m.Called(ctx, t, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) DownloadURL(ctx context.Context, a *model.Attachment) (string, error) {
	args := m.Called(ctx, a)
	return args.String(0), args.Error(1)
}

func (m *MockAttachmentService) Open(ctx context.Context, a *model.Attachment) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, storage.ObjectInfo{}, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockAttachmentService) Delete(ctx context.Context, p *model.Project, t *model.Task, actorID, id string) error {
	return m.Called(ctx, p, t, actorID, id).Error(0)
}
