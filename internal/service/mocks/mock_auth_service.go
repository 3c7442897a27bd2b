package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"nexuspro/internal/model"
	"nexuspro/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) CreateAccount(ctx context.Context, in service.CreateAccountInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) ConfirmAccount(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) RequestConfirmationCode(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthService) UpdatePasswordWithToken(ctx context.Context, token, password string) error {
	return m.Called(ctx, token, password).Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, jwt string) (*model.User, error) {
	args := m.Called(ctx, jwt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID, name, email string) error {
	return m.Called(ctx, userID, name, email).Error(0)
}

func (m *MockAuthService) UpdateCurrentUserPassword(ctx context.Context, userID, currentPassword, password string) error {
	return m.Called(ctx, userID, currentPassword, password).Error(0)
}

func (m *MockAuthService) CheckPassword(ctx context.Context, userID, password string) error {
	return m.Called(ctx, userID, password).Error(0)
}
