package mocks

import (
	"context"

	"nexuspro/internal/mail"

	"github.com/stretchr/testify/mock"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendConfirmation(ctx context.Context, r mail.Recipient) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, r mail.Recipient) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
