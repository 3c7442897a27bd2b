package repository

import (
	"context"

	"nexuspro/internal/model"
)

// UserRepository defines persistence for accounts.
type UserRepository interface {
	// Create inserts a new user. Returns ErrDuplicate if the email is taken.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// UpdateProfile changes name and email. Returns ErrDuplicate if the email is taken.
	UpdateProfile(ctx context.Context, id, name, email string) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// Confirm marks the user confirmed and deletes the consumed token in one transaction.
	Confirm(ctx context.Context, userID, tokenID string) error

	// ResetPassword replaces the password hash and deletes the consumed token in one transaction.
	ResetPassword(ctx context.Context, userID, passwordHash, tokenID string) error
}
