package repository

import (
	"context"
	"time"

	"nexuspro/internal/model"
)

// TokenRepository stores one-time codes.
type TokenRepository interface {
	Create(ctx context.Context, t *model.Token) (*model.Token, error)

	// FindValid returns the newest unexpired token with the given code and purpose.
	FindValid(ctx context.Context, token string, purpose model.TokenPurpose, now time.Time) (*model.Token, error)

	// DeleteExpired removes tokens that expired before now and reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
