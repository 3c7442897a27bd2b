package postgres

import (
	"context"
	"database/sql"
	"time"

	"nexuspro/internal/model"
	"nexuspro/internal/repository"
)

// TokenPostgres is a PostgreSQL implementation of repository.TokenRepository.
type TokenPostgres struct {
	db *sql.DB
}

// NewTokenPostgres creates a new TokenPostgres repository.
func NewTokenPostgres(db *sql.DB) *TokenPostgres {
	return &TokenPostgres{db: db}
}

var _ repository.TokenRepository = (*TokenPostgres)(nil)

// Create inserts a token row and returns the stored record.
func (r *TokenPostgres) Create(ctx context.Context, t *model.Token) (*model.Token, error) {
	const q = `
		INSERT INTO tokens (id, token, user_id, purpose, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, token, user_id, purpose, expires_at, created_at
	`
	var out model.Token
	if err := r.db.QueryRowContext(ctx, q,
		t.ID,
		t.Token,
		t.UserID,
		t.Purpose,
		t.ExpiresAt,
		t.CreatedAt,
	).Scan(
		&out.ID,
		&out.Token,
		&out.UserID,
		&out.Purpose,
		&out.ExpiresAt,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindValid returns the newest matching token that has not expired at now.
func (r *TokenPostgres) FindValid(ctx context.Context, token string, purpose model.TokenPurpose, now time.Time) (*model.Token, error) {
	const q = `
		SELECT id, token, user_id, purpose, expires_at, created_at
		FROM tokens
		WHERE token = $1 AND purpose = $2 AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1
	`
	var t model.Token
	if err := r.db.QueryRowContext(ctx, q, token, purpose, now).Scan(
		&t.ID,
		&t.Token,
		&t.UserID,
		&t.Purpose,
		&t.ExpiresAt,
		&t.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteExpired removes every token whose expiry is not after now.
func (r *TokenPostgres) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
