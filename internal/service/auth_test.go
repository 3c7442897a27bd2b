package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nexuspro/internal/auth"
	"nexuspro/internal/mail"
	mailMocks "nexuspro/internal/mail/mocks"
	"nexuspro/internal/model"
	"nexuspro/internal/repository"
	repoMocks "nexuspro/internal/repository/mocks"
)

type authDeps struct {
	users  *repoMocks.MockUserRepository
	tokens *repoMocks.MockTokenRepository
	mailer *mailMocks.MockMailer
	jwt    *auth.JWTManager
}

func newAuthFixture(t *testing.T) (AuthService, authDeps) {
	t.Helper()
	jwt, err := auth.NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)
	d := authDeps{
		users:  new(repoMocks.MockUserRepository),
		tokens: new(repoMocks.MockTokenRepository),
		mailer: new(mailMocks.MockMailer),
		jwt:    jwt,
	}
	return NewAuthService(d.users, d.tokens, d.jwt, d.mailer, 10*time.Minute, zap.NewNop()), d
}

func (d authDeps) assert(t *testing.T) {
	d.users.AssertExpectations(t)
	d.tokens.AssertExpectations(t)
	d.mailer.AssertExpectations(t)
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := auth.HashPassword(plain)
	require.NoError(t, err)
	return h
}

// expectCode wires token creation and returns a pointer to the issued token.
func expectCode(d authDeps, userID string, purpose model.TokenPurpose) *model.Token {
	issued := &model.Token{}
	d.tokens.On("Create", mock.Anything, mock.MatchedBy(func(tk *model.Token) bool {
		return tk.UserID == userID && tk.Purpose == purpose && len(tk.Token) == 6 &&
			tk.ExpiresAt.Sub(tk.CreatedAt) == 10*time.Minute
	})).Return(func(_ context.Context, tk *model.Token) *model.Token {
		*issued = *tk
		return tk
	}, nil).Once()
	return issued
}

func TestAuthService_CreateAccount(t *testing.T) {
	ctx := context.Background()
	in := CreateAccountInput{Name: "Ana", Email: " Ana@Example.com", Password: "secret123"}

	t.Run("happy path sends confirmation", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		d.users.On("FindByEmail", ctx, "ana@example.com").Return(nil, sql.ErrNoRows)
		d.users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "ana@example.com" && !u.Confirmed && auth.CheckPassword("secret123", u.PasswordHash)
		})).Return(&model.User{ID: "u1", Name: "Ana", Email: "ana@example.com"}, nil)
		d.tokens.On("Create", ctx, mock.Anything).Return(&model.Token{Token: "123456", UserID: "u1"}, nil)
		d.mailer.On("SendConfirmation", ctx, mail.Recipient{Email: "ana@example.com", Name: "Ana", Token: "123456"}).Return(nil)

		u, err := svc.CreateAccount(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
		d.assert(t)
	})

	t.Run("email taken", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		d.users.On("FindByEmail", ctx, "ana@example.com").Return(&model.User{ID: "u0"}, nil)

		_, err := svc.CreateAccount(ctx, in)

		assert.ErrorIs(t, err, ErrEmailTaken)
		d.assert(t)
	})

	t.Run("unique violation on insert", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		d.users.On("FindByEmail", ctx, "ana@example.com").Return(nil, sql.ErrNoRows)
		d.users.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)

		_, err := svc.CreateAccount(ctx, in)

		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("mail failure does not fail registration", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		d.users.On("FindByEmail", ctx, "ana@example.com").Return(nil, sql.ErrNoRows)
		d.users.On("Create", ctx, mock.Anything).Return(&model.User{ID: "u1", Email: "ana@example.com"}, nil)
		d.tokens.On("Create", ctx, mock.Anything).Return(&model.Token{Token: "123456"}, nil)
		d.mailer.On("SendConfirmation", ctx, mock.Anything).Return(errors.New("smtp down"))

		_, err := svc.CreateAccount(ctx, in)

		assert.NoError(t, err)
	})

	t.Run("lookup error", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		d.users.On("FindByEmail", ctx, "ana@example.com").Return(nil, errors.New("db fail"))

		_, err := svc.CreateAccount(ctx, in)

		assert.EqualError(t, err, "db fail")
	})
}

func TestAuthService_ConfirmAccount(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		token   string
		setup   func(d authDeps)
		wantErr error
	}{
		{
			name:  "valid token",
			token: "123456",
			setup: func(d authDeps) {
				d.tokens.On("FindValid", ctx, "123456", model.TokenConfirmAccount, mock.AnythingOfType("time.Time")).
					Return(&model.Token{ID: "tk1", UserID: "u1"}, nil)
				d.users.On("Confirm", ctx, "u1", "tk1").Return(nil)
			},
		},
		{
			name:  "unknown or expired token",
			token: "000000",
			setup: func(d authDeps) {
				d.tokens.On("FindValid", ctx, "000000", model.TokenConfirmAccount, mock.AnythingOfType("time.Time")).
					Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrInvalidToken,
		},
		{
			name:    "empty token",
			setup:   func(d authDeps) {},
			wantErr: ErrInvalidToken,
		},
		{
			name:  "token consumed concurrently",
			token: "123456",
			setup: func(d authDeps) {
				d.tokens.On("FindValid", ctx, "123456", model.TokenConfirmAccount, mock.AnythingOfType("time.Time")).
					Return(&model.Token{ID: "tk1", UserID: "u1"}, nil)
				d.users.On("Confirm", ctx, "u1", "tk1").Return(sql.ErrNoRows)
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newAuthFixture(t)
			tt.setup(d)

			err := svc.ConfirmAccount(ctx, tt.token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			d.assert(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash := mustHash(t, "secret123")

	t.Run("returns a jwt for the user", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		d.users.On("FindByEmail", ctx, "ana@example.com").
			Return(&model.User{ID: "u1", Confirmed: true, PasswordHash: hash}, nil)

		tok, err := svc.Login(ctx, "ana@example.com", "secret123")

		require.NoError(t, err)
		userID, err := d.jwt.Parse(tok)
		require.NoError(t, err)
		assert.Equal(t, "u1", userID)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		d.users.On("FindByEmail", ctx, "nobody@example.com").Return(nil, sql.ErrNoRows)

		_, err := svc.Login(ctx, "nobody@example.com", "x")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("unconfirmed user gets a new code", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		user := &model.User{ID: "u1", Name: "Ana", Email: "ana@example.com", PasswordHash: hash}
		d.users.On("FindByEmail", ctx, "ana@example.com").Return(user, nil)
		issued := expectCode(d, "u1", model.TokenConfirmAccount)
		d.mailer.On("SendConfirmation", ctx, mock.MatchedBy(func(r mail.Recipient) bool {
			return r.Email == "ana@example.com" && r.Token == issued.Token
		})).Return(nil)

		_, err := svc.Login(ctx, "ana@example.com", "secret123")

		assert.ErrorIs(t, err, ErrAccountUnconfirmed)
		d.assert(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		d.users.On("FindByEmail", ctx, "ana@example.com").
			Return(&model.User{ID: "u1", Confirmed: true, PasswordHash: hash}, nil)

		_, err := svc.Login(ctx, "ana@example.com", "wrong")

		assert.ErrorIs(t, err, ErrInvalidPassword)
	})
}

func TestAuthService_RequestConfirmationCode(t *testing.T) {
	ctx := context.Background()

	t.Run("unconfirmed", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		d.users.On("FindByEmail", ctx, "ana@example.com").Return(&model.User{ID: "u1", Email: "ana@example.com"}, nil)
		expectCode(d, "u1", model.TokenConfirmAccount)
		d.mailer.On("SendConfirmation", ctx, mock.Anything).Return(nil)

		assert.NoError(t, svc.RequestConfirmationCode(ctx, "ana@example.com"))
		d.assert(t)
	})

	t.Run("already confirmed", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		d.users.On("FindByEmail", ctx, "ana@example.com").Return(&model.User{ID: "u1", Confirmed: true}, nil)

		assert.ErrorIs(t, svc.RequestConfirmationCode(ctx, "ana@example.com"), ErrAlreadyConfirmed)
		d.assert(t)
	})

	t.Run("unknown", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		d.users.On("FindByEmail", ctx, "x@example.com").Return(nil, sql.ErrNoRows)

		assert.ErrorIs(t, svc.RequestConfirmationCode(ctx, "x@example.com"), ErrUserNotFound)
	})
}

func TestAuthService_PasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("forgot password issues reset code", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		d.users.On("FindByEmail", ctx, "ana@example.com").Return(&model.User{ID: "u1", Email: "ana@example.com", Confirmed: true}, nil)
		expectCode(d, "u1", model.TokenResetPassword)
		d.mailer.On("SendPasswordReset", ctx, mock.Anything).Return(nil)

		assert.NoError(t, svc.ForgotPassword(ctx, "ana@example.com"))
		d.assert(t)
	})

	t.Run("validate token only accepts reset codes", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		d.tokens.On("FindValid", ctx, "123456", model.TokenResetPassword, mock.AnythingOfType("time.Time")).
			Return(nil, sql.ErrNoRows)

		assert.ErrorIs(t, svc.ValidateToken(ctx, "123456"), ErrInvalidToken)
		d.assert(t)
	})

	t.Run("update password with token", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		d.tokens.On("FindValid", ctx, "654321", model.TokenResetPassword, mock.AnythingOfType("time.Time")).
			Return(&model.Token{ID: "tk9", UserID: "u1"}, nil)
		d.users.On("ResetPassword", ctx, "u1", mock.MatchedBy(func(hash string) bool {
			return auth.CheckPassword("newpassword", hash)
		}), "tk9").Return(nil)

		assert.NoError(t, svc.UpdatePasswordWithToken(ctx, "654321", "newpassword"))
		d.assert(t)
	})

	t.Run("update password with bad token", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		d.tokens.On("FindValid", ctx, "111111", model.TokenResetPassword, mock.AnythingOfType("time.Time")).
			Return(nil, sql.ErrNoRows)

		assert.ErrorIs(t, svc.UpdatePasswordWithToken(ctx, "111111", "newpassword"), ErrInvalidToken)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		tok, err := d.jwt.Generate("u1")
		require.NoError(t, err)
		d.users.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1"}, nil)

		u, err := svc.Authenticate(ctx, tok)

		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		_, err := svc.Authenticate(ctx, "not-a-jwt")

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("user deleted", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		tok, err := d.jwt.Generate("gone")
		require.NoError(t, err)
		d.users.On("FindByID", ctx, "gone").Return(nil, sql.ErrNoRows)

		_, err = svc.Authenticate(ctx, tok)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		setup   func(d authDeps)
		wantErr error
	}{
		{
			name: "new email",
			setup: func(d authDeps) {
				d.users.On("FindByEmail", ctx, "new@example.com").Return(nil, sql.ErrNoRows)
				d.users.On("UpdateProfile", ctx, "u1", "Ana", "new@example.com").Return(nil)
			},
		},
		{
			name: "own email",
			setup: func(d authDeps) {
				d.users.On("FindByEmail", ctx, "new@example.com").Return(&model.User{ID: "u1"}, nil)
				d.users.On("UpdateProfile", ctx, "u1", "Ana", "new@example.com").Return(nil)
			},
		},
		{
			name: "email of another user",
			setup: func(d authDeps) {
				d.users.On("FindByEmail", ctx, "new@example.com").Return(&model.User{ID: "u2"}, nil)
			},
			wantErr: ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newAuthFixture(t)
			tt.setup(d)

			err := svc.UpdateProfile(ctx, "u1", "Ana", "New@example.com")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			d.assert(t)
		})
	}
}

func TestAuthService_CurrentUserPassword(t *testing.T) {
	ctx := context.Background()
	hash := mustHash(t, "current123")

	t.Run("check password", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		d.users.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", PasswordHash: hash}, nil)

		assert.NoError(t, svc.CheckPassword(ctx, "u1", "current123"))
		assert.ErrorIs(t, svc.CheckPassword(ctx, "u1", "nope"), ErrInvalidPassword)
	})

	t.Run("update requires current password", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		d.users.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", PasswordHash: hash}, nil)

		err := svc.UpdateCurrentUserPassword(ctx, "u1", "wrong", "newpassword")

		assert.ErrorIs(t, err, ErrInvalidPassword)
		d.users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("update stores new hash", func(t *testing.T) {
		svc, d := newAuthFixture(t)
		d.users.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", PasswordHash: hash}, nil)
		d.users.On("UpdatePassword", ctx, "u1", mock.MatchedBy(func(h string) bool {
			return auth.CheckPassword("newpassword", h)
		})).Return(nil)

		assert.NoError(t, svc.UpdateCurrentUserPassword(ctx, "u1", "current123", "newpassword"))
		d.assert(t)
	})
}
