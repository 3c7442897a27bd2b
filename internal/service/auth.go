package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nexuspro/internal/auth"
	"nexuspro/internal/mail"
	"nexuspro/internal/model"
	"nexuspro/internal/repository"
)

// CreateAccountInput is the registration form after validation.
type CreateAccountInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService covers registration, confirmation, login and password management.
type AuthService interface {
	// CreateAccount registers an unconfirmed user and mails a confirmation code.
	CreateAccount(ctx context.Context, in CreateAccountInput) (*model.User, error)
	ConfirmAccount(ctx context.Context, token string) error

	// Login returns a signed JWT. Unconfirmed users get a fresh code and ErrAccountUnconfirmed.
	Login(ctx context.Context, email, password string) (string, error)

	RequestConfirmationCode(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ValidateToken(ctx context.Context, token string) error
	UpdatePasswordWithToken(ctx context.Context, token, password string) error

	// Authenticate resolves a bearer JWT to its user.
	Authenticate(ctx context.Context, jwt string) (*model.User, error)

	UpdateProfile(ctx context.Context, userID, name, email string) error
	UpdateCurrentUserPassword(ctx context.Context, userID, currentPassword, password string) error
	CheckPassword(ctx context.Context, userID, password string) error
}

type tokenIssuer interface {
	Generate(userID string) (string, error)
	Parse(token string) (string, error)
}

type authService struct {
	users    repository.UserRepository
	tokens   repository.TokenRepository
	jwt      tokenIssuer
	mailer   mail.Mailer
	tokenTTL time.Duration
	log      *zap.Logger
	now      func() time.Time
}

// NewAuthService constructs the AuthService. tokenTTL bounds the life of mailed codes.
func NewAuthService(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	jwt tokenIssuer,
	mailer mail.Mailer,
	tokenTTL time.Duration,
	log *zap.Logger,
) AuthService {
	return &authService{
		users:    users,
		tokens:   tokens,
		jwt:      jwt,
		mailer:   mailer,
		tokenTTL: tokenTTL,
		log:      log.With(zap.String("component", "auth")),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *authService) CreateAccount(ctx context.Context, in CreateAccountInput) (*model.User, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if err = notFound(err, nil); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user, err := s.users.Create(ctx, &model.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.sendCode(ctx, user, model.TokenConfirmAccount); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) ConfirmAccount(ctx context.Context, token string) error {
	t, err := s.findToken(ctx, token, model.TokenConfirmAccount)
	if err != nil {
		return err
	}
	if err := s.users.Confirm(ctx, t.UserID, t.ID); err != nil {
		return notFound(err, ErrInvalidToken)
	}
	s.log.Info("account_confirmed", zap.String("user_id", t.UserID))
	return nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", notFound(err, ErrUserNotFound)
	}

	if !user.Confirmed {
		if err := s.sendCode(ctx, user, model.TokenConfirmAccount); err != nil {
			return "", err
		}
		return "", ErrAccountUnconfirmed
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", ErrInvalidPassword
	}
	return s.jwt.Generate(user.ID)
}

func (s *authService) RequestConfirmationCode(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if user.Confirmed {
		return ErrAlreadyConfirmed
	}
	return s.sendCode(ctx, user, model.TokenConfirmAccount)
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	return s.sendCode(ctx, user, model.TokenResetPassword)
}

func (s *authService) ValidateToken(ctx context.Context, token string) error {
	_, err := s.findToken(ctx, token, model.TokenResetPassword)
	return err
}

func (s *authService) UpdatePasswordWithToken(ctx context.Context, token, password string) error {
	t, err := s.findToken(ctx, token, model.TokenResetPassword)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.ResetPassword(ctx, t.UserID, hash, t.ID); err != nil {
		return notFound(err, ErrInvalidToken)
	}
	s.log.Info("password_reset", zap.String("user_id", t.UserID))
	return nil
}

func (s *authService) Authenticate(ctx context.Context, jwt string) (*model.User, error) {
	userID, err := s.jwt.Parse(jwt)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrInvalidToken)
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID, name, email string) error {
	email = normalizeEmail(email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing.ID != userID {
		return ErrEmailTaken
	}
	if err = notFound(err, nil); err != nil {
		return err
	}

	if err := s.users.UpdateProfile(ctx, userID, name, email); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrEmailTaken
		}
		return notFound(err, ErrUserNotFound)
	}
	return nil
}

func (s *authService) UpdateCurrentUserPassword(ctx context.Context, userID, currentPassword, password string) error {
	if err := s.CheckPassword(ctx, userID, currentPassword); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return notFound(s.users.UpdatePassword(ctx, userID, hash), ErrUserNotFound)
}

func (s *authService) CheckPassword(ctx context.Context, userID, password string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return ErrInvalidPassword
	}
	return nil
}

func (s *authService) findToken(ctx context.Context, token string, purpose model.TokenPurpose) (*model.Token, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	t, err := s.tokens.FindValid(ctx, token, purpose, s.now())
	if err != nil {
		return nil, notFound(err, ErrInvalidToken)
	}
	return t, nil
}

// sendCode stores a fresh code for user and mails it. Mail failures are logged only.
func (s *authService) sendCode(ctx context.Context, user *model.User, purpose model.TokenPurpose) error {
	code, err := auth.GenerateCode()
	if err != nil {
		return err
	}
	now := s.now()
	t, err := s.tokens.Create(ctx, &model.Token{
		ID:        uuid.New().String(),
		Token:     code,
		UserID:    user.ID,
		Purpose:   purpose,
		ExpiresAt: now.Add(s.tokenTTL),
		CreatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("create token: %w", err)
	}

	r := mail.Recipient{Email: user.Email, Name: user.Name, Token: t.Token}
	if purpose == model.TokenResetPassword {
		err = s.mailer.SendPasswordReset(ctx, r)
	} else {
		err = s.mailer.SendConfirmation(ctx, r)
	}
	if err != nil {
		s.log.Warn("mail_failed",
			zap.String("user_id", user.ID),
			zap.String("purpose", string(purpose)),
			zap.Error(err),
		)
	}
	return nil
}
