package handler

import (
	"github.com/gofiber/fiber/v2"

	"nexuspro/internal/http/middleware"
	"nexuspro/internal/service"
)

type createAccountRequest struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type tokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type newPasswordRequest struct {
	Password             string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type profileRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type updatePasswordRequest struct {
	CurrentPassword      string `json:"current_password" validate:"required"`
	Password             string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type checkPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// CreateAccount registers a user and mails the confirmation code.
//
//	@Summary	Create account
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		createAccountRequest	true	"New account"
//	@Success	201		{object}	messageResponse
//	@Failure	400		{object}	middleware.ErrorPayload
//	@Failure	409		{object}	middleware.ErrorPayload
//	@Router		/api/auth/create-account [post]
func CreateAccount(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createAccountRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		_, err := svc.CreateAccount(c.UserContext(), service.CreateAccountInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			return respondError(c, err)
		}
		return message(c, fiber.StatusCreated, "account created, check your email to confirm it")
	}
}

// ConfirmAccount consumes a confirmation code.
//
//	@Summary	Confirm account
//	@Tags		auth
//	@Param		body	body		tokenRequest	true	"Code"
//	@Success	200		{object}	messageResponse
//	@Failure	404		{object}	middleware.ErrorPayload
//	@Router		/api/auth/confirm-account [post]
func ConfirmAccount(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tokenRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := svc.ConfirmAccount(c.UserContext(), req.Token); err != nil {
			return respondError(c, err)
		}
		return message(c, fiber.StatusOK, "account confirmed")
	}
}

// Login returns the session JWT as plain text.
//
//	@Summary	Log in
//	@Tags		auth
//	@Accept		json
//	@Produce	plain
//	@Param		body	body		loginRequest	true	"Credentials"
//	@Success	200		{string}	string			"JWT"
//	@Failure	401		{object}	middleware.ErrorPayload
//	@Failure	404		{object}	middleware.ErrorPayload
//	@Router		/api/auth/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		token, err := svc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return respondError(c, err)
		}
		c.Type("txt")
		return c.SendString(token)
	}
}

// RequestCode mails a fresh confirmation code.
//
//	@Summary	Request confirmation code
//	@Tags		auth
//	@Param		body	body		emailRequest	true	"Email"
//	@Success	200		{object}	messageResponse
//	@Router		/api/auth/request-code [post]
func RequestCode(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req emailRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := svc.RequestConfirmationCode(c.UserContext(), req.Email); err != nil {
			return respondError(c, err)
		}
		return message(c, fiber.StatusOK, "a new code was sent to your email")
	}
}

// ForgotPassword mails a password reset code.
//
//	@Summary	Forgot password
//	@Tags		auth
//	@Param		body	body		emailRequest	true	"Email"
//	@Success	200		{object}	messageResponse
//	@Router		/api/auth/forgot-password [post]
func ForgotPassword(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req emailRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := svc.ForgotPassword(c.UserContext(), req.Email); err != nil {
			return respondError(c, err)
		}
		return message(c, fiber.StatusOK, "check your email for instructions")
	}
}

// ValidateToken checks a reset code without consuming it.
//
//	@Summary	Validate reset code
//	@Tags		auth
//	@Param		body	body		tokenRequest	true	"Code"
//	@Success	200		{object}	messageResponse
//	@Router		/api/auth/validate-token [post]
func ValidateToken(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tokenRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := svc.ValidateToken(c.UserContext(), req.Token); err != nil {
			return respondError(c, err)
		}
		return message(c, fiber.StatusOK, "valid token, set your new password")
	}
}

// UpdatePasswordWithToken sets a new password using a reset code from the path.
//
//	@Summary	Reset password
//	@Tags		auth
//	@Param		token	path		string				true	"Reset code"
//	@Param		body	body		newPasswordRequest	true	"New password"
//	@Success	200		{object}	messageResponse
//	@Router		/api/auth/update-password/{token} [post]
func UpdatePasswordWithToken(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req newPasswordRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := svc.UpdatePasswordWithToken(c.UserContext(), c.Params("token"), req.Password); err != nil {
			return respondError(c, err)
		}
		return message(c, fiber.StatusOK, "password updated")
	}
}

// CurrentUser returns the authenticated user's public profile.
//
//	@Summary	Current user
//	@Tags		auth
//	@Security	BearerAuth
//	@Success	200	{object}	model.UserSummary
//	@Router		/api/auth/user [get]
func CurrentUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(middleware.CurrentUser(c).Summary())
	}
}

// UpdateProfile changes the current user's name and email.
//
//	@Summary	Update profile
//	@Tags		auth
//	@Security	BearerAuth
//	@Param		body	body		profileRequest	true	"Profile"
//	@Success	200		{object}	messageResponse
//	@Failure	409		{object}	middleware.ErrorPayload
//	@Router		/api/auth/profile [put]
func UpdateProfile(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req profileRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := svc.UpdateProfile(c.UserContext(), currentUserID(c), req.Name, req.Email); err != nil {
			return respondError(c, err)
		}
		return message(c, fiber.StatusOK, "profile updated")
	}
}

// UpdateCurrentUserPassword changes the password after checking the current one.
//
//	@Summary	Change password
//	@Tags		auth
//	@Security	BearerAuth
//	@Param		body	body		updatePasswordRequest	true	"Passwords"
//	@Success	200		{object}	messageResponse
//	@Failure	401		{object}	middleware.ErrorPayload
//	@Router		/api/auth/update-password [post]
func UpdateCurrentUserPassword(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updatePasswordRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := svc.UpdateCurrentUserPassword(c.UserContext(), currentUserID(c), req.CurrentPassword, req.Password); err != nil {
			return respondError(c, err)
		}
		return message(c, fiber.StatusOK, "password updated")
	}
}

// CheckPassword confirms the current user's password.
//
//	@Summary	Check password
//	@Tags		auth
//	@Security	BearerAuth
//	@Param		body	body		checkPasswordRequest	true	"Password"
//	@Success	200		{object}	messageResponse
//	@Failure	401		{object}	middleware.ErrorPayload
//	@Router		/api/auth/check-password [post]
func CheckPassword(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req checkPasswordRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := svc.CheckPassword(c.UserContext(), currentUserID(c), req.Password); err != nil {
			return respondError(c, err)
		}
		return message(c, fiber.StatusOK, "correct password")
	}
}
