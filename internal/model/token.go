package model

import "time"

// TokenPurpose scopes a one-time code to the flow that issued it.
type TokenPurpose string

const (
	TokenConfirmAccount TokenPurpose = "confirm_account"
	TokenResetPassword  TokenPurpose = "reset_password"
)

// Token is a short-lived numeric code mailed to a user.
type Token struct {
	ID        string
	Token     string
	UserID    string
	Purpose   TokenPurpose
	ExpiresAt time.Time
	CreatedAt time.Time
}
