package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"nexuspro/internal/model"
)

// UserLocalKey is the Fiber locals key holding the authenticated *model.User.
const UserLocalKey = "user"

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// Authenticate requires an "Authorization: Bearer <jwt>" header and stores the
// resolved user under UserLocalKey.
func Authenticate(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return WriteError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "not authorized")
		}

		user, err := auth.Authenticate(c.UserContext(), token)
		if err != nil || user == nil {
			return WriteError(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "invalid token")
		}

		c.Locals(UserLocalKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by Authenticate, or nil.
func CurrentUser(c *fiber.Ctx) *model.User {
	u, _ := c.Locals(UserLocalKey).(*model.User)
	return u
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
