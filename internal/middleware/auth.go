package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/sidedish/internal/apperr"
	"github.com/example/sidedish/internal/utils"
)

const userContextKey = "currentUser"

// TokenVerifier validates a session token.
type TokenVerifier interface {
	Verify(token string) (*utils.SessionClaims, error)
}

// AuthMiddleware validates the bearer token and stores its claims in the
// request context.
func AuthMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperr.Auth("unauthorized")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return apperr.Auth("unauthorized")
		}

		claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			return err
		}

		c.Locals(userContextKey, claims)
		return c.Next()
	}
}

// GetCurrentUser returns the claims stored by AuthMiddleware.
func GetCurrentUser(c *fiber.Ctx) (*utils.SessionClaims, bool) {
	claims, ok := c.Locals(userContextKey).(*utils.SessionClaims)
	return claims, ok && claims != nil
}
