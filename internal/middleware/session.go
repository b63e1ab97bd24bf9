package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ledgerfile/ledgerfile/internal/auth"
)

// SessionAuth resolves the bearer token to a live ledger session and stores
// both in request locals. Requests without a valid session are rejected;
// nothing below this middleware runs anonymously.
func SessionAuth(manager *auth.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		token := strings.TrimSpace(authz[len("Bearer "):])

		session, ok := manager.Lookup(token)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, "invalid or expired session")
		}

		c.Locals(auth.SessionContextKey, session)
		c.Locals(auth.SessionTokenKey, token)
		return c.Next()
	}
}
