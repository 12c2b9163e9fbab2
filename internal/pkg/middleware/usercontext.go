package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalPros/internal/pkg/session"
	"github.com/ManuelReschke/LocalPros/internal/pkg/usercontext"
)

// UserContextMiddleware decodes the session cookie once per request and
// stores the result for templates, guards and the page cache.
func UserContextMiddleware(c *fiber.Ctx) error {
	// Goth keeps its own state cookie on /auth/*.
	if strings.HasPrefix(c.Path(), "/auth/") {
		usercontext.Set(c, usercontext.UserContext{})
		return c.Next()
	}

	claims, err := session.FromRequest(c)
	if err != nil {
		if err != session.ErrNoSession {
			// Stale or tampered token.
			session.Logout(c)
		}
		usercontext.Set(c, usercontext.UserContext{})
		return c.Next()
	}

	usercontext.Set(c, usercontext.UserContext{
		UserID:     claims.UserID,
		Username:   claims.Name,
		Role:       claims.Role,
		IsLoggedIn: true,
		IsAdmin:    claims.IsAdmin(),
	})

	return c.Next()
}
