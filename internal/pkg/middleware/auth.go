package middleware

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalPros/internal/pkg/usercontext"
)

// RequireAdmin ensures a logged-in admin; everyone else is sent to /login.
func RequireAdmin(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if !uc.IsLoggedIn || !uc.IsAdmin {
		return c.Redirect("/login?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireGuest keeps signed-in users away from the login form.
func RequireGuest(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if uc.IsLoggedIn && uc.IsAdmin {
		return c.Redirect("/admin", fiber.StatusSeeOther)
	}
	return c.Next()
}
