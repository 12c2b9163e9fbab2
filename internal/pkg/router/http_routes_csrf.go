package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ManuelReschke/LocalPros/app/controllers"
	"github.com/ManuelReschke/LocalPros/internal/pkg/cache"
	"github.com/ManuelReschke/LocalPros/internal/pkg/env"
	"github.com/ManuelReschke/LocalPros/internal/pkg/middleware"
)

const (
	leadLimit       = 5
	leadLimitWindow = 10 * time.Minute
)

func csrfProtection() fiber.Handler {
	return csrf.New(csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	})
}

// leadLimiter throttles the contact and claim forms per client IP. Counts
// live in the cache server so they hold across instances.
func leadLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        leadLimit,
		Expiration: leadLimitWindow,
		Storage:    cache.NewFiberStorage(cache.DBLimiter),
		KeyGenerator: func(c *fiber.Ctx) string {
			return "lead:" + controllers.GetClientIP(c)
		},
		LimitReached: controllers.HandleLeadRateLimited,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() != fiber.MethodPost
		},
	})
}

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	group := app.Group("", csrfProtection())

	// Lead capture
	lc := h.ctrl.Lead
	limit := leadLimiter()
	group.Get("/contact", lc.HandleContact)
	group.Post("/contact", limit, lc.HandleContactPost)
	group.Post("/:city/services/:service/claim", limit, lc.HandleClaimPost)

	// Admin sign-in
	group.Get("/login", middleware.RequireGuest, h.ctrl.Auth.HandleAuthLogin)
	group.Post("/login", middleware.RequireGuest, h.ctrl.Auth.HandleAuthLoginPost)
}
