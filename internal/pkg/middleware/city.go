package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalPros/internal/pkg/citycontext"
	"github.com/ManuelReschke/LocalPros/internal/pkg/env"
)

// ResolveCity runs the city precedence chain and exposes the result through
// the X-Resolved-City request header and c.Locals. A ?city= choice is
// remembered in the preferred-city cookie.
func ResolveCity(c *fiber.Ctx) error {
	res := citycontext.Resolve(citycontext.Input{
		Query:   c.Query(citycontext.QueryParam),
		Cookie:  c.Cookies(citycontext.CookieName),
		Path:    c.Path(),
		Default: citycontext.DefaultSlug(),
	})

	if res.PersistCookie {
		c.Cookie(&fiber.Cookie{
			Name:     citycontext.CookieName,
			Value:    res.Slug,
			Path:     "/",
			MaxAge:   citycontext.CookieMaxAge,
			HTTPOnly: false,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   !env.IsDev(),
		})
	}

	c.Request().Header.Set(citycontext.HeaderName, res.Slug)
	c.Locals(citycontext.LocalsKey, res.Slug)

	return c.Next()
}
