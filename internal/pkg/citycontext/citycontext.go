// Package citycontext decides which city a request is viewing.
//
// Precedence, first match wins: the ?city= query parameter, the
// preferred-city cookie, the first path segment of /<city>/services URLs,
// and finally the configured default. The result is not checked against the
// city directory; loaders treat an unknown slug as "no city".
package citycontext

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalPros/internal/pkg/env"
)

const (
	CookieName = "preferred-city"
	QueryParam = "city"
	HeaderName = "X-Resolved-City"
	LocalsKey  = "resolved_city"

	// CookieMaxAge is one year in seconds.
	CookieMaxAge = 365 * 24 * 60 * 60

	FallbackSlug = "calgary"
)

type Source string

const (
	SourceQuery   Source = "query"
	SourceCookie  Source = "cookie"
	SourcePath    Source = "path"
	SourceDefault Source = "default"
)

type Input struct {
	Query   string
	Cookie  string
	Path    string
	Default string
}

type Resolution struct {
	Slug   string
	Source Source
	// PersistCookie is set when the slug came from the query parameter and
	// should be written back as the preferred-city cookie.
	PersistCookie bool
}

// Resolve is a pure function of its input.
func Resolve(in Input) Resolution {
	if q := normalize(in.Query); q != "" {
		return Resolution{Slug: q, Source: SourceQuery, PersistCookie: true}
	}
	if c := normalize(in.Cookie); c != "" {
		return Resolution{Slug: c, Source: SourceCookie}
	}
	if p := PathCity(in.Path); p != "" {
		return Resolution{Slug: p, Source: SourcePath}
	}
	def := normalize(in.Default)
	if def == "" {
		def = FallbackSlug
	}
	return Resolution{Slug: def, Source: SourceDefault}
}

// PathCity returns the lowercased first segment of a path shaped like
// /<segment>/services..., or "" when the path has another shape or the
// segment is not a usable slug.
func PathCity(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	// "", "<segment>", "services", ...
	if len(parts) < 3 || parts[0] != "" || parts[2] != "services" {
		return ""
	}
	seg := normalize(parts[1])
	if !validSegment(seg) {
		return ""
	}
	return seg
}

func validSegment(s string) bool {
	if s == "" || s == "services" || strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DefaultSlug is the configured fallback city.
func DefaultSlug() string {
	return normalize(env.GetEnv("DEFAULT_CITY_SLUG", FallbackSlug))
}

// FromCtx returns the slug stored by the resolver middleware, falling back
// to the request header and then "".
func FromCtx(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocalsKey).(string); ok && v != "" {
		return v
	}
	return normalize(c.Get(HeaderName))
}
