package oauth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/ManuelReschke/LocalPros/internal/pkg/cache"
	"github.com/ManuelReschke/LocalPros/internal/pkg/env"
)

const ProviderGoogle = "google"

// Enabled reports whether Google sign-in is configured.
func Enabled() bool {
	return env.GetEnv("GOOGLE_KEY", "") != "" && env.GetEnv("GOOGLE_SECRET", "") != ""
}

// CallbackURL returns the absolute callback for a provider.
func CallbackURL(provider string) string {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	if base == "" {
		base = "http://localhost:" + env.GetEnv("APP_PORT", "4000")
	}
	return base + "/auth/" + provider + "/callback"
}

// Setup registers the Google provider and keeps OAuth state in the cache
// server. It is a no-op when Google credentials are missing.
func Setup() bool {
	if !Enabled() {
		return false
	}

	goth.UseProviders(
		google.New(
			env.GetEnv("GOOGLE_KEY", ""),
			env.GetEnv("GOOGLE_SECRET", ""),
			CallbackURL(ProviderGoogle),
			"email", "profile",
		),
	)

	gothfiber.SessionStore = session.New(session.Config{
		Storage:        cache.NewFiberStorage(cache.DBOAuth),
		KeyLookup:      "cookie:" + gothic.SessionName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     time.Hour,
	})
	return true
}
