// Package imagehost turns stored image references into public URLs.
package imagehost

import (
	"fmt"
	"strings"

	"github.com/ManuelReschke/LocalPros/internal/pkg/env"
)

const (
	DefaultDomain = "res.cloudinary.com"

	PlaceholderHero = "/img/placeholder-hero.jpg"
	PlaceholderLogo = "/img/placeholder-logo.png"
)

// Resolver builds delivery URLs for an image CDN account. A zero Account
// disables CDN URLs so raw URLs and placeholders are used instead.
type Resolver struct {
	Domain  string
	Account string
}

func NewFromEnv() Resolver {
	return Resolver{
		Domain:  env.GetEnv("IMAGE_HOST_DOMAIN", DefaultDomain),
		Account: env.GetEnv("IMAGE_HOST_ACCOUNT", ""),
	}
}

func (r Resolver) Enabled() bool {
	return strings.TrimSpace(r.Account) != ""
}

// TransformURL returns the auto-format, auto-quality delivery URL for a
// public id, or "" when the account is not configured or the id is blank.
func (r Resolver) TransformURL(publicID string) string {
	publicID = strings.Trim(strings.TrimSpace(publicID), "/")
	if !r.Enabled() || publicID == "" {
		return ""
	}
	domain := strings.TrimSpace(r.Domain)
	if domain == "" {
		domain = DefaultDomain
	}
	return fmt.Sprintf("https://%s/%s/image/upload/f_auto,q_auto/%s", domain, strings.TrimSpace(r.Account), publicID)
}

// Resolve applies the fallback chain: CDN URL from the public id, then the
// raw URL, then the placeholder.
func (r Resolver) Resolve(publicID, rawURL, placeholder string) string {
	if u := r.TransformURL(publicID); u != "" {
		return u
	}
	if u := strings.TrimSpace(rawURL); u != "" {
		return u
	}
	return placeholder
}
