package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	gothfiber "github.com/shareed2k/goth_fiber"
	"github.com/sujit-baniya/flash"

	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/oauth"
	"github.com/ManuelReschke/LocalPros/internal/pkg/session"
)

// OAuthController signs existing admins in with Google. Unknown emails are
// refused; accounts are never created here.
type OAuthController struct {
	users repository.UserRepository
}

func NewOAuthController(repos *repository.Repositories) *OAuthController {
	return &OAuthController{users: repos.User}
}

func (oc *OAuthController) HandleOAuthBegin(c *fiber.Ctx) error {
	if !oauth.Enabled() {
		return fiber.ErrNotFound
	}
	return gothfiber.BeginAuthHandler(c)
}

func (oc *OAuthController) HandleOAuthCallback(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type":    "error",
		"message": "Google sign-in failed",
	}

	u, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		log.Warnf("[OAuth] completing %s flow: %v", c.Params("provider"), err)
		return flash.WithError(c, fm).Redirect("/login")
	}

	user, err := oc.users.GetByEmail(u.Email)
	if err != nil || !user.IsActive() || !user.IsAdmin() {
		log.Infof("[OAuth] refused sign-in for %q", u.Email)
		fm["message"] = "This Google account has no admin access"
		return flash.WithError(c, fm).Redirect("/login")
	}

	if err := session.Login(c, user); err != nil {
		log.Errorf("[OAuth] issuing session for user %d: %v", user.ID, err)
		return flash.WithError(c, fm).Redirect("/login")
	}
	_ = oc.users.TouchLastLogin(user.ID, time.Now())

	// Full redirect for HTMX boosted flows.
	c.Set("HX-Redirect", "/admin")
	return c.Redirect("/admin", fiber.StatusSeeOther)
}
