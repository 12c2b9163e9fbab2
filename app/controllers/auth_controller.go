package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/oauth"
	"github.com/ManuelReschke/LocalPros/internal/pkg/session"
)

const loginFailedMessage = "There is a problem with the login process"

type AuthController struct {
	base
}

func NewAuthController(repos *repository.Repositories) *AuthController {
	return &AuthController{base: base{repos: repos}}
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/admin"
	}
	return next
}

func (ac *AuthController) HandleAuthLogin(c *fiber.Ctx) error {
	return ac.render(c, fiber.StatusOK, "public/login", "Sign in", fiber.Map{
		"Next":          safeNext(c.Query("next")),
		"GoogleEnabled": oauth.Enabled(),
	})
}

func (ac *AuthController) HandleAuthLoginPost(c *fiber.Ctx) error {
	next := safeNext(c.FormValue("next"))
	fm := fiber.Map{
		"type":    "error",
		"message": loginFailedMessage,
	}

	user, err := ac.repos.User.GetByEmail(c.FormValue("email"))
	if err != nil {
		if !isNotFound(err) {
			log.Errorf("[Auth] user lookup: %v", err)
		}
		return flash.WithError(c, fm).Redirect("/login?next=" + next)
	}
	if !user.IsActive() || !user.CheckPassword(c.FormValue("password")) {
		return flash.WithError(c, fm).Redirect("/login?next=" + next)
	}

	if err := session.Login(c, user); err != nil {
		log.Errorf("[Auth] issuing session for user %d: %v", user.ID, err)
		return flash.WithError(c, fm).Redirect("/login")
	}
	if err := ac.repos.User.TouchLastLogin(user.ID, time.Now()); err != nil {
		log.Warnf("[Auth] updating last login for user %d: %v", user.ID, err)
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "Welcome back, " + user.Name + "!",
	}
	return flash.WithSuccess(c, fm).Redirect(next)
}

func (ac *AuthController) HandleAuthLogout(c *fiber.Ctx) error {
	session.Logout(c)
	fm := fiber.Map{
		"type":    "success",
		"message": "You have been signed out.",
	}
	return flash.WithSuccess(c, fm).Redirect("/login")
}
