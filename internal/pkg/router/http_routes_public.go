package router

import (
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	sc := h.ctrl.Service
	cached := cityPages()

	app.Get("/", append(cached, sc.HandleHome)...)

	// City-less entry points redirect to the resolved city
	app.Get("/services", append(cached, sc.HandleServicesRedirect)...)
	app.Get("/services/:service", append(cached, sc.HandleServicesRedirect)...)

	app.Get("/:city/services", append(cached, sc.HandleCityServices)...)
	app.Get("/:city/services/:service", append(cached, sc.HandleServiceDetail)...)

	// Blog, scoped to the resolved city
	app.Get("/blog", append(cached, h.ctrl.Blog.HandleBlogIndex)...)
	app.Get("/blog/:slug", append(cached, h.ctrl.Blog.HandleBlogShow)...)

	// Static pages
	app.Get("/page/:slug", append(cached, h.ctrl.Page.HandlePage)...)

	// Auth
	app.Post("/logout", h.ctrl.Auth.HandleAuthLogout)

	// Social OAuth, admins only
	app.Get("/auth/:provider", h.ctrl.OAuth.HandleOAuthBegin)
	app.Get("/auth/:provider/callback", h.ctrl.OAuth.HandleOAuthCallback)
}
