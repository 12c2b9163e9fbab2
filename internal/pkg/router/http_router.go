package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LocalPros/app/controllers"
	"github.com/ManuelReschke/LocalPros/internal/pkg/middleware"
	"github.com/ManuelReschke/LocalPros/internal/pkg/oauth"
	"github.com/ManuelReschke/LocalPros/internal/pkg/pagecache"
)

type HttpRouter struct {
	ctrl *controllers.Controllers
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init oauth providers
	if oauth.Setup() {
		log.Info("[Router] Google sign-in enabled")
	}

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.register(app)
}

// register mounts the route groups. Admin goes first: fiber matches in
// registration order and /admin/services would otherwise hit the public
// /:city/services route.
func (h HttpRouter) register(app *fiber.App) {
	h.registerAdminRoutes(app)
	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{ctrl: controllers.Get()}
}

// cityPages resolves the city and serves the page cache, in that order;
// the cache key depends on the resolved city.
func cityPages() []fiber.Handler {
	return []fiber.Handler{middleware.ResolveCity, pagecache.Default().Middleware()}
}
