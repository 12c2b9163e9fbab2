package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ManuelReschke/LocalPros/app/controllers"
	"github.com/ManuelReschke/LocalPros/app/repository"
	apiv1 "github.com/ManuelReschke/LocalPros/internal/api/v1"
	"github.com/ManuelReschke/LocalPros/internal/pkg/cache"
	"github.com/ManuelReschke/LocalPros/internal/pkg/imagehost"
)

const (
	apiLimit       = 120
	apiLimitWindow = time.Minute
)

type ApiRouter struct {
	images imagehost.Resolver
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{images: imagehost.NewFromEnv()}
}

func apiLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        apiLimit,
		Expiration: apiLimitWindow,
		Storage:    cache.NewFiberStorage(cache.DBLimiter),
		KeyGenerator: func(c *fiber.Ctx) string {
			return "api:" + controllers.GetClientIP(c)
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(apiv1.Error{
				Error:   "rate_limited",
				Message: "Too many requests, slow down.",
			})
		},
	})
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", apiLimiter())
	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":     "LocalPros API",
			"versions": []string{"v1"},
			"docs":     "/docs/api/",
		})
	})

	apiServer := apiv1.NewAPIServer(repository.GetGlobalRepositories(), h.images)
	apiv1.RegisterHandlers(api.Group("/v1"), apiServer)
}
