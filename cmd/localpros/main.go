package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/ManuelReschke/LocalPros/app/controllers"
	"github.com/ManuelReschke/LocalPros/app/repository"
	"github.com/ManuelReschke/LocalPros/internal/pkg/cache"
	"github.com/ManuelReschke/LocalPros/internal/pkg/database"
	"github.com/ManuelReschke/LocalPros/internal/pkg/env"
	"github.com/ManuelReschke/LocalPros/internal/pkg/hcaptcha"
	"github.com/ManuelReschke/LocalPros/internal/pkg/imagehost"
	"github.com/ManuelReschke/LocalPros/internal/pkg/imagestore"
	"github.com/ManuelReschke/LocalPros/internal/pkg/mail"
	"github.com/ManuelReschke/LocalPros/internal/pkg/pagecache"
	"github.com/ManuelReschke/LocalPros/internal/pkg/router"
)

const (
	defaultPageCacheTTL = 300 // seconds
	uploadBodyLimit     = 12 * 1024 * 1024
	shutdownTimeout     = 10 * time.Second
)

// leadNotifier is drained on shutdown.
var leadNotifier *mail.LeadNotifier

func main() {
	app := NewApplication()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	pagecache.Default().Wait()
	leadNotifier.Wait()
	if err != nil {
		log.Fatal(err)
	}
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	ttl := time.Duration(env.GetEnvInt("PAGE_CACHE_TTL_SECONDS", defaultPageCacheTTL)) * time.Second
	pagecache.SetDefault(pagecache.New(pagecache.RedisStore{Client: cache.GetClient()}, ttl))

	leadNotifier = mail.NewLeadNotifierFromEnv()
	controllers.InitializeControllers(controllers.Dependencies{
		Images:   imagehost.NewFromEnv(),
		Uploader: setupUploader(),
		Captcha:  hcaptcha.NewFromEnv(),
		Notifier: leadNotifier,
	})

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/localpros to project root
		"../../../", // Fallback
	}

	// Find the correct base path
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "views"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		Views:        html.New(basePath+"views", ".html"),
		BodyLimit:    uploadBodyLimit,
		ErrorHandler: controllers.ErrorHandler,
	})

	// ignore and cache favicon
	app.Use(favicon.New(favicon.Config{
		File:         basePath + "public/assets/icons/favicon.ico",
		URL:          "/favicon.ico",
		CacheControl: "public, max-age=604800",
	}))

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "change-me"),
		},
	}), monitor.New())

	// static files
	app.Static("/", basePath+"public/assets", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app
}

// setupUploader returns nil when uploads are disabled or the bucket is
// unreachable; the company form then only offers URL fields.
func setupUploader() imagestore.Uploader {
	cfg, err := imagestore.LoadConfig()
	if err != nil {
		log.Printf("Image uploads disabled: %v", err)
		return nil
	}
	if !cfg.IsEnabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	client, err := imagestore.NewClient(ctx, cfg)
	if err != nil {
		log.Printf("Image uploads disabled: %v", err)
		return nil
	}
	return client
}
