package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/inklab/canvasdb/internal/config"
	"github.com/inklab/canvasdb/internal/database"
	"github.com/inklab/canvasdb/internal/handlers"
	"github.com/inklab/canvasdb/internal/middleware"
	"github.com/inklab/canvasdb/internal/services"
	"github.com/inklab/canvasdb/internal/types"

	_ "github.com/inklab/canvasdb/docs/api" // Swagger docs
)

// @title CanvasDB API
// @version 1.0.0
// @description Shared, versioned canvases with tag-scoped access control
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/inklab/canvasdb

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("canvasdb")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, db)
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	// Authorizer is initialized lazily from the first request's host so the
	// redirect URL matches whatever name the service is reached by.
	app.Use(func(c *fiber.Ctx) error {
		if !services.IsAuthorizerInitialized() {
			if err := services.InitAuthorizer(cfg, c.Protocol(), c.Hostname()); err != nil {
				log.Printf("Authorizer initialization failed: %v", err)
			}
		}
		return c.Next()
	})

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	canvasHandler := &handlers.CanvasHandler{DB: db}
	accessHandler := &handlers.AccessHandler{DB: db}
	tagHandler := &handlers.TagHandler{DB: db}
	userHandler := &handlers.UserHandler{DB: db}

	// Canvas routes (readById and readState are public)
	canvas := api.Group("/canvas")
	canvas.Post("/", middleware.AuthUser(), canvasHandler.CreateCanvas)
	canvas.Get("/", middleware.AuthUser(), canvasHandler.ReadAllCanvases)

	// Bulk access-by-tag routes before the :id routes
	canvas.Put("/access/tag", middleware.AuthUser(), accessHandler.GiveAccessByTag)
	canvas.Delete("/access/tag", middleware.AuthUser(), accessHandler.CancelAccessByTag)

	canvas.Get("/:id", canvasHandler.ReadCanvasByID)
	canvas.Patch("/:id", middleware.AuthUser(), canvasHandler.UpdateCanvasMetadata)
	canvas.Delete("/:id", middleware.AuthUser(), canvasHandler.DeleteCanvas)
	canvas.Post("/:id/state", middleware.AuthUser(), canvasHandler.AppendCanvasState)
	canvas.Get("/:id/state", canvasHandler.ReadCanvasState)
	canvas.Get("/:id/state/history", middleware.AuthUser(), canvasHandler.ReadCanvasStateHistory)
	canvas.Put("/:id/access", middleware.AuthUser(), accessHandler.GiveAccess)
	canvas.Delete("/:id/access", middleware.AuthUser(), accessHandler.CancelAccess)
	canvas.Put("/:id/tags", middleware.AuthUser(), tagHandler.AddCanvasTags)
	canvas.Delete("/:id/tags", middleware.AuthUser(), tagHandler.RemoveCanvasTags)

	// Tag lifecycle routes
	tags := api.Group("/tags", middleware.AuthUser())
	tags.Post("/", tagHandler.CreateTag)
	tags.Get("/", tagHandler.ListTags)
	tags.Get("/:id", tagHandler.ReadTag)
	tags.Patch("/:id", tagHandler.UpdateTag)
	tags.Delete("/:id", tagHandler.DeleteTag)

	// User routes
	user := api.Group("/user", middleware.AuthUser())
	user.Get("/me", userHandler.Me)
	user.Get("/users", userHandler.ListUsers)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	switch e := err.(type) {
	case *fiber.Error:
		code = e.Code
		message = e.Message
	case *types.CustomError:
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
