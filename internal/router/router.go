package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/studypath-api/internal/config"
	"github.com/noah-isme/studypath-api/internal/handler"
	"github.com/noah-isme/studypath-api/internal/middleware"
	"github.com/noah-isme/studypath-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	RoadmapHandler   *handler.RoadmapHandler
	ImportHandler    *handler.ImportHandler
	GoalHandler      *handler.GoalHandler
	TaskHandler      *handler.TaskHandler
	DashboardHandler *handler.DashboardHandler
	AccountHandler   *handler.AccountHandler
	JWTMiddleware    fiber.Handler
	HealthChecks     map[string]handler.DependencyCheck
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthChecks))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	requireSession := middleware.RequireSession(func(c *fiber.Ctx) error { return c.Next() })

	// Public catalog and signup helpers
	if deps.RoadmapHandler != nil {
		deps.RoadmapHandler.RegisterCatalog(api.Group("/catalog"))
	}
	if deps.AccountHandler != nil {
		auth := api.Group("/auth")
		deps.AccountHandler.RegisterPublic(auth)
		deps.AccountHandler.RegisterSession(auth, jwtMiddleware, requireSession)
		deps.AccountHandler.Register(api.Group("/account", jwtMiddleware, requireSession))
	}

	// Roadmaps, imports and the builder share the /roadmaps prefix
	roadmaps := api.Group("/roadmaps", jwtMiddleware, requireSession)
	if deps.ImportHandler != nil {
		deps.ImportHandler.Register(roadmaps)
	}
	if deps.RoadmapHandler != nil {
		deps.RoadmapHandler.Register(roadmaps)
	}

	if deps.GoalHandler != nil {
		deps.GoalHandler.Register(api.Group("/goals", jwtMiddleware, requireSession))
	}
	if deps.TaskHandler != nil {
		deps.TaskHandler.Register(api.Group("/tasks", jwtMiddleware, requireSession))
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(api.Group("/dashboard", jwtMiddleware, requireSession))
	}
}
