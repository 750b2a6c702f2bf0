package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/joke-moderation-service/internal/api/http/handlers"
	"github.com/spec-kit/joke-moderation-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Jokes          *handlers.JokesHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Authentication is public; everything
// touching jokes sits behind the access guard.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/authenticate", cfg.Auth.Authenticate)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/joke", cfg.Jokes.Submit)
	protected.Get("/jokes", cfg.Jokes.List)
	protected.Get("/joke/:id", cfg.Jokes.GetByID)
	protected.Put("/joke/:id/approve", cfg.Jokes.Approve)
	protected.Put("/joke/:id/reject", cfg.Jokes.Reject)
	protected.Put("/joke/:id", cfg.Jokes.Update)
	protected.Delete("/joke/:id", cfg.Jokes.Delete)
	protected.Post("/joke-type", cfg.Jokes.CreateType)
}
