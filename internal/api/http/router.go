package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Posts          *handlers.PostsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Everything under /api/protected passes
// through the auth guard before reaching a handler.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	public := app.Group("/api/public")
	public.Post("/auth/register", cfg.Auth.Register)
	public.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("/api/protected", cfg.AuthMiddleware.Handle)
	protected.Post("/posts", cfg.Posts.Create)
	protected.Get("/posts", cfg.Posts.List)
	protected.Get("/posts/:id", cfg.Posts.Get)
	protected.Put("/posts/:id", cfg.Posts.Update)
	protected.Delete("/posts/:id", cfg.Posts.Delete)
}
