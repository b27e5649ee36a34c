package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/blog-dashboard/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Posts          *handlers.PostsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Signup and login are the only
// application routes outside the auth gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/signup", cfg.Users.Signup)
	app.Post("/login", cfg.Users.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/dashboard", cfg.Dashboard.Show)
	protected.Get("/posts", cfg.Posts.List)
	protected.Get("/posts/:id", cfg.Posts.GetByID)
	protected.Post("/new-post", cfg.Posts.Create)
	protected.Delete("/delete-post/:id", cfg.Posts.Delete)
	protected.Get("/user-posts", cfg.Posts.ListByAuthor)
}
