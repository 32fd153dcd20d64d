package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civitas-dev/remote-visit-service/internal/api/http/handlers"
	"github.com/civitas-dev/remote-visit-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Queue          *handlers.QueueHandler
	Departments    *handlers.DepartmentsHandler
	Messages       *handlers.MessagesHandler
	Guide          *handlers.GuideHandler
	Rooms          *handlers.RoomsHandler
	Verify         *handlers.VerifyHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Auth.Me)

	departments := app.Group("/departments")
	departments.Get("/", cfg.Departments.List)
	departments.Get("/:id", cfg.Departments.Get)
	departments.Get("/:id/waiting-count", cfg.Queue.WaitingCount)
	departments.Get("/:id/waiting", cfg.AuthMiddleware.Handle, auth.RequireStaff(), cfg.Queue.ListWaiting)

	queue := app.Group("/queue")
	queue.Get("/position", cfg.Queue.Position)
	queue.Post("/join", cfg.AuthMiddleware.Handle, auth.RequireCitizen(), cfg.Queue.Join)
	queue.Get("/status", cfg.AuthMiddleware.Handle, auth.RequireCitizen(), cfg.Queue.Status)
	queue.Post("/:id/start", cfg.AuthMiddleware.Handle, auth.RequireStaff(), cfg.Queue.Start)
	queue.Post("/:id/complete", cfg.AuthMiddleware.Handle, auth.RequireStaff(), cfg.Queue.Complete)

	app.Get("/rooms/token", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Rooms.Token)

	app.Post("/verify", cfg.AuthMiddleware.Handle, auth.RequireCitizen(), cfg.Verify.Check)

	messages := app.Group("/messages")
	messages.Get("/", cfg.Messages.List)
	messages.Post("/", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Messages.Create)

	app.Post("/guide/chat", cfg.Guide.Chat)
}
