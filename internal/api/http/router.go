package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-intake/internal/api/http/handlers"
	"github.com/spec-kit/hr-intake/internal/auth"
	"github.com/spec-kit/hr-intake/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Conversations  *handlers.ConversationsHandler
	Tickets        *handlers.TicketsHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	conversations := app.Group("/conversations", cfg.AuthMiddleware.Handle)
	conversations.Post("", cfg.Conversations.Start)
	conversations.Get("/:id", cfg.Conversations.Transcript)
	conversations.Post("/:id/turns", cfg.Conversations.SubmitTurn)
	conversations.Post("/:id/close", cfg.Conversations.Close)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)

	review := tickets.Group("", auth.RequireRole(domain.RoleHRPlanner))
	review.Post("/:id/approve", cfg.Tickets.Approve)
	review.Post("/:id/deny", cfg.Tickets.Deny)

	metrics := app.Group("/metrics", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleHRPlanner))
	metrics.Get("/summary", cfg.Metrics.Summary)
}
