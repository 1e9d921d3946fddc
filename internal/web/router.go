package web

import (
	"github.com/gofiber/fiber/v2"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Session *SessionHandler
	Agenda  *AgendaHandler
	Health  *HealthHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/healthz", cfg.Health.Live)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Post("/session", cfg.Session.Login)
	app.Post("/users", cfg.Session.Register)
	app.Post("/logout", cfg.Session.Logout)
	app.Get("/me", cfg.Session.Me)

	app.Get("/agenda", cfg.Agenda.List)
}
