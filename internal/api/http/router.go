package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/suporte-ti/helpdesk/internal/api/http/handlers"
	"github.com/suporte-ti/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Profiles       *handlers.ProfileHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.SignUp)
	authGroup.Post("/signin", cfg.Auth.SignIn)
	authGroup.Get("/session", cfg.Auth.Session)
	authGroup.Post("/signout", cfg.AuthMiddleware.Handle, cfg.Auth.SignOut)

	profiles := app.Group("/profiles", cfg.AuthMiddleware.Handle)
	profiles.Get("/:id", cfg.Profiles.Get)
	profiles.Patch("/:id", cfg.Profiles.Update)

	app.Get("/problem-types", cfg.AuthMiddleware.Handle, cfg.Tickets.ListProblemTypes)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	// registered before /:id so the literal path wins
	tickets.Get("/duplicates", cfg.Tickets.CheckDuplicates)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Get("/:id/history", cfg.Tickets.History)
	tickets.Post("/:id/accept", auth.RequireTechnician(), cfg.Tickets.Accept)
	tickets.Post("/:id/complete", auth.RequireTechnician(), cfg.Tickets.Complete)
	tickets.Post("/:id/reject", auth.RequireTechnician(), cfg.Tickets.Reject)
}
