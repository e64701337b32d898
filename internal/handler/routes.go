package handler

import (
	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(
	app *fiber.App,
	authHandler *AuthHandler,
	sessionHandler *SessionHandler,
	rosterHandler *RosterHandler,
	healthHandler *HealthHandler,
	authMiddleware fiber.Handler,
	requireAdmin fiber.Handler,
	loginRateLimit fiber.Handler,
) {
	// Health check (public)
	app.Get("/health", healthHandler.Health)

	// Auth routes (public, login routes rate-limited)
	auth := app.Group("/auth")
	auth.Post("/admin", loginRateLimit, authHandler.LoginAdmin)
	auth.Post("/evaluator", loginRateLimit, authHandler.LoginEvaluator)
	auth.Post("/team", loginRateLimit, authHandler.LoginTeam)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)

	// Session bootstrap (public: the create response is the only place the
	// admin code ever appears in plaintext)
	app.Post("/sessions", sessionHandler.Create)

	// Session management (admin only)
	sessions := app.Group("/sessions", authMiddleware, requireAdmin)
	sessions.Get("/", sessionHandler.List)
	sessions.Get("/:id", sessionHandler.Get)
	sessions.Patch("/:id/status", sessionHandler.UpdateStatus)
	sessions.Delete("/:id", sessionHandler.Delete)

	// Roster management (admin only, scoped to the admin's own session)
	sessions.Post("/:id/evaluators", rosterHandler.CreateEvaluator)
	sessions.Get("/:id/evaluators", rosterHandler.ListEvaluators)
	sessions.Delete("/:id/evaluators/:evaluatorId", rosterHandler.DeleteEvaluator)
	sessions.Post("/:id/teams", rosterHandler.CreateTeam)
	sessions.Get("/:id/teams", rosterHandler.ListTeams)
	sessions.Delete("/:id/teams/:teamId", rosterHandler.DeleteTeam)
}
