package auth

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Tarqueenj/Digital-Soko/internal/middleware"
)

// SetupRoutes registers the auth routes
func (s *AuthService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/auth")

	api.Post("/register", s.Register)
	api.Post("/login", s.Login)

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(s.jwtService))
	protected.Get("/me", s.Me)
}
