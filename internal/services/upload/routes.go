package upload

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Tarqueenj/Digital-Soko/internal/middleware"
)

// SetupRoutes registers the upload routes
func (s *UploadService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/uploads")

	api.Use(middleware.AuthMiddleware(s.jwtService))

	api.Get("/signature", s.GenerateUploadParams)
}
