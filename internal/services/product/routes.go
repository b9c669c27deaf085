package product

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Tarqueenj/Digital-Soko/internal/middleware"
)

// SetupRoutes registers the product routes
func (s *ProductService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/products")

	// Public catalog reads
	api.Get("/", s.GetProducts)
	api.Get("/:id", s.GetProduct)

	// Mutations require authentication
	auth := middleware.AuthMiddleware(s.jwtService)
	api.Post("/", s.CreateProduct, auth)
	api.Put("/:id", s.UpdateProduct, auth)
	api.Delete("/:id", s.DeleteProduct, auth)
}
