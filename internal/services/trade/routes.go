package trade

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Tarqueenj/Digital-Soko/internal/middleware"
)

// SetupRoutes registers the trade routes
func (s *TradeService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/trades")

	// All trade routes require authentication
	api.Use(middleware.AuthMiddleware(s.jwtService))

	api.Post("/", s.CreateTrade)
	api.Get("/", s.GetTrades)

	// Registered before /:id so "stats" is not taken for a trade id
	api.Get("/stats", s.GetTradeStats, middleware.RequireAdmin())

	api.Get("/:id", s.GetTrade)
	api.Put("/:id/approve", s.ApproveTrade)
	api.Put("/:id/reject", s.RejectTrade)
	api.Put("/:id/complete", s.CompleteTrade)
	api.Put("/:id/cancel", s.CancelTrade)
	api.Delete("/:id", s.DeleteTrade, middleware.RequireAdmin())
}
