package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Tarqueenj/Digital-Soko/internal/db"
	"github.com/Tarqueenj/Digital-Soko/internal/trade"
	"github.com/Tarqueenj/Digital-Soko/internal/utils"
)

const callerKey = "caller"

// AuthMiddleware validates the bearer token and stores the caller context
// (id and role) for handlers. The role is read from the account record, not
// from the token, so revoked admins lose access as soon as the row changes.
func AuthMiddleware(jwtService *utils.JWTService) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		userID, err := jwtService.ExtractUserID(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		id, err := uuid.Parse(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid user ID",
			})
		}

		user, err := db.GetUserByID(id)
		if err != nil || !user.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Account not found or deactivated",
			})
		}

		c.Locals(callerKey, user.Caller())
		return c.Next()
	}
}

// RequireAdmin rejects callers without the admin role. Must run after
// AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c fiber.Ctx) error {
		if !CallerFromCtx(c).IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}
		return c.Next()
	}
}

// CallerFromCtx returns the caller context stored by AuthMiddleware.
func CallerFromCtx(c fiber.Ctx) trade.Caller {
	caller, _ := c.Locals(callerKey).(trade.Caller)
	return caller
}
