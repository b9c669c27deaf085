package auth

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/Tarqueenj/Digital-Soko/internal/config"
	"github.com/Tarqueenj/Digital-Soko/internal/db"
	"github.com/Tarqueenj/Digital-Soko/internal/middleware"
	"github.com/Tarqueenj/Digital-Soko/internal/trade"
	"github.com/Tarqueenj/Digital-Soko/internal/utils"
)

// AuthService handles account registration and login
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetJWTService exposes the JWT service for middleware wiring
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

// Register creates a new account
func (s *AuthService) Register(c fiber.Ctx) error {
	var payload struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Role      string `json:"role"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.FirstName == "" || payload.Email == "" || len(payload.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "First name, email and a password of at least 6 characters are required",
		})
	}

	// Accounts self-select customer or seller; admin is granted out of band.
	role := trade.RoleCustomer
	if payload.Role == string(trade.RoleSeller) {
		role = trade.RoleSeller
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process password"})
	}

	user, err := db.CreateUser(payload.FirstName, payload.LastName, payload.Email, string(hash), role)
	if err != nil {
		if errors.Is(err, trade.ErrValidation) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email is already registered"})
		}
		log.Printf("Error creating user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create account"})
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Login verifies credentials and issues a JWT
func (s *AuthService) Login(c fiber.Ctx) error {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, passwordHash, err := db.GetUserByEmail(strings.ToLower(strings.TrimSpace(payload.Email)))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(payload.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Account is deactivated"})
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Me returns the authenticated account
func (s *AuthService) Me(c fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)

	user, err := db.GetUserByID(caller.ID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Account not found"})
	}

	return c.JSON(fiber.Map{"user": user})
}
