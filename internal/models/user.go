package models

import (
	"time"

	"github.com/Tarqueenj/Digital-Soko/internal/trade"
	"github.com/google/uuid"
)

// User represents an account in the marketplace
type User struct {
	ID        uuid.UUID  `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	Role      trade.Role `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Caller builds the caller context used by core operations.
func (u *User) Caller() trade.Caller {
	return trade.Caller{ID: u.ID, Role: u.Role}
}
