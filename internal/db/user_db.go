package db

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Tarqueenj/Digital-Soko/internal/models"
	"github.com/Tarqueenj/Digital-Soko/internal/trade"
)

const userColumns = `id, first_name, last_name, email, COALESCE(phone, ''), COALESCE(avatar_url, ''), role, is_active, created_at, updated_at`

// CreateUser inserts a new account and returns the stored record.
func CreateUser(firstName, lastName, email, passwordHash string, role trade.Role) (*models.User, error) {
	ctx, cancel := GetContext()
	defer cancel()

	var user models.User
	err := Pool.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns+`
	`, firstName, lastName, email, passwordHash, role).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.Phone, &user.AvatarURL, &user.Role, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: email is already registered", trade.ErrValidation)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// GetUserByEmail returns the account and its password hash for login.
func GetUserByEmail(email string) (*models.User, string, error) {
	ctx, cancel := GetContext()
	defer cancel()

	var user models.User
	var passwordHash string
	err := Pool.QueryRow(ctx, `
		SELECT `+userColumns+`, password_hash
		FROM users
		WHERE email = $1
	`, email).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.Phone, &user.AvatarURL, &user.Role, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt, &passwordHash,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", fmt.Errorf("%w: user", trade.ErrNotFound)
		}
		return nil, "", fmt.Errorf("failed to query user: %w", err)
	}

	return &user, passwordHash, nil
}

// GetUserByID returns the account for the given id.
func GetUserByID(id uuid.UUID) (*models.User, error) {
	ctx, cancel := GetContext()
	defer cancel()

	var user models.User
	err := Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.Phone, &user.AvatarURL, &user.Role, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user", trade.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}
