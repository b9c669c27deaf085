package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Tarqueenj/Digital-Soko/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the shared database connection pool
var Pool *pgxpool.Pool

// InitDB initializes the database connection pool
func InitDB(cfg *config.Config) error {
	var err error

	log.Printf("Connecting to database: %s\n", cfg.DatabaseConfig.Host)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2

	Pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = Pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Connected to database")
	return nil
}

// CloseDB closes the database connection pool
func CloseDB() {
	if Pool != nil {
		Pool.Close()
	}
}

// GetContext returns a context with a timeout for database queries
func GetContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
