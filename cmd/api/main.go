package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/Tarqueenj/Digital-Soko/internal/config"
	"github.com/Tarqueenj/Digital-Soko/internal/db"
	"github.com/Tarqueenj/Digital-Soko/internal/events"
	"github.com/Tarqueenj/Digital-Soko/internal/services/auth"
	"github.com/Tarqueenj/Digital-Soko/internal/services/product"
	"github.com/Tarqueenj/Digital-Soko/internal/services/trade"
	"github.com/Tarqueenj/Digital-Soko/internal/services/upload"
	"github.com/Tarqueenj/Digital-Soko/internal/storage"
)

func main() {
	// Money values serialize as JSON numbers, matching the dashboard's
	// expectations
	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.LoadConfig()

	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	// Trade notifications are optional; without a broker the publisher
	// stays nil and publishing is a no-op
	var publisher *events.Publisher
	if cfg.NATSUrl != "" {
		var err error
		publisher, err = events.Connect(cfg.NATSUrl)
		if err != nil {
			log.Fatalf("❌ Failed to connect to NATS: %v", err)
		}
		defer publisher.Close()
		log.Println("✅ Connected to NATS")
	}

	app := fiber.New(fiber.Config{
		AppName:      "Digital Soko API",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))
	app.Use(limiter.New(limiterConfig(cfg)))

	authService := auth.NewAuthService(cfg)
	productService := product.NewProductService(cfg)
	tradeService := trade.NewTradeService(cfg, publisher)
	uploadService := upload.NewUploadService(cfg)

	authService.SetupRoutes(app)
	productService.SetupRoutes(app)
	tradeService.SetupRoutes(app)
	uploadService.SetupRoutes(app)

	log.Printf("✅ Digital Soko API listening on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// limiterConfig builds the rate limiter, redis-backed when configured so
// counters survive restarts and are shared between instances
func limiterConfig(cfg *config.Config) limiter.Config {
	lc := limiter.Config{
		Max:        100,
		Expiration: time.Minute,
	}

	if cfg.RedisAddr != "" {
		store, err := storage.NewRedisStorage(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("❌ Failed to connect to Redis: %v", err)
		}
		lc.Storage = store
		log.Println("✅ Rate limiter backed by Redis")
	}

	return lc
}

// errorHandler handles errors bubbled out of Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
