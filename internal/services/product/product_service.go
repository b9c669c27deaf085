package product

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Tarqueenj/Digital-Soko/internal/config"
	"github.com/Tarqueenj/Digital-Soko/internal/db"
	"github.com/Tarqueenj/Digital-Soko/internal/middleware"
	"github.com/Tarqueenj/Digital-Soko/internal/models"
	"github.com/Tarqueenj/Digital-Soko/internal/trade"
	"github.com/Tarqueenj/Digital-Soko/internal/utils"
)

// ProductService handles the product catalog
type ProductService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewProductService creates a new ProductService
func NewProductService(cfg *config.Config) *ProductService {
	return &ProductService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

type productPayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Condition   string          `json:"condition"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Images      []struct {
		URL      string `json:"url"`
		PublicID string `json:"public_id"`
		IsMain   bool   `json:"is_main"`
	} `json:"images"`
}

// CreateProduct creates a new listing owned by the caller
func (s *ProductService) CreateProduct(c fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)

	var payload productPayload
	if err := c.Bind().Body(&payload); err != nil {
		log.Printf("Error decoding request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if payload.Name == "" || payload.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name and category are required"})
	}
	if payload.Price.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price cannot be negative"})
	}

	now := time.Now()
	product := &models.Product{
		ID:          uuid.New(),
		SellerID:    caller.ID,
		Name:        payload.Name,
		Description: payload.Description,
		Category:    payload.Category,
		Condition:   payload.Condition,
		Price:       payload.Price,
		Stock:       payload.Stock,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Condition == "" {
		product.Condition = "New"
	}
	for i, img := range payload.Images {
		product.Images = append(product.Images, models.ProductImage{
			ID:       uuid.New(),
			URL:      img.URL,
			PublicID: img.PublicID,
			IsMain:   img.IsMain || i == 0,
			Position: i,
		})
	}

	if err := db.InsertProduct(product); err != nil {
		log.Printf("Error inserting product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save product"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    product,
	})
}

// GetProducts lists active products
func (s *ProductService) GetProducts(c fiber.Ctx) error {
	var sellerID *uuid.UUID
	if raw := c.Query("seller_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid seller id"})
		}
		sellerID = &id
	}

	products, err := db.ListProducts(c.Query("category"), sellerID)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list products"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(products),
		"data":    products,
	})
}

// GetProduct returns a single product
func (s *ProductService) GetProduct(c fiber.Ctx) error {
	product, err := s.loadProduct(c)
	if err != nil {
		return productError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    product,
	})
}

// UpdateProduct updates a listing. Owner or admin only.
func (s *ProductService) UpdateProduct(c fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)

	product, err := s.loadProduct(c)
	if err != nil {
		return productError(c, err)
	}

	if product.SellerID != caller.ID && !caller.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your item"})
	}

	var payload productPayload
	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if payload.Name != "" {
		product.Name = payload.Name
	}
	if payload.Description != "" {
		product.Description = payload.Description
	}
	if payload.Category != "" {
		product.Category = payload.Category
	}
	if payload.Condition != "" {
		product.Condition = payload.Condition
	}
	if !payload.Price.IsZero() {
		if payload.Price.IsNegative() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price cannot be negative"})
		}
		product.Price = payload.Price
	}
	if payload.Stock > 0 {
		product.Stock = payload.Stock
	}

	if err := db.UpdateProduct(product); err != nil {
		log.Printf("Error updating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update product"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    product,
	})
}

// DeleteProduct removes a listing. Owner or admin only.
func (s *ProductService) DeleteProduct(c fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)

	product, err := s.loadProduct(c)
	if err != nil {
		return productError(c, err)
	}

	if product.SellerID != caller.ID && !caller.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your item"})
	}

	if err := db.DeleteProduct(product.ID); err != nil {
		log.Printf("Error deleting product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete product"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted successfully",
	})
}

func (s *ProductService) loadProduct(c fiber.Ctx) (*models.Product, error) {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, trade.ErrValidation
	}
	return db.GetProductByID(productID)
}

func productError(c fiber.Ctx, err error) error {
	if errors.Is(err, trade.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	if errors.Is(err, trade.ErrValidation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product id"})
	}
	log.Printf("Error loading product: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load product"})
}
