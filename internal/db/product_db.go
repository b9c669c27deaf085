package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Tarqueenj/Digital-Soko/internal/models"
	"github.com/Tarqueenj/Digital-Soko/internal/trade"
)

// InsertProduct stores a new product together with its images.
func InsertProduct(p *models.Product) error {
	ctx, cancel := GetContext()
	defer cancel()

	tx, err := Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO products (id, seller_id, name, description, category, condition, price, stock, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.SellerID, p.Name, p.Description, p.Category, p.Condition, p.Price, p.Stock, p.Status)

	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	if err = insertProductImages(ctx, tx, p.ID, p.Images); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertProductImages(ctx context.Context, tx pgx.Tx, productID uuid.UUID, images []models.ProductImage) error {
	for i, img := range images {
		if img.ID == uuid.Nil {
			img.ID = uuid.New()
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO product_images (id, product_id, url, public_id, is_main, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, img.ID, productID, img.URL, img.PublicID, img.IsMain, i)

		if err != nil {
			return fmt.Errorf("failed to insert product image: %w", err)
		}
	}
	return nil
}

// GetProductByID returns the product with its images.
func GetProductByID(id uuid.UUID) (*models.Product, error) {
	ctx, cancel := GetContext()
	defer cancel()

	var p models.Product
	err := Pool.QueryRow(ctx, `
		SELECT id, seller_id, name, COALESCE(description, ''), category, condition, price, stock, status, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(
		&p.ID, &p.SellerID, &p.Name, &p.Description, &p.Category,
		&p.Condition, &p.Price, &p.Stock, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: product", trade.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	images, err := getProductImages(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Images = images

	return &p, nil
}

func getProductImages(ctx context.Context, productID uuid.UUID) ([]models.ProductImage, error) {
	rows, err := Pool.Query(ctx, `
		SELECT id, url, COALESCE(public_id, ''), is_main, position
		FROM product_images
		WHERE product_id = $1
		ORDER BY position ASC
	`, productID)

	if err != nil {
		return nil, fmt.Errorf("failed to query product images: %w", err)
	}
	defer rows.Close()

	var images []models.ProductImage
	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.URL, &img.PublicID, &img.IsMain, &img.Position); err != nil {
			return nil, fmt.Errorf("failed to scan product image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// ListProducts returns active products, optionally filtered by category or
// seller.
func ListProducts(category string, sellerID *uuid.UUID) ([]models.Product, error) {
	ctx, cancel := GetContext()
	defer cancel()

	query := `
		SELECT id, seller_id, name, COALESCE(description, ''), category, condition, price, stock, status, created_at, updated_at
		FROM products
		WHERE status = 'active'
	`
	args := []interface{}{}

	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if sellerID != nil {
		args = append(args, *sellerID)
		query += fmt.Sprintf(" AND seller_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.SellerID, &p.Name, &p.Description, &p.Category,
			&p.Condition, &p.Price, &p.Stock, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range products {
		images, err := getProductImages(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		products[i].Images = images
	}

	return products, nil
}

// UpdateProduct updates the editable fields of a product.
func UpdateProduct(p *models.Product) error {
	ctx, cancel := GetContext()
	defer cancel()

	tag, err := Pool.Exec(ctx, `
		UPDATE products
		SET name = $1, description = $2, category = $3, condition = $4,
		    price = $5, stock = $6, status = $7, updated_at = NOW()
		WHERE id = $8
	`, p.Name, p.Description, p.Category, p.Condition, p.Price, p.Stock, p.Status, p.ID)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product", trade.ErrNotFound)
	}
	return nil
}

// DeleteProduct removes a product and its images.
func DeleteProduct(id uuid.UUID) error {
	ctx, cancel := GetContext()
	defer cancel()

	tag, err := Pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product", trade.ErrNotFound)
	}
	return nil
}
