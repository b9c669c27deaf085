package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing
type Product struct {
	ID          uuid.UUID       `json:"id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Condition   string          `json:"condition"` // New, Like New, Used, Fair
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      string          `json:"status"` // active, sold, archived
	Images      []ProductImage  `json:"images"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductImage represents one image of a product
type ProductImage struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	PublicID string    `json:"public_id,omitempty"`
	IsMain   bool      `json:"is_main"`
	Position int       `json:"position"`
}

// MainImageURL returns the primary image URL, or "" when the product has
// no images
func (p *Product) MainImageURL() string {
	for _, img := range p.Images {
		if img.IsMain {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}
