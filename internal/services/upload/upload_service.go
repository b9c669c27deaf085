package upload

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Tarqueenj/Digital-Soko/internal/config"
	"github.com/Tarqueenj/Digital-Soko/internal/utils"
)

// UploadService issues signed Cloudinary direct-upload parameters so
// clients push images straight to Cloudinary without the API proxying
// file bytes.
type UploadService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewUploadService creates a new UploadService
func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GenerateUploadParams returns signed parameters for a direct upload
func (s *UploadService) GenerateUploadParams(c fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		productID = uuid.New().String()
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	folder := s.cfg.CloudinaryConfig.UploadFolder

	params := url.Values{}
	params.Set("timestamp", timestamp)
	params.Set("folder", folder)
	params.Set("upload_preset", s.cfg.CloudinaryConfig.UploadPreset)

	signature, err := api.SignParameters(params, s.cfg.CloudinaryConfig.APISecret)
	if err != nil {
		log.Printf("Error signing upload parameters: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sign upload parameters"})
	}

	return c.JSON(fiber.Map{
		"timestamp":     timestamp,
		"signature":     signature,
		"api_key":       s.cfg.CloudinaryConfig.APIKey,
		"cloud_name":    s.cfg.CloudinaryConfig.CloudName,
		"folder":        folder,
		"upload_preset": s.cfg.CloudinaryConfig.UploadPreset,
		"product_id":    productID,
	})
}
