package trade

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Tarqueenj/Digital-Soko/internal/config"
	"github.com/Tarqueenj/Digital-Soko/internal/db"
	"github.com/Tarqueenj/Digital-Soko/internal/events"
	"github.com/Tarqueenj/Digital-Soko/internal/middleware"
	"github.com/Tarqueenj/Digital-Soko/internal/trade"
	"github.com/Tarqueenj/Digital-Soko/internal/utils"
)

// TradeService exposes the trade lifecycle over HTTP
type TradeService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	publisher  *events.Publisher
}

// NewTradeService creates a new TradeService
func NewTradeService(cfg *config.Config, publisher *events.Publisher) *TradeService {
	return &TradeService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		publisher:  publisher,
	}
}

// CreateTrade creates a new trade proposal
func (s *TradeService) CreateTrade(c fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)

	var payload struct {
		RequestedItemID string          `json:"requested_item_id"`
		OfferedItemID   string          `json:"offered_item_id"`
		TradeType       string          `json:"trade_type"`
		MoneyAmount     decimal.Decimal `json:"money_amount"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		log.Printf("Error decoding request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	requestedItemID, err := uuid.Parse(payload.RequestedItemID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid requested item id"})
	}

	proposal, err := trade.ParseProposal(payload.TradeType, payload.OfferedItemID, payload.MoneyAmount)
	if err != nil {
		return fail(c, err)
	}

	requestedItem, err := db.GetProductByID(requestedItemID)
	if err != nil {
		if errors.Is(err, trade.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Requested item not found"})
		}
		log.Printf("Error querying requested item: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify requested item"})
	}

	requestedSnapshot := trade.ItemSnapshot{
		ItemID: requestedItem.ID,
		Name:   requestedItem.Name,
		Price:  requestedItem.Price,
		Image:  requestedItem.MainImageURL(),
	}

	var offeredSnapshot *trade.ItemSnapshot
	if offeredItemID, ok := proposal.OfferedItemID(); ok {
		offeredItem, err := db.GetProductByID(offeredItemID)
		if err != nil {
			if errors.Is(err, trade.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Offered item not found"})
			}
			log.Printf("Error querying offered item: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify offered item"})
		}

		if offeredItem.SellerID != caller.ID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only trade items you own"})
		}

		offeredSnapshot = &trade.ItemSnapshot{
			ItemID: offeredItem.ID,
			Name:   offeredItem.Name,
			Price:  offeredItem.Price,
			Image:  offeredItem.MainImageURL(),
		}
	}

	exists, err := db.HasPendingTrade(caller.ID, requestedItemID)
	if err != nil {
		log.Printf("Error checking pending trades: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check existing trades"})
	}
	if exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You already have a pending trade for this item"})
	}

	tr, err := trade.New(caller.ID, requestedItem.SellerID, requestedSnapshot, offeredSnapshot, proposal, time.Now())
	if err != nil {
		return fail(c, err)
	}

	if err := db.InsertTrade(tr); err != nil {
		log.Printf("Error inserting trade: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save trade"})
	}

	s.publisher.Publish(events.SubjectTradeCreated, tr)

	message := "Trade request created successfully"
	if tr.NeedsReview {
		message = "Trade request created and flagged for admin review due to large price difference"
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    tr,
		"message": message,
	})
}

// GetTrades lists trades visible to the caller
func (s *TradeService) GetTrades(c fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)

	var filter db.TradeFilter
	if raw := c.Query("status"); raw != "" {
		status, err := trade.ParseStatus(raw)
		if err != nil {
			return fail(c, err)
		}
		filter.Status = &status
	}
	if raw := c.Query("needs_review"); raw != "" {
		needsReview := raw == "true"
		filter.NeedsReview = &needsReview
	}

	trades, err := db.ListTrades(caller, filter)
	if err != nil {
		log.Printf("Error listing trades: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list trades"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(trades),
		"data":    trades,
	})
}

// GetTrade returns a single trade
func (s *TradeService) GetTrade(c fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)

	tr, err := s.loadTrade(c)
	if err != nil {
		return fail(c, err)
	}

	if !tr.CanView(caller) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized to view this trade"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    tr,
	})
}

// ApproveTrade approves a pending trade. Admin only.
func (s *TradeService) ApproveTrade(c fiber.Ctx) error {
	return s.transition(c, events.SubjectTradeApproved, "Trade approved successfully",
		func(tr *trade.Trade, caller trade.Caller) error {
			return tr.Approve(caller, time.Now())
		})
}

// RejectTrade rejects a pending trade. Admin only.
func (s *TradeService) RejectTrade(c fiber.Ctx) error {
	var payload struct {
		Reason string `json:"reason"`
	}
	// The body is optional; an empty reason falls back to the default.
	_ = c.Bind().Body(&payload)

	return s.transition(c, events.SubjectTradeRejected, "Trade rejected successfully",
		func(tr *trade.Trade, caller trade.Caller) error {
			return tr.Reject(caller, payload.Reason, time.Now())
		})
}

// CompleteTrade completes an approved trade. Seller only.
func (s *TradeService) CompleteTrade(c fiber.Ctx) error {
	return s.transition(c, events.SubjectTradeCompleted, "Trade completed successfully",
		func(tr *trade.Trade, caller trade.Caller) error {
			return tr.Complete(caller, time.Now())
		})
}

// CancelTrade cancels a pending trade. Buyer only.
func (s *TradeService) CancelTrade(c fiber.Ctx) error {
	return s.transition(c, events.SubjectTradeCancelled, "Trade cancelled successfully",
		func(tr *trade.Trade, caller trade.Caller) error {
			return tr.Cancel(caller, time.Now())
		})
}

// transition runs one state-machine step: load, apply in memory, persist
// conditionally on the status the trade was read in.
func (s *TradeService) transition(c fiber.Ctx, subject, message string, apply func(*trade.Trade, trade.Caller) error) error {
	caller := middleware.CallerFromCtx(c)

	tr, err := s.loadTrade(c)
	if err != nil {
		return fail(c, err)
	}

	from := tr.Status
	if err := apply(tr, caller); err != nil {
		return fail(c, err)
	}

	if err := db.UpdateTradeStatus(tr, from); err != nil {
		if errors.Is(err, trade.ErrInvalidTransition) {
			return fail(c, err)
		}
		log.Printf("Error updating trade status: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update trade"})
	}

	s.publisher.Publish(subject, tr)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    tr,
		"message": message,
	})
}

// DeleteTrade removes a trade record. Admin only; the route is gated by
// RequireAdmin.
func (s *TradeService) DeleteTrade(c fiber.Ctx) error {
	tr, err := s.loadTrade(c)
	if err != nil {
		return fail(c, err)
	}

	if err := db.DeleteTrade(tr.ID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Trade deleted successfully",
	})
}

// GetTradeStats returns the admin aggregate
func (s *TradeService) GetTradeStats(c fiber.Ctx) error {
	stats, err := db.GetTradeStats()
	if err != nil {
		log.Printf("Error querying trade stats: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load trade statistics"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

func (s *TradeService) loadTrade(c fiber.Ctx) (*trade.Trade, error) {
	tradeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid trade id", trade.ErrValidation)
	}
	return db.GetTradeByID(tradeID)
}

// fail maps core errors onto HTTP responses.
func fail(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, trade.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trade not found"})
	case errors.Is(err, trade.ErrSelfTrade):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot trade with yourself"})
	case errors.Is(err, trade.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, trade.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, trade.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	log.Printf("Unexpected error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
