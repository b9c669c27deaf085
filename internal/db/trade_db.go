package db

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Tarqueenj/Digital-Soko/internal/trade"
)

const tradeColumns = `
	id, requested_item_id, requested_item_name, requested_item_price, COALESCE(requested_item_image, ''),
	offered_item_id, offered_item_name, offered_item_price, offered_item_image,
	buyer_id, seller_id, trade_type, money_amount,
	offering_value, requesting_value, value_difference, fairness_score, needs_review,
	status, approved_by, approved_date, rejected_by, rejected_date, COALESCE(rejection_reason, ''),
	completed_date, created_at, updated_at`

// InsertTrade stores a newly created trade with all derived fields.
func InsertTrade(t *trade.Trade) error {
	ctx, cancel := GetContext()
	defer cancel()

	var offeredID *uuid.UUID
	var offeredName, offeredImage *string
	offeredPrice := decimal.NullDecimal{}
	if t.OfferedItem != nil {
		offeredID = &t.OfferedItem.ItemID
		offeredName = &t.OfferedItem.Name
		offeredImage = &t.OfferedItem.Image
		offeredPrice = decimal.NullDecimal{Decimal: t.OfferedItem.Price, Valid: true}
	}

	_, err := Pool.Exec(ctx, `
		INSERT INTO trades (
			id, requested_item_id, requested_item_name, requested_item_price, requested_item_image,
			offered_item_id, offered_item_name, offered_item_price, offered_item_image,
			buyer_id, seller_id, trade_type, money_amount,
			offering_value, requesting_value, value_difference, fairness_score, needs_review,
			status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`,
		t.ID, t.RequestedItem.ItemID, t.RequestedItem.Name, t.RequestedItem.Price, t.RequestedItem.Image,
		offeredID, offeredName, offeredPrice, offeredImage,
		t.BuyerID, t.SellerID, t.TradeType, t.MoneyAmount,
		t.OfferingValue, t.RequestingValue, t.ValueDifference, t.FairnessScore, t.NeedsReview,
		t.Status, t.CreatedAt, t.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (*trade.Trade, error) {
	var t trade.Trade
	var offeredID *uuid.UUID
	var offeredName, offeredImage *string
	var offeredPrice decimal.NullDecimal

	err := row.Scan(
		&t.ID, &t.RequestedItem.ItemID, &t.RequestedItem.Name, &t.RequestedItem.Price, &t.RequestedItem.Image,
		&offeredID, &offeredName, &offeredPrice, &offeredImage,
		&t.BuyerID, &t.SellerID, &t.TradeType, &t.MoneyAmount,
		&t.OfferingValue, &t.RequestingValue, &t.ValueDifference, &t.FairnessScore, &t.NeedsReview,
		&t.Status, &t.ApprovedBy, &t.ApprovedDate, &t.RejectedBy, &t.RejectedDate, &t.RejectionReason,
		&t.CompletedDate, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if offeredID != nil {
		snapshot := trade.ItemSnapshot{ItemID: *offeredID, Price: offeredPrice.Decimal}
		if offeredName != nil {
			snapshot.Name = *offeredName
		}
		if offeredImage != nil {
			snapshot.Image = *offeredImage
		}
		t.OfferedItem = &snapshot
	}

	return &t, nil
}

// GetTradeByID returns the trade with the given id.
func GetTradeByID(id uuid.UUID) (*trade.Trade, error) {
	ctx, cancel := GetContext()
	defer cancel()

	t, err := scanTrade(Pool.QueryRow(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: trade", trade.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query trade: %w", err)
	}
	return t, nil
}

// HasPendingTrade reports whether the buyer already has a pending proposal
// for the same requested item.
func HasPendingTrade(buyerID, requestedItemID uuid.UUID) (bool, error) {
	ctx, cancel := GetContext()
	defer cancel()

	var count int
	err := Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM trades
		WHERE buyer_id = $1 AND requested_item_id = $2 AND status = 'Pending'
	`, buyerID, requestedItemID).Scan(&count)

	if err != nil {
		return false, fmt.Errorf("failed to check pending trades: %w", err)
	}
	return count > 0, nil
}

// TradeFilter narrows role-scoped trade listings.
type TradeFilter struct {
	Status      *trade.Status
	NeedsReview *bool
}

// ListTrades returns trades visible to the caller, newest first. Admins
// see every trade and may additionally filter on the review flag; other
// callers see only trades where they are buyer or seller.
func ListTrades(caller trade.Caller, filter TradeFilter) ([]trade.Trade, error) {
	ctx, cancel := GetContext()
	defer cancel()

	query := `SELECT ` + tradeColumns + ` FROM trades WHERE 1=1`
	args := []interface{}{}

	if !caller.IsAdmin() {
		args = append(args, caller.ID)
		query += fmt.Sprintf(" AND (buyer_id = $%d OR seller_id = $%d)", len(args), len(args))
	} else if filter.NeedsReview != nil {
		args = append(args, *filter.NeedsReview)
		query += fmt.Sprintf(" AND needs_review = $%d", len(args))
	}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []trade.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, *t)
	}
	return trades, rows.Err()
}

// UpdateTradeStatus persists a state transition already applied to the
// in-memory trade. The write is conditional on the status the trade was
// read in; zero rows affected means a concurrent transition won the race
// and this one must fail rather than overwrite it.
func UpdateTradeStatus(t *trade.Trade, from trade.Status) error {
	ctx, cancel := GetContext()
	defer cancel()

	tag, err := Pool.Exec(ctx, `
		UPDATE trades
		SET status = $1,
		    approved_by = $2, approved_date = $3,
		    rejected_by = $4, rejected_date = $5, rejection_reason = NULLIF($6, ''),
		    completed_date = $7, updated_at = $8
		WHERE id = $9 AND status = $10
	`,
		t.Status,
		t.ApprovedBy, t.ApprovedDate,
		t.RejectedBy, t.RejectedDate, t.RejectionReason,
		t.CompletedDate, t.UpdatedAt,
		t.ID, from,
	)

	if err != nil {
		return fmt.Errorf("failed to update trade status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: trade was already processed", trade.ErrInvalidTransition)
	}
	return nil
}

// DeleteTrade removes a trade record.
func DeleteTrade(id uuid.UUID) error {
	ctx, cancel := GetContext()
	defer cancel()

	tag, err := Pool.Exec(ctx, `DELETE FROM trades WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: trade", trade.ErrNotFound)
	}
	return nil
}

// StatusStats aggregates one status group.
type StatusStats struct {
	Status             trade.Status    `json:"status"`
	Count              int64           `json:"count"`
	AvgFairnessScore   decimal.Decimal `json:"avg_fairness_score"`
	TotalOfferingValue decimal.Decimal `json:"total_offering_value"`
}

// TradeStats is the admin dashboard aggregate.
type TradeStats struct {
	ByStatus      []StatusStats `json:"by_status"`
	FlaggedTrades int64         `json:"flagged_trades"`
	PendingTrades int64         `json:"pending_trades"`
}

// GetTradeStats groups trades by status and counts flagged and pending
// proposals.
func GetTradeStats() (*TradeStats, error) {
	ctx, cancel := GetContext()
	defer cancel()

	rows, err := Pool.Query(ctx, `
		SELECT status, COUNT(*), COALESCE(AVG(fairness_score), 0), COALESCE(SUM(offering_value), 0)
		FROM trades
		GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade stats: %w", err)
	}
	defer rows.Close()

	stats := &TradeStats{ByStatus: []StatusStats{}}
	for rows.Next() {
		var s StatusStats
		if err := rows.Scan(&s.Status, &s.Count, &s.AvgFairnessScore, &s.TotalOfferingValue); err != nil {
			return nil, fmt.Errorf("failed to scan trade stats: %w", err)
		}
		stats.ByStatus = append(stats.ByStatus, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = Pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE needs_review AND status = 'Pending'),
			COUNT(*) FILTER (WHERE status = 'Pending')
		FROM trades
	`).Scan(&stats.FlaggedTrades, &stats.PendingTrades)

	if err != nil {
		return nil, fmt.Errorf("failed to count pending trades: %w", err)
	}

	return stats, nil
}
