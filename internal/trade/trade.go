package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a trade.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// ParseStatus validates a status value coming off the wire.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
}

// Role of an authenticated caller.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

// Caller identifies the authenticated user invoking an operation. It is
// passed explicitly into every core operation; the core never reads
// identity from ambient state.
type Caller struct {
	ID   uuid.UUID
	Role Role
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }

// ItemSnapshot captures a product at trade-creation time. Snapshots are
// immutable: later edits to the product do not touch existing trades.
type ItemSnapshot struct {
	ItemID uuid.UUID       `json:"item_id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Image  string          `json:"image,omitempty"`
}

// Trade is a proposal to exchange a requested catalog item for some
// combination of an offered item and/or cash.
type Trade struct {
	ID            uuid.UUID     `json:"id"`
	RequestedItem ItemSnapshot  `json:"requested_item"`
	OfferedItem   *ItemSnapshot `json:"offered_item,omitempty"`
	BuyerID       uuid.UUID     `json:"buyer_id"`
	SellerID      uuid.UUID     `json:"seller_id"`

	TradeType   TradeType       `json:"trade_type"`
	MoneyAmount decimal.Decimal `json:"money_amount"`

	OfferingValue   decimal.Decimal `json:"offering_value"`
	RequestingValue decimal.Decimal `json:"requesting_value"`
	ValueDifference decimal.Decimal `json:"value_difference"`
	FairnessScore   decimal.Decimal `json:"fairness_score"`
	NeedsReview     bool            `json:"needs_review"`

	Status Status `json:"status"`

	ApprovedBy      *uuid.UUID `json:"approved_by,omitempty"`
	ApprovedDate    *time.Time `json:"approved_date,omitempty"`
	RejectedBy      *uuid.UUID `json:"rejected_by,omitempty"`
	RejectedDate    *time.Time `json:"rejected_date,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CompletedDate   *time.Time `json:"completed_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New builds a Pending trade from a validated proposal and the item
// snapshots taken at this moment. The seller is derived from the requested
// item's owner and never edited afterwards. All derived value fields are
// computed here, before anything is persisted.
func New(buyerID, sellerID uuid.UUID, requested ItemSnapshot, offered *ItemSnapshot, p Proposal, now time.Time) (*Trade, error) {
	if buyerID == sellerID {
		return nil, ErrSelfTrade
	}
	if _, ok := p.OfferedItemID(); ok && offered == nil {
		return nil, fmt.Errorf("%w: offered item snapshot is missing", ErrValidation)
	}

	var offeredPrice decimal.Decimal
	if offered != nil {
		offeredPrice = offered.Price
	}
	offering := p.OfferingValue(offeredPrice)
	fairness := AssessFairness(offering, requested.Price)

	return &Trade{
		ID:              uuid.New(),
		RequestedItem:   requested,
		OfferedItem:     offered,
		BuyerID:         buyerID,
		SellerID:        sellerID,
		TradeType:       p.TradeType(),
		MoneyAmount:     p.MoneyAmount(),
		OfferingValue:   offering,
		RequestingValue: requested.Price,
		ValueDifference: fairness.ValueDifference,
		FairnessScore:   fairness.Score,
		NeedsReview:     fairness.NeedsReview,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// CanView reports whether the caller may read this trade. Only the buyer,
// the seller and admins see it.
func (t *Trade) CanView(caller Caller) bool {
	return caller.IsAdmin() || caller.ID == t.BuyerID || caller.ID == t.SellerID
}
