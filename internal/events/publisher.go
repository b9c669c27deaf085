package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"

	"github.com/Tarqueenj/Digital-Soko/internal/trade"
)

// Trade lifecycle event subjects. The notifier service subscribes to
// trades.> and turns these into user-facing messages.
const (
	SubjectTradeCreated   = "trades.created"
	SubjectTradeApproved  = "trades.approved"
	SubjectTradeRejected  = "trades.rejected"
	SubjectTradeCompleted = "trades.completed"
	SubjectTradeCancelled = "trades.cancelled"
)

// TradeEvent is the payload published for every lifecycle change.
type TradeEvent struct {
	TradeID       uuid.UUID       `json:"trade_id"`
	BuyerID       uuid.UUID       `json:"buyer_id"`
	SellerID      uuid.UUID       `json:"seller_id"`
	Status        trade.Status    `json:"status"`
	TradeType     trade.TradeType `json:"trade_type"`
	OfferingValue decimal.Decimal `json:"offering_value"`
	FairnessScore decimal.Decimal `json:"fairness_score"`
	NeedsReview   bool            `json:"needs_review"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewTradeEvent builds the event payload for a trade's current state.
func NewTradeEvent(t *trade.Trade) TradeEvent {
	return TradeEvent{
		TradeID:       t.ID,
		BuyerID:       t.BuyerID,
		SellerID:      t.SellerID,
		Status:        t.Status,
		TradeType:     t.TradeType,
		OfferingValue: t.OfferingValue,
		FairnessScore: t.FairnessScore,
		NeedsReview:   t.NeedsReview,
		OccurredAt:    t.UpdatedAt,
	}
}

// Publisher sends trade lifecycle events to NATS. A nil Publisher is a
// no-op, so the API runs fine without a broker configured.
type Publisher struct {
	nc *nats.Conn
}

// Connect establishes the NATS connection.
func Connect(url string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("digital-soko-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Publisher{nc: nc}, nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		log.Printf("Error draining NATS connection: %v", err)
	}
}

// Publish sends a trade event on the given subject. Delivery is advisory:
// failures are logged, never propagated to the request path.
func (p *Publisher) Publish(subject string, t *trade.Trade) {
	if p == nil || p.nc == nil {
		return
	}

	payload, err := json.Marshal(NewTradeEvent(t))
	if err != nil {
		log.Printf("Error marshaling trade event: %v", err)
		return
	}

	if err := p.nc.Publish(subject, payload); err != nil {
		log.Printf("Error publishing %s for trade %s: %v", subject, t.ID, err)
	}
}
