package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tarqueenj/Digital-Soko/internal/trade"
)

func TestNewTradeEvent_PayloadShape(t *testing.T) {
	now := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)
	tr := &trade.Trade{
		ID:            uuid.New(),
		BuyerID:       uuid.New(),
		SellerID:      uuid.New(),
		Status:        trade.StatusPending,
		TradeType:     trade.TypeMoneyOnly,
		OfferingValue: decimal.RequireFromString("25000"),
		FairnessScore: decimal.NewFromInt(100),
		NeedsReview:   false,
		UpdatedAt:     now,
	}

	payload, err := json.Marshal(NewTradeEvent(tr))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, tr.ID.String(), decoded["trade_id"])
	assert.Equal(t, tr.BuyerID.String(), decoded["buyer_id"])
	assert.Equal(t, tr.SellerID.String(), decoded["seller_id"])
	assert.Equal(t, "Pending", decoded["status"])
	assert.Equal(t, "MoneyOnly", decoded["trade_type"])
	assert.Equal(t, false, decoded["needs_review"])
	assert.Equal(t, "2026-05-02T09:30:00Z", decoded["occurred_at"])
}

func TestPublisher_NilIsNoop(t *testing.T) {
	var p *Publisher

	// Must not panic without a broker configured.
	p.Publish(SubjectTradeCreated, &trade.Trade{ID: uuid.New()})
	p.Close()
}
