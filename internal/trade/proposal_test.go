package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProposal_Valid(t *testing.T) {
	itemID := uuid.New()

	t.Run("barter only", func(t *testing.T) {
		p, err := ParseProposal("BarterOnly", itemID.String(), decimal.Zero)
		require.NoError(t, err)
		require.Equal(t, TypeBarterOnly, p.TradeType())

		gotID, ok := p.OfferedItemID()
		require.True(t, ok)
		assert.Equal(t, itemID, gotID)
		assert.True(t, p.MoneyAmount().IsZero())
		assert.True(t, p.OfferingValue(d("15000")).Equal(d("15000")))
	})

	t.Run("money only", func(t *testing.T) {
		p, err := ParseProposal("MoneyOnly", "", d("25000"))
		require.NoError(t, err)
		require.Equal(t, TypeMoneyOnly, p.TradeType())

		_, ok := p.OfferedItemID()
		assert.False(t, ok)
		// Offered item price must not leak into a money-only offer.
		assert.True(t, p.OfferingValue(d("99999")).Equal(d("25000")))
	})

	t.Run("barter plus money", func(t *testing.T) {
		p, err := ParseProposal("BarterPlusMoney", itemID.String(), d("40000"))
		require.NoError(t, err)
		require.Equal(t, TypeBarterPlusMoney, p.TradeType())
		assert.True(t, p.OfferingValue(d("60000")).Equal(d("100000")))
	})
}

func TestParseProposal_Invalid(t *testing.T) {
	itemID := uuid.New().String()

	tests := []struct {
		name          string
		tradeType     string
		offeredItemID string
		moneyAmount   decimal.Decimal
	}{
		{"unknown trade type", "Swap", itemID, decimal.Zero},
		{"empty trade type", "", itemID, decimal.Zero},
		{"barter only without item", "BarterOnly", "", decimal.Zero},
		{"barter only with money", "BarterOnly", itemID, d("500")},
		{"barter only with malformed item id", "BarterOnly", "not-a-uuid", decimal.Zero},
		{"money only with zero amount", "MoneyOnly", "", decimal.Zero},
		{"money only with negative amount", "MoneyOnly", "", d("-100")},
		{"money only with offered item", "MoneyOnly", itemID, d("1000")},
		{"barter plus money without item", "BarterPlusMoney", "", d("1000")},
		{"barter plus money with zero amount", "BarterPlusMoney", itemID, decimal.Zero},
		{"barter plus money with negative amount", "BarterPlusMoney", itemID, d("-1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseProposal(tt.tradeType, tt.offeredItemID, tt.moneyAmount)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"Pending", "Approved", "Rejected", "Completed", "Cancelled"} {
		got, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, Status(s), got)
	}

	_, err := ParseStatus("pending")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = ParseStatus("Archived")
	assert.ErrorIs(t, err, ErrValidation)
}
