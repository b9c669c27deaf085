package trade

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeType selects which components an offer is made of.
type TradeType string

const (
	TypeBarterOnly      TradeType = "BarterOnly"
	TypeMoneyOnly       TradeType = "MoneyOnly"
	TypeBarterPlusMoney TradeType = "BarterPlusMoney"
)

// Proposal is a closed sum over the three trade types. Each variant carries
// exactly the fields its type requires, so an invalid field combination
// cannot be represented once ParseProposal has accepted the input.
type Proposal interface {
	TradeType() TradeType

	// OfferingValue computes the total value of the offer given the price
	// of the offered item (ignored by variants without one).
	OfferingValue(offeredItemPrice decimal.Decimal) decimal.Decimal

	// OfferedItemID returns the offered item reference, if the variant
	// carries one.
	OfferedItemID() (uuid.UUID, bool)

	// MoneyAmount returns the cash top-up, zero for BarterOnly.
	MoneyAmount() decimal.Decimal

	sealed()
}

// BarterOnly offers a single item, no cash.
type BarterOnly struct {
	ItemID uuid.UUID
}

// MoneyOnly offers cash, no item.
type MoneyOnly struct {
	Amount decimal.Decimal
}

// BarterPlusMoney offers an item plus a cash top-up.
type BarterPlusMoney struct {
	ItemID uuid.UUID
	Amount decimal.Decimal
}

func (BarterOnly) TradeType() TradeType      { return TypeBarterOnly }
func (MoneyOnly) TradeType() TradeType       { return TypeMoneyOnly }
func (BarterPlusMoney) TradeType() TradeType { return TypeBarterPlusMoney }

func (p BarterOnly) OfferingValue(offeredItemPrice decimal.Decimal) decimal.Decimal {
	return offeredItemPrice
}

func (p MoneyOnly) OfferingValue(decimal.Decimal) decimal.Decimal {
	return p.Amount
}

func (p BarterPlusMoney) OfferingValue(offeredItemPrice decimal.Decimal) decimal.Decimal {
	return offeredItemPrice.Add(p.Amount)
}

func (p BarterOnly) OfferedItemID() (uuid.UUID, bool)      { return p.ItemID, true }
func (MoneyOnly) OfferedItemID() (uuid.UUID, bool)         { return uuid.Nil, false }
func (p BarterPlusMoney) OfferedItemID() (uuid.UUID, bool) { return p.ItemID, true }

func (BarterOnly) MoneyAmount() decimal.Decimal        { return decimal.Zero }
func (p MoneyOnly) MoneyAmount() decimal.Decimal       { return p.Amount }
func (p BarterPlusMoney) MoneyAmount() decimal.Decimal { return p.Amount }

func (BarterOnly) sealed()      {}
func (MoneyOnly) sealed()       {}
func (BarterPlusMoney) sealed() {}

// ParseProposal validates the tradeType/field combination coming off the
// wire and returns the matching variant. offeredItemID is the raw request
// value ("" when absent); moneyAmount defaults to zero when absent.
func ParseProposal(tradeType string, offeredItemID string, moneyAmount decimal.Decimal) (Proposal, error) {
	if moneyAmount.IsNegative() {
		return nil, fmt.Errorf("%w: money amount cannot be negative", ErrValidation)
	}

	switch TradeType(tradeType) {
	case TypeBarterOnly:
		if !moneyAmount.IsZero() {
			return nil, fmt.Errorf("%w: barter-only trades cannot carry a money amount", ErrValidation)
		}
		itemID, err := requireOfferedItem(offeredItemID)
		if err != nil {
			return nil, err
		}
		return BarterOnly{ItemID: itemID}, nil

	case TypeMoneyOnly:
		if offeredItemID != "" {
			return nil, fmt.Errorf("%w: money-only trades cannot include an offered item", ErrValidation)
		}
		if !moneyAmount.IsPositive() {
			return nil, fmt.Errorf("%w: valid money amount is required", ErrValidation)
		}
		return MoneyOnly{Amount: moneyAmount}, nil

	case TypeBarterPlusMoney:
		itemID, err := requireOfferedItem(offeredItemID)
		if err != nil {
			return nil, err
		}
		if !moneyAmount.IsPositive() {
			return nil, fmt.Errorf("%w: valid money amount is required", ErrValidation)
		}
		return BarterPlusMoney{ItemID: itemID, Amount: moneyAmount}, nil
	}

	return nil, fmt.Errorf("%w: invalid trade type %q", ErrValidation, tradeType)
}

func requireOfferedItem(offeredItemID string) (uuid.UUID, error) {
	if offeredItemID == "" {
		return uuid.Nil, fmt.Errorf("%w: offered item is required for barter trades", ErrValidation)
	}
	itemID, err := uuid.Parse(offeredItemID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid offered item id", ErrValidation)
	}
	return itemID, nil
}
