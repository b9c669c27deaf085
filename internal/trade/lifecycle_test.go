package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestTrade(t *testing.T) (*Trade, Caller, Caller, Caller) {
	t.Helper()

	buyer := Caller{ID: uuid.New(), Role: RoleCustomer}
	seller := Caller{ID: uuid.New(), Role: RoleSeller}
	admin := Caller{ID: uuid.New(), Role: RoleAdmin}

	requested := ItemSnapshot{ItemID: uuid.New(), Name: "Phone", Price: d("100000")}
	offered := &ItemSnapshot{ItemID: uuid.New(), Name: "Laptop", Price: d("60000")}

	p, err := ParseProposal("BarterPlusMoney", offered.ItemID.String(), d("40000"))
	require.NoError(t, err)

	tr, err := New(buyer.ID, seller.ID, requested, offered, p, testNow)
	require.NoError(t, err)
	return tr, buyer, seller, admin
}

func TestNew_ComputesDerivedFields(t *testing.T) {
	tr, _, _, _ := newTestTrade(t)

	assert.Equal(t, StatusPending, tr.Status)
	assert.True(t, tr.OfferingValue.Equal(d("100000")))
	assert.True(t, tr.RequestingValue.Equal(d("100000")))
	assert.True(t, tr.ValueDifference.IsZero())
	assert.True(t, tr.FairnessScore.Equal(d("100")))
	assert.False(t, tr.NeedsReview)
	assert.True(t, tr.MoneyAmount.Equal(d("40000")))
}

func TestNew_FlagsLopsidedBarter(t *testing.T) {
	buyerID, sellerID := uuid.New(), uuid.New()
	requested := ItemSnapshot{ItemID: uuid.New(), Name: "Fridge", Price: d("180000")}
	offered := &ItemSnapshot{ItemID: uuid.New(), Name: "Toaster", Price: d("15000")}

	p, err := ParseProposal("BarterOnly", offered.ItemID.String(), decimal.Zero)
	require.NoError(t, err)

	tr, err := New(buyerID, sellerID, requested, offered, p, testNow)
	require.NoError(t, err)

	assert.True(t, tr.OfferingValue.Equal(d("15000")))
	assert.InDelta(t, 8.33, tr.FairnessScore.InexactFloat64(), 0.01)
	assert.True(t, tr.NeedsReview)
}

func TestNew_RejectsSelfTrade(t *testing.T) {
	userID := uuid.New()
	requested := ItemSnapshot{ItemID: uuid.New(), Name: "Phone", Price: d("25000")}

	for _, p := range []Proposal{
		MoneyOnly{Amount: d("25000")},
		BarterOnly{ItemID: uuid.New()},
		BarterPlusMoney{ItemID: uuid.New(), Amount: d("5000")},
	} {
		offered := &ItemSnapshot{ItemID: uuid.New(), Price: d("20000")}
		tr, err := New(userID, userID, requested, offered, p, testNow)
		assert.Nil(t, tr)
		assert.ErrorIs(t, err, ErrSelfTrade, "trade type %s", p.TradeType())
	}
}

func TestApprove(t *testing.T) {
	tr, buyer, _, admin := newTestTrade(t)

	err := tr.Approve(buyer, testNow)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, StatusPending, tr.Status)

	require.NoError(t, tr.Approve(admin, testNow))
	assert.Equal(t, StatusApproved, tr.Status)
	require.NotNil(t, tr.ApprovedBy)
	assert.Equal(t, admin.ID, *tr.ApprovedBy)
	require.NotNil(t, tr.ApprovedDate)
	assert.Equal(t, testNow, *tr.ApprovedDate)

	// A second approval finds the trade no longer pending.
	err = tr.Approve(admin, testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReject(t *testing.T) {
	t.Run("records reason and actor", func(t *testing.T) {
		tr, _, _, admin := newTestTrade(t)

		require.NoError(t, tr.Reject(admin, "price gap too large", testNow))
		assert.Equal(t, StatusRejected, tr.Status)
		assert.Equal(t, "price gap too large", tr.RejectionReason)
		require.NotNil(t, tr.RejectedBy)
		assert.Equal(t, admin.ID, *tr.RejectedBy)
	})

	t.Run("defaults reason when omitted", func(t *testing.T) {
		tr, _, _, admin := newTestTrade(t)

		require.NoError(t, tr.Reject(admin, "", testNow))
		assert.Equal(t, DefaultRejectionReason, tr.RejectionReason)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		tr, _, seller, _ := newTestTrade(t)

		err := tr.Reject(seller, "mine", testNow)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Equal(t, StatusPending, tr.Status)
	})
}

func TestComplete(t *testing.T) {
	tr, buyer, seller, admin := newTestTrade(t)

	// Not completable while still pending, even by the seller.
	err := tr.Complete(seller, testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, tr.Approve(admin, testNow))

	// Only the seller completes; an admin who is not the seller does not.
	err = tr.Complete(buyer, testNow)
	assert.ErrorIs(t, err, ErrForbidden)
	err = tr.Complete(admin, testNow)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, StatusApproved, tr.Status)

	require.NoError(t, tr.Complete(seller, testNow))
	assert.Equal(t, StatusCompleted, tr.Status)
	require.NotNil(t, tr.CompletedDate)
}

func TestCancel(t *testing.T) {
	tr, buyer, seller, _ := newTestTrade(t)

	err := tr.Cancel(seller, testNow)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, tr.Cancel(buyer, testNow))
	assert.Equal(t, StatusCancelled, tr.Status)

	err = tr.Cancel(buyer, testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTerminalStatesPermitNoTransitions(t *testing.T) {
	terminalVia := map[string]func(tr *Trade, buyer, seller, admin Caller){
		"Rejected":  func(tr *Trade, _, _, admin Caller) { _ = tr.Reject(admin, "", testNow) },
		"Cancelled": func(tr *Trade, buyer, _, _ Caller) { _ = tr.Cancel(buyer, testNow) },
		"Completed": func(tr *Trade, _, seller, admin Caller) {
			_ = tr.Approve(admin, testNow)
			_ = tr.Complete(seller, testNow)
		},
	}

	for name, reach := range terminalVia {
		t.Run(name, func(t *testing.T) {
			tr, buyer, seller, admin := newTestTrade(t)
			reach(tr, buyer, seller, admin)
			before := *tr

			assert.ErrorIs(t, tr.Approve(admin, testNow), ErrInvalidTransition)
			assert.ErrorIs(t, tr.Reject(admin, "again", testNow), ErrInvalidTransition)
			assert.ErrorIs(t, tr.Cancel(buyer, testNow), ErrInvalidTransition)
			if tr.Status != StatusCompleted {
				assert.ErrorIs(t, tr.Complete(seller, testNow), ErrInvalidTransition)
			}

			// Failed transitions leave the trade unmodified.
			assert.Equal(t, before.Status, tr.Status)
			assert.Equal(t, before.RejectionReason, tr.RejectionReason)
			assert.Equal(t, before.UpdatedAt, tr.UpdatedAt)
		})
	}
}

func TestCanView(t *testing.T) {
	tr, buyer, seller, admin := newTestTrade(t)
	stranger := Caller{ID: uuid.New(), Role: RoleCustomer}

	assert.True(t, tr.CanView(buyer))
	assert.True(t, tr.CanView(seller))
	assert.True(t, tr.CanView(admin))
	assert.False(t, tr.CanView(stranger))
}
