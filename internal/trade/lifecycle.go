package trade

import (
	"fmt"
	"time"
)

// DefaultRejectionReason is recorded when an admin rejects without giving
// a reason.
const DefaultRejectionReason = "Not specified"

// The transition methods below enforce the trade state machine:
//
//	Pending  -> Approved (admin) | Rejected (admin) | Cancelled (buyer)
//	Approved -> Completed (seller)
//
// Rejected, Completed and Cancelled are terminal. Actor checks run before
// state checks so an unauthorized caller always gets ErrForbidden, never a
// hint about the trade's current state. A failed transition leaves the
// trade unmodified.

// Approve moves a pending trade to Approved. Admin only.
func (t *Trade) Approve(caller Caller, now time.Time) error {
	if !caller.IsAdmin() {
		return fmt.Errorf("%w: only admins can approve trades", ErrForbidden)
	}
	if t.Status != StatusPending {
		return fmt.Errorf("%w: only pending trades can be approved", ErrInvalidTransition)
	}

	adminID := caller.ID
	t.Status = StatusApproved
	t.ApprovedBy = &adminID
	t.ApprovedDate = &now
	t.UpdatedAt = now
	return nil
}

// Reject moves a pending trade to Rejected. Admin only.
func (t *Trade) Reject(caller Caller, reason string, now time.Time) error {
	if !caller.IsAdmin() {
		return fmt.Errorf("%w: only admins can reject trades", ErrForbidden)
	}
	if t.Status != StatusPending {
		return fmt.Errorf("%w: only pending trades can be rejected", ErrInvalidTransition)
	}
	if reason == "" {
		reason = DefaultRejectionReason
	}

	adminID := caller.ID
	t.Status = StatusRejected
	t.RejectedBy = &adminID
	t.RejectedDate = &now
	t.RejectionReason = reason
	t.UpdatedAt = now
	return nil
}

// Complete moves an approved trade to Completed. Seller only.
func (t *Trade) Complete(caller Caller, now time.Time) error {
	if caller.ID != t.SellerID {
		return fmt.Errorf("%w: only the seller can complete the trade", ErrForbidden)
	}
	if t.Status != StatusApproved {
		return fmt.Errorf("%w: only approved trades can be completed", ErrInvalidTransition)
	}

	t.Status = StatusCompleted
	t.CompletedDate = &now
	t.UpdatedAt = now
	return nil
}

// Cancel moves a pending trade to Cancelled. Buyer only.
func (t *Trade) Cancel(caller Caller, now time.Time) error {
	if caller.ID != t.BuyerID {
		return fmt.Errorf("%w: only the buyer can cancel the trade", ErrForbidden)
	}
	if t.Status != StatusPending {
		return fmt.Errorf("%w: only pending trades can be cancelled", ErrInvalidTransition)
	}

	t.Status = StatusCancelled
	t.UpdatedAt = now
	return nil
}
