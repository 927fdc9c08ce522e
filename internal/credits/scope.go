package credits

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Reservation is a provisional credit hold with guaranteed reconciliation.
// Exactly one of Settle or Release runs per reservation; whichever happens
// first wins and later calls are no-ops, so the ledger sees one reservation
// and at most one refund per pipeline run.
//
// A nil *Reservation is the free-variant no-op: all methods succeed without
// touching the ledger.
type Reservation struct {
	ledger    *Ledger
	userID    uuid.UUID
	projectID uuid.UUID
	amount    int
	settled   bool
}

// None returns the no-op reservation used when the capability variant
// requires no payment.
func None() *Reservation { return nil }

// Amount returns the reserved credit amount.
func (r *Reservation) Amount() int {
	if r == nil {
		return 0
	}
	return r.amount
}

// Settle reconciles the reservation against the actual cost: the unused
// portion is refunded and the reservation is closed. actualCost above the
// reservation is capped at the reservation (the user is never charged more
// than was held).
func (r *Reservation) Settle(ctx context.Context, actualCost int) (charged int, err error) {
	if r == nil {
		return 0, nil
	}
	if r.settled {
		return 0, nil
	}
	r.settled = true

	if actualCost < 0 {
		actualCost = 0
	}
	if actualCost > r.amount {
		actualCost = r.amount
	}

	delta := r.amount - actualCost
	if delta > 0 {
		reason := fmt.Sprintf("refund of unused reservation (%d of %d credits used)", actualCost, r.amount)
		if err := r.ledger.store.RefundCredits(ctx, r.userID, delta, r.projectID, reason); err != nil {
			return actualCost, err
		}
	}
	return actualCost, nil
}

// Release refunds the full reservation. Used on failure and on quality-gate
// rejection, where the run must be financially invisible to the user.
func (r *Reservation) Release(ctx context.Context, reason string) error {
	if r == nil || r.settled {
		return nil
	}
	r.settled = true
	return r.ledger.store.RefundCredits(ctx, r.userID, r.amount, r.projectID, reason)
}

// Settled reports whether the reservation has been reconciled.
func (r *Reservation) Settled() bool {
	return r == nil || r.settled
}
