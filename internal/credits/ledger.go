// Package credits provides the credit ledger operations and the reservation
// scope that guarantees finalize-or-refund on every pipeline exit path.
package credits

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence surface the ledger needs. Implemented by *db.DB.
type Store interface {
	ReserveCredits(ctx context.Context, userID uuid.UUID, amount int, projectID uuid.UUID, reason string) (bool, error)
	RefundCredits(ctx context.Context, userID uuid.UUID, amount int, projectID uuid.UUID, reason string) error
}

// Ledger performs reserve/refund operations against a credit store.
type Ledger struct {
	store Store
}

// NewLedger creates a ledger over the given store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Reserve takes a provisional credit hold before generation starts. On
// insufficient balance it returns InsufficientCreditsError with no side
// effects; the caller must abort before any AI call is made.
func (l *Ledger) Reserve(ctx context.Context, userID uuid.UUID, amount int, projectID uuid.UUID, reason string) (*Reservation, error) {
	ok, err := l.store.ReserveCredits(ctx, userID, amount, projectID, reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &InsufficientCreditsError{Required: amount}
	}
	return &Reservation{
		ledger:    l,
		userID:    userID,
		projectID: projectID,
		amount:    amount,
	}, nil
}
