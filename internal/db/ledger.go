package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// GetBalance returns the current credit balance for a user. A user without an
// account row has a zero balance.
func (db *DB) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	var balance int
	err := db.pool.QueryRow(ctx,
		`SELECT balance FROM credit_accounts WHERE user_id = $1`,
		userID,
	).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// ReserveCredits atomically decrements the balance if and only if it covers
// the amount, and writes the reserve ledger entry in the same transaction.
// Returns false with no side effects when the balance is insufficient.
func (db *DB) ReserveCredits(ctx context.Context, userID uuid.UUID, amount int, projectID uuid.UUID, reason string) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("reserve amount must be positive, got %d", amount)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Conditional decrement: the WHERE clause is the race guard. Two
	// concurrent reservations cannot both pass it if their sum exceeds the
	// balance.
	tag, err := tx.Exec(ctx,
		`UPDATE credit_accounts SET balance = balance - $2, updated_at = NOW()
		 WHERE user_id = $1 AND balance >= $2`,
		userID, amount,
	)
	if err != nil {
		return false, fmt.Errorf("failed to reserve credits: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if err := insertLedgerEntry(ctx, tx, userID, -amount, types.LedgerReserve, reason, &projectID); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit reservation: %w", err)
	}
	return true, nil
}

// RefundCredits unconditionally increments the balance and writes the refund
// ledger entry. Idempotency is the caller's responsibility.
func (db *DB) RefundCredits(ctx context.Context, userID uuid.UUID, amount int, projectID uuid.UUID, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("refund amount must be positive, got %d", amount)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`UPDATE credit_accounts SET balance = balance + $2, updated_at = NOW() WHERE user_id = $1`,
		userID, amount,
	); err != nil {
		return fmt.Errorf("failed to refund credits: %w", err)
	}

	if err := insertLedgerEntry(ctx, tx, userID, amount, types.LedgerRefund, reason, &projectID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit refund: %w", err)
	}
	return nil
}

// AddCredits credits a user account (purchase or support adjustment),
// creating the account row if needed.
func (db *DB) AddCredits(ctx context.Context, userID uuid.UUID, amount int, kind types.LedgerKind, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %d", amount)
	}
	if kind != types.LedgerPurchase && kind != types.LedgerAdjustment {
		return fmt.Errorf("unsupported ledger kind for credit: %s", kind)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO credit_accounts (user_id, balance) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET balance = credit_accounts.balance + $2, updated_at = NOW()`,
		userID, amount,
	); err != nil {
		return fmt.Errorf("failed to add credits: %w", err)
	}

	if err := insertLedgerEntry(ctx, tx, userID, amount, kind, reason, nil); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit credit: %w", err)
	}
	return nil
}

// ListLedger returns the most recent ledger entries for a user, newest first.
func (db *DB) ListLedger(ctx context.Context, userID uuid.UUID, limit int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, amount, kind, reason, project_id, created_at
		 FROM credit_ledger
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger: %w", err)
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Kind, &e.Reason, &e.ProjectID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func insertLedgerEntry(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int, kind types.LedgerKind, reason string, projectID *uuid.UUID) error {
	if _, err := tx.Exec(ctx,
		`INSERT INTO credit_ledger (user_id, amount, kind, reason, project_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		userID, amount, kind, reason, projectID,
	); err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}
