package types

// ProjectStatus is the project state machine:
// pending -> generating -> (completed | failed).
type ProjectStatus string

// Project statuses
const (
	StatusPending    ProjectStatus = "pending"
	StatusGenerating ProjectStatus = "generating"
	StatusCompleted  ProjectStatus = "completed"
	StatusFailed     ProjectStatus = "failed"
)

// LedgerKind classifies a credit ledger entry.
type LedgerKind string

// Ledger entry kinds
const (
	LedgerReserve    LedgerKind = "reserve"
	LedgerRefund     LedgerKind = "refund"
	LedgerPurchase   LedgerKind = "purchase"
	LedgerAdjustment LedgerKind = "adjustment"
)
