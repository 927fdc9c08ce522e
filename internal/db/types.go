package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// Project is one teacher pack project row.
type Project struct {
	ID           uuid.UUID           `json:"id"`
	UserID       uuid.UUID           `json:"user_id"`
	Title        string              `json:"title"`
	Status       types.ProjectStatus `json:"status"`
	ErrorMessage string              `json:"error_message,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// VersionInput holds everything persisted for one charge-eligible generation.
type VersionInput struct {
	ProjectID      uuid.UUID          `json:"project_id"`
	Kind           types.PipelineKind `json:"kind"`
	Documents      types.Documents    `json:"documents"`
	InputTokens    int                `json:"input_tokens"`
	OutputTokens   int                `json:"output_tokens"`
	CreditsCharged int                `json:"credits_charged"`
	QualityScore   int                `json:"quality_score"`
	ImageStats     types.ImageStats   `json:"image_stats"`
}

// Version is one persisted project version row. Versions are never updated
// after creation; new attempts create new versions.
type Version struct {
	ID            uuid.UUID `json:"id"`
	ProjectID     uuid.UUID `json:"project_id"`
	VersionNumber int       `json:"version_number"`
	VersionInput
	CreatedAt time.Time `json:"created_at"`
}

// LedgerEntry is one append-only credit ledger row; the audit trail is the
// source of truth for support and dispute resolution.
type LedgerEntry struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Amount    int              `json:"amount"` // signed
	Kind      types.LedgerKind `json:"kind"`
	Reason    string           `json:"reason"`
	ProjectID *uuid.UUID       `json:"project_id,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
