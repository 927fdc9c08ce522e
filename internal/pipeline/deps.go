// Package pipeline provides the high-level orchestration for teacher pack
// generation: it owns the credit lifecycle, sequences the generation phases,
// persists the resulting version, and drives project status.
package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/theronnieguidry/teachers-assistant/internal/credits"
	"github.com/theronnieguidry/teachers-assistant/internal/db"
	"github.com/theronnieguidry/teachers-assistant/internal/images"
	"github.com/theronnieguidry/teachers-assistant/internal/llm"
	"github.com/theronnieguidry/teachers-assistant/internal/observability"
	"github.com/theronnieguidry/teachers-assistant/internal/stock"
	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// Store is the persistence surface the orchestrator needs. Implemented by
// *db.DB.
type Store interface {
	MarkGenerating(ctx context.Context, projectID uuid.UUID) error
	MarkCompleted(ctx context.Context, projectID uuid.UUID) error
	MarkFailed(ctx context.Context, projectID uuid.UUID, message string) error
	InsertVersion(ctx context.Context, input *db.VersionInput) (int, error)
	SavePlanSnapshot(ctx context.Context, projectID uuid.UUID, plan *types.ContentPlan, wasRepaired bool) error
}

// MaterialParser reduces inspiration materials to a text block.
type MaterialParser interface {
	Parse(ctx context.Context, materials []types.InspirationMaterial) string
}

// Deps is the orchestrator's dependency set, assembled once per process.
type Deps struct {
	Store      Store
	Ledger     *credits.Ledger
	Client     llm.Client
	Parser     MaterialParser
	Stock      *stock.Substituter
	ImageCache *images.Cache
	Printer    *observability.Printer
	Verbose    bool
}

// printer returns the diagnostic printer only when verbose output is enabled,
// so pipeline phases can print unconditionally through the nil check.
func (d *Deps) printer() *observability.Printer {
	if !d.Verbose {
		return nil
	}
	return d.Printer
}

// Fixed reservation estimates per pipeline, in credits. The lesson-plan
// estimate is the highest, reflecting the extra teacher-script generation.
const (
	estimateStandard   = 20
	estimateWorksheet  = 35
	estimateLessonPlan = 50
)

func estimateFor(kind types.PipelineKind) int {
	switch kind {
	case types.PipelineWorksheet:
		return estimateWorksheet
	case types.PipelineLessonPlan:
		return estimateLessonPlan
	default:
		return estimateStandard
	}
}
