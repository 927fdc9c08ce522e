package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// SavePlanSnapshot stores the frozen content plan for a project run. Callers
// treat a failure here as non-fatal: the version record, not the snapshot, is
// the durable artifact.
func (db *DB) SavePlanSnapshot(ctx context.Context, projectID uuid.UUID, plan *types.ContentPlan, wasRepaired bool) error {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO plan_snapshots (project_id, plan, was_repaired)
		 VALUES ($1, $2, $3)`,
		projectID, planJSON, wasRepaired,
	)
	if err != nil {
		return fmt.Errorf("failed to save plan snapshot: %w", err)
	}
	return nil
}
