package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/google/uuid"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// maxVersionInsertRetries bounds the retry loop when concurrent generation
// attempts race for the same version number.
const maxVersionInsertRetries = 5

// InsertVersion persists a new project version and returns its assigned
// version number, strictly increasing per project. Concurrent inserts for the
// same project race on the unique (project_id, version_number) constraint and
// retry, so no two versions ever share a number.
func (db *DB) InsertVersion(ctx context.Context, input *VersionInput) (int, error) {
	docsJSON, err := json.Marshal(input.Documents)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal documents: %w", err)
	}
	statsJSON, err := json.Marshal(input.ImageStats)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal image stats: %w", err)
	}

	for attempt := 0; attempt < maxVersionInsertRetries; attempt++ {
		var versionNumber int
		err = db.pool.QueryRow(ctx,
			`INSERT INTO project_versions
			   (project_id, version_number, kind, documents, input_tokens, output_tokens,
			    credits_charged, quality_score, image_stats)
			 VALUES ($1,
			         (SELECT COALESCE(MAX(version_number), 0) + 1 FROM project_versions WHERE project_id = $1),
			         $2, $3, $4, $5, $6, $7, $8)
			 RETURNING version_number`,
			input.ProjectID, input.Kind, docsJSON, input.InputTokens, input.OutputTokens,
			input.CreditsCharged, input.QualityScore, statsJSON,
		).Scan(&versionNumber)
		if err == nil {
			return versionNumber, nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			continue // lost the race, recompute the number
		}
		return 0, fmt.Errorf("failed to insert version: %w", err)
	}

	return 0, fmt.Errorf("failed to insert version after %d attempts: %w", maxVersionInsertRetries, err)
}

// ListVersions returns all versions for a project, newest first.
func (db *DB) ListVersions(ctx context.Context, projectID uuid.UUID) ([]Version, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, project_id, version_number, kind, documents, input_tokens, output_tokens,
		        credits_charged, quality_score, image_stats, created_at
		 FROM project_versions
		 WHERE project_id = $1
		 ORDER BY version_number DESC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var versions []Version
	for rows.Next() {
		var v Version
		var docsJSON, statsJSON []byte
		if err := rows.Scan(&v.ID, &v.ProjectID, &v.VersionNumber, &v.Kind, &docsJSON,
			&v.InputTokens, &v.OutputTokens, &v.CreditsCharged, &v.QualityScore,
			&statsJSON, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		if err := json.Unmarshal(docsJSON, &v.Documents); err != nil {
			return nil, fmt.Errorf("failed to unmarshal documents: %w", err)
		}
		if statsJSON != nil {
			_ = json.Unmarshal(statsJSON, &v.ImageStats)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}
