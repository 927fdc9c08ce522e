package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// CreateProject creates a new project in pending status and returns its ID.
func (db *DB) CreateProject(ctx context.Context, userID uuid.UUID, title string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO projects (user_id, title, status)
		 VALUES ($1, $2, 'pending')
		 RETURNING id`,
		userID, title,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create project: %w", err)
	}
	return id, nil
}

// GetProject retrieves a project by ID. Returns nil when not found.
func (db *DB) GetProject(ctx context.Context, projectID uuid.UUID) (*Project, error) {
	var p Project
	var errMsg *string
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, title, status, error_message, created_at, updated_at
		 FROM projects WHERE id = $1`,
		projectID,
	).Scan(&p.ID, &p.UserID, &p.Title, &p.Status, &errMsg, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if errMsg != nil {
		p.ErrorMessage = *errMsg
	}
	return &p, nil
}

// MarkGenerating transitions a project to generating status.
func (db *DB) MarkGenerating(ctx context.Context, projectID uuid.UUID) error {
	return db.setStatus(ctx, projectID, types.StatusGenerating, "")
}

// MarkCompleted transitions a project to completed status.
func (db *DB) MarkCompleted(ctx context.Context, projectID uuid.UUID) error {
	return db.setStatus(ctx, projectID, types.StatusCompleted, "")
}

// MarkFailed transitions a project to failed status. The message must be
// usable directly as user-facing text.
func (db *DB) MarkFailed(ctx context.Context, projectID uuid.UUID, message string) error {
	return db.setStatus(ctx, projectID, types.StatusFailed, message)
}

func (db *DB) setStatus(ctx context.Context, projectID uuid.UUID, status types.ProjectStatus, message string) error {
	var errMsg *string
	if message != "" {
		errMsg = &message
	}
	_, err := db.pool.Exec(ctx,
		`UPDATE projects SET status = $1, error_message = $2, updated_at = NOW() WHERE id = $3`,
		status, errMsg, projectID,
	)
	if err != nil {
		return fmt.Errorf("failed to set project status %s: %w", status, err)
	}
	return nil
}
