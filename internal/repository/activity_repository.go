package repository

import (
	"context"
	"fmt"

	"progression/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type activityRepository struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Insert appends an entry to the activity feed
func (r *activityRepository) Insert(ctx context.Context, activity *models.Activity) error {
	query := `
		INSERT INTO activities (user_id, kind, message, xp_gained)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		activity.UserID, activity.Kind, activity.Message, activity.XPGained)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	return nil
}

// ListRecent retrieves a player's activity feed, newest first
func (r *activityRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Activity, error) {
	query := `
		SELECT id, user_id, kind, message, xp_gained, created_at
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var activities []models.Activity
	err := r.db.SelectContext(ctx, &activities, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	return activities, nil
}
