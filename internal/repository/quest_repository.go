package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"progression/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type questRepository struct {
	db *sqlx.DB
}

func NewQuestRepository(db *sqlx.DB) QuestRepository {
	return &questRepository{db: db}
}

const questColumns = `
	id, name, description, action_kind, target_amount,
	xp_reward, coins_reward, difficulty, type, expires_at, is_active, created_at`

// CreateTemplate creates a new quest definition
func (r *questRepository) CreateTemplate(ctx context.Context, quest *models.QuestTemplate) error {
	if err := quest.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO quests (
			id, name, description, action_kind, target_amount,
			xp_reward, coins_reward, difficulty, type, expires_at, is_active, created_at
		) VALUES (
			:id, :name, :description, :action_kind, :target_amount,
			:xp_reward, :coins_reward, :difficulty, :type, :expires_at, :is_active, :created_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, quest)
	if err != nil {
		return fmt.Errorf("failed to create quest: %w", err)
	}

	return nil
}

// GetTemplate retrieves a quest definition by ID
func (r *questRepository) GetTemplate(ctx context.Context, id uuid.UUID) (*models.QuestTemplate, error) {
	query := `SELECT ` + questColumns + ` FROM quests WHERE id = $1`

	var quest models.QuestTemplate
	err := r.db.GetContext(ctx, &quest, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewNotFoundError("quest", id.String())
		}
		return nil, fmt.Errorf("failed to get quest: %w", err)
	}

	return &quest, nil
}

// ListActiveTemplates retrieves the active quest definitions of one type
func (r *questRepository) ListActiveTemplates(ctx context.Context, questType models.QuestType) ([]models.QuestTemplate, error) {
	query := `SELECT ` + questColumns + ` FROM quests WHERE is_active AND type = $1 ORDER BY difficulty ASC`

	var quests []models.QuestTemplate
	err := r.db.SelectContext(ctx, &quests, query, questType)
	if err != nil {
		return nil, fmt.Errorf("failed to list quests: %w", err)
	}

	return quests, nil
}

// AssignInstance assigns a quest to a player for one window. The unique
// constraint is scoped to (user, quest, window start), so the same daily or
// weekly template gets a fresh instance each window while re-assigning
// within a window stays a no-op and returns false. Permanent quests use the
// zero window start and are therefore assigned at most once ever.
func (r *questRepository) AssignInstance(ctx context.Context, userID, questID uuid.UUID, windowStart time.Time) (bool, error) {
	query := `
		INSERT INTO player_quests (user_id, quest_id, window_start)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, quest_id, window_start) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, userID, questID, windowStart)
	if err != nil {
		return false, fmt.Errorf("failed to assign quest: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// ListOpenInstances retrieves a player's incomplete, unexpired quests with
// their templates
func (r *questRepository) ListOpenInstances(ctx context.Context, userID uuid.UUID) ([]models.QuestInstance, error) {
	query := `
		SELECT pq.id, pq.user_id, pq.quest_id, pq.progress, pq.window_start, pq.assigned_at, pq.completed_at
		FROM player_quests pq
		JOIN quests q ON q.id = pq.quest_id
		WHERE pq.user_id = $1
		  AND pq.completed_at IS NULL
		  AND (q.expires_at IS NULL OR q.expires_at > CURRENT_TIMESTAMP)
		ORDER BY pq.assigned_at ASC`

	var instances []models.QuestInstance
	err := r.db.SelectContext(ctx, &instances, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list open quests: %w", err)
	}

	for i := range instances {
		template, err := r.GetTemplate(ctx, instances[i].QuestID)
		if err != nil {
			return nil, err
		}
		instances[i].Template = template
	}

	return instances, nil
}

// ListInstances retrieves a player's quest history, newest first
func (r *questRepository) ListInstances(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.QuestInstance, error) {
	query := `
		SELECT id, user_id, quest_id, progress, window_start, assigned_at, completed_at
		FROM player_quests
		WHERE user_id = $1
		ORDER BY assigned_at DESC
		LIMIT $2 OFFSET $3`

	var instances []models.QuestInstance
	err := r.db.SelectContext(ctx, &instances, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list quests: %w", err)
	}

	return instances, nil
}

// IncrementProgress advances a quest instance, clamping at its target. When
// the target is hit the same statement claims the completion: the
// completed_at IS NULL guard guarantees the rewards fire exactly once no
// matter how many callers race here.
func (r *questRepository) IncrementProgress(ctx context.Context, instanceID uuid.UUID, delta, target int64) (bool, int64, error) {
	if delta <= 0 {
		return false, 0, models.NewValidationError("progress delta must be positive")
	}

	query := `
		UPDATE player_quests SET
			progress = LEAST(progress + $1, $2),
			completed_at = CASE
				WHEN progress + $1 >= $2 THEN CURRENT_TIMESTAMP
				ELSE NULL
			END
		WHERE id = $3 AND completed_at IS NULL
		RETURNING progress, completed_at IS NOT NULL`

	var progress int64
	var completed bool
	err := r.db.QueryRowxContext(ctx, query, delta, target, instanceID).Scan(&progress, &completed)
	if err != nil {
		if err == sql.ErrNoRows {
			// Already completed or unknown instance: nothing to do.
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("failed to increment quest progress: %w", err)
	}

	return completed, progress, nil
}

// HasInstanceSince reports whether the player already received a quest of
// the given type in the current assignment window. The check runs on the
// instance's window start, not the wall-clock assignment time, so a late
// catch-up assignment still lands in the right window.
func (r *questRepository) HasInstanceSince(ctx context.Context, userID uuid.UUID, questType models.QuestType, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM player_quests pq
			JOIN quests q ON q.id = pq.quest_id
			WHERE pq.user_id = $1 AND q.type = $2 AND pq.window_start >= $3
		)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, questType, since)
	if err != nil {
		return false, fmt.Errorf("failed to check quest assignment window: %w", err)
	}

	return exists, nil
}

// ExpireStale deactivates quest templates whose expiry has passed. Their
// open instances stay in place for history but stop matching actions.
func (r *questRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE quests SET is_active = false WHERE is_active AND expires_at IS NOT NULL AND expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire quests: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// SeedDefaults inserts the default quest catalog, skipping entries that
// already exist
func (r *questRepository) SeedDefaults(ctx context.Context) error {
	for _, q := range models.DefaultQuests() {
		var exists bool
		err := r.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM quests WHERE name = $1 AND type = $2)`, q.Name, q.Type)
		if err != nil {
			return fmt.Errorf("failed to check quest %q: %w", q.Name, err)
		}
		if exists {
			continue
		}

		_, err = r.db.ExecContext(ctx, `
			INSERT INTO quests (name, description, action_kind, target_amount,
				xp_reward, coins_reward, difficulty, type)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			q.Name, q.Description, q.ActionKind, q.TargetAmount,
			q.XPReward, q.CoinsReward, q.Difficulty, q.Type)
		if err != nil {
			return fmt.Errorf("failed to seed quest %q: %w", q.Name, err)
		}
	}

	return nil
}
