package repository

import (
	"context"
	"database/sql"
	"fmt"

	"progression/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type achievementRepository struct {
	db *sqlx.DB
}

func NewAchievementRepository(db *sqlx.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

const achievementColumns = `
	id, slug, name, description, category, rarity,
	requirement_field, requirement_value, xp_reward, coins_reward,
	icon, is_active, created_at`

// Create creates a new achievement definition
func (r *achievementRepository) Create(ctx context.Context, achievement *models.Achievement) error {
	if err := achievement.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO achievements (
			id, slug, name, description, category, rarity,
			requirement_field, requirement_value, xp_reward, coins_reward,
			icon, is_active, created_at
		) VALUES (
			:id, :slug, :name, :description, :category, :rarity,
			:requirement_field, :requirement_value, :xp_reward, :coins_reward,
			:icon, :is_active, :created_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, achievement)
	if err != nil {
		return fmt.Errorf("failed to create achievement: %w", err)
	}

	return nil
}

// GetByID retrieves an achievement by ID
func (r *achievementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Achievement, error) {
	query := `SELECT ` + achievementColumns + ` FROM achievements WHERE id = $1`

	var achievement models.Achievement
	err := r.db.GetContext(ctx, &achievement, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewNotFoundError("achievement", id.String())
		}
		return nil, fmt.Errorf("failed to get achievement: %w", err)
	}

	return &achievement, nil
}

// ListActive retrieves all active achievement definitions
func (r *achievementRepository) ListActive(ctx context.Context) ([]models.Achievement, error) {
	query := `SELECT ` + achievementColumns + ` FROM achievements WHERE is_active ORDER BY requirement_value ASC`

	var achievements []models.Achievement
	err := r.db.SelectContext(ctx, &achievements, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}

	return achievements, nil
}

// UnlockedIDs retrieves the set of achievements a player has already unlocked
func (r *achievementRepository) UnlockedIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids,
		`SELECT achievement_id FROM player_achievements WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unlocked achievements: %w", err)
	}

	unlocked := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		unlocked[id] = true
	}
	return unlocked, nil
}

// InsertUnlock claims an achievement unlock for a player. The unique
// constraint makes concurrent claims race-safe: exactly one caller gets
// true, everyone else gets false.
func (r *achievementRepository) InsertUnlock(ctx context.Context, userID, achievementID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO player_achievements (user_id, achievement_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, achievement_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, userID, achievementID)
	if err != nil {
		return false, fmt.Errorf("failed to insert achievement unlock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// ListUnlocks retrieves a player's unlock history, newest first
func (r *achievementRepository) ListUnlocks(ctx context.Context, userID uuid.UUID) ([]models.UnlockRecord, error) {
	query := `
		SELECT id, user_id, achievement_id, reward_granted, unlocked_at
		FROM player_achievements
		WHERE user_id = $1
		ORDER BY unlocked_at DESC`

	var unlocks []models.UnlockRecord
	err := r.db.SelectContext(ctx, &unlocks, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievement unlocks: %w", err)
	}

	return unlocks, nil
}

// ListPendingRewards retrieves unlocks whose rewards have not been granted yet
func (r *achievementRepository) ListPendingRewards(ctx context.Context, userID uuid.UUID) ([]models.UnlockRecord, error) {
	query := `
		SELECT id, user_id, achievement_id, reward_granted, unlocked_at
		FROM player_achievements
		WHERE user_id = $1 AND NOT reward_granted
		ORDER BY unlocked_at ASC`

	var unlocks []models.UnlockRecord
	err := r.db.SelectContext(ctx, &unlocks, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending achievement rewards: %w", err)
	}

	return unlocks, nil
}

// MarkRewardGranted flags an unlock as rewarded
func (r *achievementRepository) MarkRewardGranted(ctx context.Context, unlockID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE player_achievements SET reward_granted = true WHERE id = $1 AND NOT reward_granted`, unlockID)
	if err != nil {
		return fmt.Errorf("failed to mark reward granted: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.NewNotFoundError("achievement unlock", unlockID.String())
	}

	return nil
}

// ResetRewardPending releases a reward claim so a later grant pass can
// pay it out again
func (r *achievementRepository) ResetRewardPending(ctx context.Context, unlockID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE player_achievements SET reward_granted = false WHERE id = $1`, unlockID)
	if err != nil {
		return fmt.Errorf("failed to reset pending reward: %w", err)
	}

	return nil
}

// SeedDefaults inserts the default achievement catalog, skipping entries
// that already exist
func (r *achievementRepository) SeedDefaults(ctx context.Context) error {
	query := `
		INSERT INTO achievements (
			slug, name, description, category, rarity,
			requirement_field, requirement_value, xp_reward, coins_reward, icon
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) ON CONFLICT (slug) DO NOTHING`

	for _, a := range models.DefaultAchievements() {
		_, err := r.db.ExecContext(ctx, query,
			a.Slug, a.Name, a.Description, a.Category, a.Rarity,
			a.RequirementField, a.RequirementValue, a.XPReward, a.CoinsReward, a.Icon)
		if err != nil {
			return fmt.Errorf("failed to seed achievement %q: %w", a.Slug, err)
		}
	}

	return nil
}
