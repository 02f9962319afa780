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

type playerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) PlayerStatsRepository {
	return &playerStatsRepository{db: db}
}

const playerStatsColumns = `
	user_id, level, xp, coins,
	calls_completed, meetings_completed, training_sessions_completed, deals_closed,
	current_streak, longest_streak, last_activity_date, total_pipeline_value,
	objection_handling_score, rapport_building_score, discovery_score, closing_score, value_proposition_score,
	created_at, updated_at`

// Create creates a new player stats profile
func (r *playerStatsRepository) Create(ctx context.Context, stats *models.PlayerStats) error {
	query := `
		INSERT INTO player_stats (user_id, level, xp, coins, created_at, updated_at)
		VALUES (:user_id, :level, :xp, :coins, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, stats)
	if err != nil {
		return fmt.Errorf("failed to create player stats: %w", err)
	}

	return nil
}

// GetByUserID retrieves player stats by user ID
func (r *playerStatsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.PlayerStats, error) {
	query := `SELECT ` + playerStatsColumns + ` FROM player_stats WHERE user_id = $1`

	var stats models.PlayerStats
	err := r.db.GetContext(ctx, &stats, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewNotFoundError("player", userID.String())
		}
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}

	return &stats, nil
}

// GetOrCreate retrieves player stats, creating a fresh profile on first access
func (r *playerStatsRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.PlayerStats, error) {
	query := `
		INSERT INTO player_stats (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return nil, fmt.Errorf("failed to ensure player stats: %w", err)
	}

	return r.GetByUserID(ctx, userID)
}

// ListAll retrieves all player stats profiles
func (r *playerStatsRepository) ListAll(ctx context.Context) ([]models.PlayerStats, error) {
	query := `SELECT ` + playerStatsColumns + ` FROM player_stats`

	var all []models.PlayerStats
	err := r.db.SelectContext(ctx, &all, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list player stats: %w", err)
	}

	return all, nil
}

// AwardXP atomically adds XP to a player, recomputes the level, grants the
// coin reward (default or override) plus level-up bonuses, and records the
// transaction in the audit trail. Negative amounts are corrections: they
// flow through the same path, with the resulting XP clamped at zero and no
// default coin reward. The whole operation runs in a single database
// transaction holding a row lock on the player.
func (r *playerStatsRepository) AwardXP(ctx context.Context, userID uuid.UUID, amount int64, coinsOverride *int64,
	reason string, sourceKind models.SourceKind, sourceID string) (*models.AwardResult, error) {

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current struct {
		XP    int64 `db:"xp"`
		Level int   `db:"level"`
		Coins int64 `db:"coins"`
	}
	err = tx.GetContext(ctx, &current,
		`SELECT xp, level, coins FROM player_stats WHERE user_id = $1 FOR UPDATE`, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewNotFoundError("player", userID.String())
		}
		return nil, fmt.Errorf("failed to lock player stats: %w", err)
	}

	newXP := current.XP + amount
	if newXP < 0 {
		newXP = 0
	}
	newLevel := models.LevelForXP(newXP)

	var coins int64
	if coinsOverride != nil {
		coins = *coinsOverride
	} else if amount > 0 {
		coins = models.DefaultCoinReward(amount)
	}
	for level := current.Level + 1; level <= newLevel; level++ {
		coins += models.LevelUpCoinBonus(level)
	}

	var newCoins int64
	err = tx.GetContext(ctx, &newCoins,
		`UPDATE player_stats SET xp = $1, level = $2, coins = coins + $3 WHERE user_id = $4 RETURNING coins`,
		newXP, newLevel, coins, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to apply xp award: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO xp_transactions (user_id, amount, reason, source_kind, source_id)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''))`,
		userID, amount, reason, sourceKind, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to record xp transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO daily_user_stats (user_id, day, xp)
		 VALUES ($1, CURRENT_DATE, $2)
		 ON CONFLICT (user_id, day) DO UPDATE SET xp = daily_user_stats.xp + EXCLUDED.xp`,
		userID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to record daily xp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.AwardResult{
		NewXP:        newXP,
		NewLevel:     newLevel,
		LeveledUp:    newLevel > current.Level,
		CoinsGranted: coins,
		NewCoins:     newCoins,
	}, nil
}

// DebitCoins atomically removes coins from a player's balance. The debit is a
// single conditional update so a balance can never go negative, even under
// concurrent spends. Returns the remaining balance.
func (r *playerStatsRepository) DebitCoins(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, models.NewValidationError("debit amount must be positive")
	}

	var remaining int64
	err := r.db.GetContext(ctx, &remaining,
		`UPDATE player_stats SET coins = coins - $1 WHERE user_id = $2 AND coins >= $1 RETURNING coins`,
		amount, userID)
	if err == nil {
		return remaining, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to debit coins: %w", err)
	}

	// The conditional update matched nothing: missing player or not enough coins.
	stats, getErr := r.GetByUserID(ctx, userID)
	if getErr != nil {
		return 0, getErr
	}
	return stats.Coins, models.NewInsufficientFundsError(amount, stats.Coins)
}

// GrantCoins atomically adds coins to a player's balance
func (r *playerStatsRepository) GrantCoins(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, models.NewValidationError("grant amount must be positive")
	}

	var balance int64
	err := r.db.GetContext(ctx, &balance,
		`UPDATE player_stats SET coins = coins + $1 WHERE user_id = $2 RETURNING coins`,
		amount, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, models.NewNotFoundError("player", userID.String())
		}
		return 0, fmt.Errorf("failed to grant coins: %w", err)
	}

	return balance, nil
}

// counterColumns maps the closed counter enum to physical columns. Only
// additive lifetime counters are listed; streaks go through UpdateStreak.
var counterColumns = map[models.CounterField]string{
	models.CounterCalls:         "calls_completed",
	models.CounterMeetings:      "meetings_completed",
	models.CounterTraining:      "training_sessions_completed",
	models.CounterDeals:         "deals_closed",
	models.CounterPipelineValue: "total_pipeline_value",
}

// IncrementCounter atomically increments a lifetime counter
func (r *playerStatsRepository) IncrementCounter(ctx context.Context, userID uuid.UUID, field models.CounterField, delta int64) error {
	column, ok := counterColumns[field]
	if !ok {
		return models.NewValidationError("counter field is not incrementable: " + string(field))
	}

	query := fmt.Sprintf(`UPDATE player_stats SET %s = %s + $1 WHERE user_id = $2`, column, column)
	result, err := r.db.ExecContext(ctx, query, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to increment counter: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.NewNotFoundError("player", userID.String())
	}

	return nil
}

// UpdateStreak registers activity on a given date and maintains the daily
// streak: same day keeps it, the next day extends it, any gap resets it to 1.
// Returns the resulting current streak.
func (r *playerStatsRepository) UpdateStreak(ctx context.Context, userID uuid.UUID, activityDate time.Time) (int, error) {
	day := activityDate.UTC().Format("2006-01-02")

	query := `
		UPDATE player_stats SET
			current_streak = CASE
				WHEN last_activity_date = $2::date THEN current_streak
				WHEN last_activity_date = $2::date - 1 THEN current_streak + 1
				ELSE 1
			END,
			longest_streak = GREATEST(longest_streak, CASE
				WHEN last_activity_date = $2::date THEN current_streak
				WHEN last_activity_date = $2::date - 1 THEN current_streak + 1
				ELSE 1
			END),
			last_activity_date = $2::date
		WHERE user_id = $1
		RETURNING current_streak`

	var streak int
	err := r.db.GetContext(ctx, &streak, query, userID, day)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, models.NewNotFoundError("player", userID.String())
		}
		return 0, fmt.Errorf("failed to update streak: %w", err)
	}

	return streak, nil
}

var skillColumns = map[string]string{
	"objection_handling": "objection_handling_score",
	"rapport_building":   "rapport_building_score",
	"discovery":          "discovery_score",
	"closing":            "closing_score",
	"value_proposition":  "value_proposition_score",
}

// UpdateSkillScore sets a skill score, keeping the best value observed
func (r *playerStatsRepository) UpdateSkillScore(ctx context.Context, userID uuid.UUID, skill string, score int) error {
	column, ok := skillColumns[skill]
	if !ok {
		return models.NewValidationError("unknown skill: " + skill)
	}

	query := fmt.Sprintf(`UPDATE player_stats SET %s = GREATEST(%s, $1) WHERE user_id = $2`, column, column)
	result, err := r.db.ExecContext(ctx, query, score, userID)
	if err != nil {
		return fmt.Errorf("failed to update skill score: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.NewNotFoundError("player", userID.String())
	}

	return nil
}

// ListTransactions retrieves the XP audit trail for a player, newest first
func (r *playerStatsRepository) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.XPTransaction, error) {
	query := `
		SELECT id, user_id, amount, reason, source_kind, COALESCE(source_id, '') AS source_id, created_at
		FROM xp_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var transactions []models.XPTransaction
	err := r.db.SelectContext(ctx, &transactions, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list xp transactions: %w", err)
	}

	return transactions, nil
}
