package repository

import (
	"context"
	"fmt"
	"time"

	"progression/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type dailyStatsRepository struct {
	db *sqlx.DB
}

func NewDailyStatsRepository(db *sqlx.DB) DailyStatsRepository {
	return &dailyStatsRepository{db: db}
}

// RecordDeltas upserts activity counters into the per-day aggregate bucket
func (r *dailyStatsRepository) RecordDeltas(ctx context.Context, userID uuid.UUID, day time.Time, xp, calls, meetings, deals int64) error {
	query := `
		INSERT INTO daily_user_stats (user_id, day, xp, calls, meetings, deals)
		VALUES ($1, $2::date, $3, $4, $5, $6)
		ON CONFLICT (user_id, day) DO UPDATE SET
			xp = daily_user_stats.xp + EXCLUDED.xp,
			calls = daily_user_stats.calls + EXCLUDED.calls,
			meetings = daily_user_stats.meetings + EXCLUDED.meetings,
			deals = daily_user_stats.deals + EXCLUDED.deals`

	_, err := r.db.ExecContext(ctx, query, userID, day.UTC().Format("2006-01-02"), xp, calls, meetings, deals)
	if err != nil {
		return fmt.Errorf("failed to record daily stats: %w", err)
	}

	return nil
}

// SumWindow aggregates per-player activity over [start, end)
func (r *dailyStatsRepository) SumWindow(ctx context.Context, start, end time.Time) ([]models.PeriodTotals, error) {
	query := `
		SELECT user_id,
		       COALESCE(SUM(xp), 0) AS xp,
		       COALESCE(SUM(calls), 0) AS calls,
		       COALESCE(SUM(meetings), 0) AS meetings,
		       COALESCE(SUM(deals), 0) AS deals
		FROM daily_user_stats
		WHERE day >= $1::date AND day < $2::date
		GROUP BY user_id`

	var totals []models.PeriodTotals
	err := r.db.SelectContext(ctx, &totals, query,
		start.UTC().Format("2006-01-02"), end.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to sum daily stats: %w", err)
	}

	return totals, nil
}
