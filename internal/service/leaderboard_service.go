package service

import (
	"context"
	"sort"
	"time"

	"progression/internal/models"
	"progression/internal/repository"

	"github.com/google/uuid"
)

type leaderboardService struct {
	statsRepo repository.PlayerStatsRepository
	dailyRepo repository.DailyStatsRepository
}

func NewLeaderboardService(statsRepo repository.PlayerStatsRepository, dailyRepo repository.DailyStatsRepository) LeaderboardService {
	return &leaderboardService{
		statsRepo: statsRepo,
		dailyRepo: dailyRepo,
	}
}

// computeRanking builds the full ranking of one period. The order is total
// and deterministic: composite score desc, all-time XP desc, then user ID
// asc as the final tiebreak, so two computations over the same data always
// agree.
func (s *leaderboardService) computeRanking(ctx context.Context, period models.PeriodKind) ([]models.LeaderboardRow, error) {
	if !models.ValidPeriodKind(period) {
		return nil, models.NewValidationError("unknown leaderboard period: " + string(period))
	}

	players, err := s.statsRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make(map[uuid.UUID]*models.PlayerStats, len(players))
	for i := range players {
		byUser[players[i].UserID] = &players[i]
	}

	var rows []models.LeaderboardRow
	if period == models.PeriodAllTime {
		for i := range players {
			p := &players[i]
			rows = append(rows, models.LeaderboardRow{
				UserID:   p.UserID,
				Score:    models.LeaderboardScore(p.XP, int64(p.MeetingsCompleted), int64(p.CallsCompleted)),
				Level:    p.Level,
				XP:       p.XP,
				Calls:    int64(p.CallsCompleted),
				Meetings: int64(p.MeetingsCompleted),
				Deals:    int64(p.DealsClosed),
				Streak:   p.CurrentStreak,
			})
		}
	} else {
		start, end := models.PeriodWindow(period, time.Now())
		totals, err := s.dailyRepo.SumWindow(ctx, start, end)
		if err != nil {
			return nil, err
		}

		for _, t := range totals {
			p, ok := byUser[t.UserID]
			if !ok {
				continue
			}
			rows = append(rows, models.LeaderboardRow{
				UserID:   t.UserID,
				Score:    models.LeaderboardScore(t.XP, t.Meetings, t.Calls),
				Level:    p.Level,
				XP:       p.XP,
				Calls:    t.Calls,
				Meetings: t.Meetings,
				Deals:    t.Deals,
				Streak:   p.CurrentStreak,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		xi, xj := byUser[rows[i].UserID].XP, byUser[rows[j].UserID].XP
		if xi != xj {
			return xi > xj
		}
		return rows[i].UserID.String() < rows[j].UserID.String()
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}

	return rows, nil
}

// GetRanking retrieves the top of a period ranking
func (s *leaderboardService) GetRanking(ctx context.Context, period models.PeriodKind, limit int) ([]models.LeaderboardRow, error) {
	rows, err := s.computeRanking(ctx, period)
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// GetRankProgress describes a player's position and the score still needed
// to overtake the player ranked just above
func (s *leaderboardService) GetRankProgress(ctx context.Context, userID uuid.UUID, period models.PeriodKind) (*models.RankProgress, error) {
	rows, err := s.computeRanking(ctx, period)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		if row.UserID != userID {
			continue
		}

		progress := &models.RankProgress{
			Rank:  row.Rank,
			Score: row.Score,
		}
		if i > 0 {
			above := rows[i-1]
			progress.NextRank = above.Rank
			progress.NextScore = above.Score
			progress.ScoreNeeded = models.ScoreNeededToOvertake(row.Score, above.Score)
		}
		return progress, nil
	}

	// Not ranked yet: no activity in the period.
	return &models.RankProgress{Rank: 0, Score: 0}, nil
}

// GetNeighbors retrieves the ranking slice centered on a player
func (s *leaderboardService) GetNeighbors(ctx context.Context, userID uuid.UUID, period models.PeriodKind, span int) ([]models.LeaderboardRow, error) {
	rows, err := s.computeRanking(ctx, period)
	if err != nil {
		return nil, err
	}
	if span < 0 {
		span = 0
	}

	for i, row := range rows {
		if row.UserID != userID {
			continue
		}
		lo := i - span
		if lo < 0 {
			lo = 0
		}
		hi := i + span + 1
		if hi > len(rows) {
			hi = len(rows)
		}
		return rows[lo:hi], nil
	}

	return nil, nil
}

// GetTopPerformers retrieves the category leaders: the all-time ranking
// re-sorted by calls, meetings and streak
func (s *leaderboardService) GetTopPerformers(ctx context.Context, size int) (*models.TopPerformers, error) {
	rows, err := s.computeRanking(ctx, models.PeriodAllTime)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 5
	}

	top := func(less func(i, j models.LeaderboardRow) bool) []models.LeaderboardRow {
		sorted := make([]models.LeaderboardRow, len(rows))
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
		if len(sorted) > size {
			sorted = sorted[:size]
		}
		return sorted
	}

	return &models.TopPerformers{
		ByCalls:    top(func(i, j models.LeaderboardRow) bool { return i.Calls > j.Calls }),
		ByMeetings: top(func(i, j models.LeaderboardRow) bool { return i.Meetings > j.Meetings }),
		ByStreak:   top(func(i, j models.LeaderboardRow) bool { return i.Streak > j.Streak }),
	}, nil
}
