package models

import (
	"time"

	"github.com/google/uuid"
)

// PeriodKind est la fenêtre temporelle d'un classement.
type PeriodKind string

const (
	PeriodDaily   PeriodKind = "daily"
	PeriodWeekly  PeriodKind = "weekly"
	PeriodMonthly PeriodKind = "monthly"
	PeriodAllTime PeriodKind = "all_time"
)

// ValidPeriodKind vérifie qu'une période fait partie de l'enum fermé.
func ValidPeriodKind(period PeriodKind) bool {
	switch period {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAllTime:
		return true
	default:
		return false
	}
}

// Pondération du score composite de classement.
const (
	scoreXPWeight      = 1
	scoreMeetingWeight = 100
	scoreCallWeight    = 50
)

// LeaderboardScore calcule le score composite d'une période.
func LeaderboardScore(periodXP, periodMeetings, periodCalls int64) int64 {
	return periodXP*scoreXPWeight + periodMeetings*scoreMeetingWeight + periodCalls*scoreCallWeight
}

// PeriodTotals agrège l'activité d'un joueur sur une fenêtre.
type PeriodTotals struct {
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	XP       int64     `json:"xp" db:"xp"`
	Calls    int64     `json:"calls" db:"calls"`
	Meetings int64     `json:"meetings" db:"meetings"`
	Deals    int64     `json:"deals" db:"deals"`
}

// LeaderboardRow est une ligne de classement.
// L'ordre est total et déterministe : score desc, puis XP cumulée desc,
// puis identifiant joueur croissant.
type LeaderboardRow struct {
	Rank     int       `json:"rank"`
	UserID   uuid.UUID `json:"user_id"`
	Score    int64     `json:"score"`
	Level    int       `json:"level"`
	XP       int64     `json:"xp"`
	Calls    int64     `json:"calls"`
	Meetings int64     `json:"meetings"`
	Deals    int64     `json:"deals"`
	Streak   int       `json:"streak"`
}

// RankProgress décrit l'écart d'un joueur vers le rang supérieur.
// ScoreNeeded est le score strictement nécessaire pour dépasser le
// joueur juste au-dessus.
type RankProgress struct {
	Rank        int   `json:"rank"`
	Score       int64 `json:"score"`
	NextRank    int   `json:"next_rank,omitempty"`
	NextScore   int64 `json:"next_score,omitempty"`
	ScoreNeeded int64 `json:"score_needed"`
}

// ScoreNeededToOvertake retourne le score à gagner pour passer devant
// nextScore.
func ScoreNeededToOvertake(currentScore, nextScore int64) int64 {
	needed := nextScore - currentScore + 1
	if needed < 0 {
		return 0
	}
	return needed
}

// TopPerformers regroupe les meneurs par catégorie d'activité.
type TopPerformers struct {
	ByCalls    []LeaderboardRow `json:"by_calls"`
	ByMeetings []LeaderboardRow `json:"by_meetings"`
	ByStreak   []LeaderboardRow `json:"by_streak"`
}

// PeriodWindow retourne les bornes [start, end) d'une période de
// classement en UTC. all_time retourne une fenêtre ouverte.
func PeriodWindow(period PeriodKind, now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	switch period {
	case PeriodDaily:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 0, 1)
	case PeriodWeekly:
		// La semaine commence le lundi.
		offset := (int(now.Weekday()) + 6) % 7
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	case PeriodMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	default:
		return time.Time{}, now.AddDate(100, 0, 0)
	}
}
