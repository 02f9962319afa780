package models

import (
	"time"

	"github.com/google/uuid"
)

// PlayerStats représente le compte économie/progression d'un joueur.
// Invariants : xp >= 0, coins >= 0, level == LevelForXP(xp).
// Seul le Ledger écrit level, xp et coins.
type PlayerStats struct {
	UserID uuid.UUID `json:"user_id" db:"user_id"`

	// Statistiques de jeu centrales
	Level int   `json:"level" db:"level"`
	XP    int64 `json:"xp" db:"xp"`
	Coins int64 `json:"coins" db:"coins"`

	// Compteurs de performance
	CallsCompleted            int `json:"calls_completed" db:"calls_completed"`
	MeetingsCompleted         int `json:"meetings_completed" db:"meetings_completed"`
	TrainingSessionsCompleted int `json:"training_sessions_completed" db:"training_sessions_completed"`
	DealsClosed               int `json:"deals_closed" db:"deals_closed"`

	// Séries d'activité
	CurrentStreak    int        `json:"current_streak" db:"current_streak"`
	LongestStreak    int        `json:"longest_streak" db:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty" db:"last_activity_date"`

	// Pipeline commercial
	TotalPipelineValue int64 `json:"total_pipeline_value" db:"total_pipeline_value"`

	// Scores de compétence (0-100)
	ObjectionHandlingScore int `json:"objection_handling_score" db:"objection_handling_score"`
	RapportBuildingScore   int `json:"rapport_building_score" db:"rapport_building_score"`
	DiscoveryScore         int `json:"discovery_score" db:"discovery_score"`
	ClosingScore           int `json:"closing_score" db:"closing_score"`
	ValuePropositionScore  int `json:"value_proposition_score" db:"value_proposition_score"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CheckInvariants vérifie la cohérence niveau/XP du compte. Une violation
// signale un contournement des primitives du Ledger et doit être loggée
// bruyamment par l'appelant, jamais corrigée silencieusement.
func (p *PlayerStats) CheckInvariants() bool {
	return p.XP >= 0 && p.Coins >= 0 && p.Level == LevelForXP(p.XP)
}

// SourceKind identifie l'origine d'une transaction XP.
type SourceKind string

const (
	SourceCallAnalysis SourceKind = "call_analysis"
	SourceTraining     SourceKind = "training"
	SourceAchievement  SourceKind = "achievement"
	SourceQuest        SourceKind = "quest"
	SourceManual       SourceKind = "manual"
)

// XPTransaction est l'enregistrement d'audit immuable d'un mouvement d'XP.
// Append-only : créé par le Ledger à chaque attribution, jamais modifié.
type XPTransaction struct {
	ID       uuid.UUID  `json:"id" db:"id"`
	UserID   uuid.UUID  `json:"user_id" db:"user_id"`
	Amount   int64      `json:"amount" db:"amount"`
	Reason   string     `json:"reason" db:"reason"`
	Source   SourceKind `json:"source" db:"source_kind"`
	SourceID string     `json:"source_id,omitempty" db:"source_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AwardResult est le résultat d'une attribution d'XP par le Ledger.
type AwardResult struct {
	NewXP        int64 `json:"new_xp"`
	NewLevel     int   `json:"new_level"`
	LeveledUp    bool  `json:"leveled_up"`
	CoinsGranted int64 `json:"coins_granted"`
	NewCoins     int64 `json:"new_coins"`
}

// CounterField est le type fermé des compteurs sur lesquels portent les
// conditions d'achievements et de quêtes. Le dispatch est vérifié à la
// compilation, pas par des chaînes de condition arbitraires.
type CounterField string

const (
	CounterCalls         CounterField = "calls_completed"
	CounterMeetings      CounterField = "meetings_completed"
	CounterTraining      CounterField = "training_sessions_completed"
	CounterDeals         CounterField = "deals_closed"
	CounterStreak        CounterField = "current_streak"
	CounterLongestStreak CounterField = "longest_streak"
	CounterPipelineValue CounterField = "total_pipeline_value"
	CounterLevel         CounterField = "level"
	CounterXP            CounterField = "xp"
)

// CounterValue retourne la valeur courante d'un compteur du joueur.
func (p *PlayerStats) CounterValue(field CounterField) int64 {
	switch field {
	case CounterCalls:
		return int64(p.CallsCompleted)
	case CounterMeetings:
		return int64(p.MeetingsCompleted)
	case CounterTraining:
		return int64(p.TrainingSessionsCompleted)
	case CounterDeals:
		return int64(p.DealsClosed)
	case CounterStreak:
		return int64(p.CurrentStreak)
	case CounterLongestStreak:
		return int64(p.LongestStreak)
	case CounterPipelineValue:
		return p.TotalPipelineValue
	case CounterLevel:
		return int64(p.Level)
	case CounterXP:
		return p.XP
	default:
		return 0
	}
}

// ValidCounterField vérifie qu'un champ compteur fait partie de l'enum fermé.
func ValidCounterField(field CounterField) bool {
	switch field {
	case CounterCalls, CounterMeetings, CounterTraining, CounterDeals,
		CounterStreak, CounterLongestStreak, CounterPipelineValue,
		CounterLevel, CounterXP:
		return true
	default:
		return false
	}
}

// XPMultiplier calcule le multiplicateur d'XP d'un joueur :
// 2% par niveau (plafonné à 100%) plus 5% par jour de série (plafonné à 50%).
func (p *PlayerStats) XPMultiplier() float64 {
	multiplier := 1.0

	levelBonus := float64(p.Level) * 0.02
	if levelBonus > 1.0 {
		levelBonus = 1.0
	}
	multiplier += levelBonus

	streakBonus := float64(p.CurrentStreak) * 0.05
	if streakBonus > 0.5 {
		streakBonus = 0.5
	}
	multiplier += streakBonus

	return multiplier
}

// PlayerSummary est l'agrégat sérialisable exposé aux tableaux de bord.
// Jamais de journal de transactions interne dans cette réponse.
type PlayerSummary struct {
	UserID        uuid.UUID     `json:"user_id"`
	Level         int           `json:"level"`
	XP            int64         `json:"xp"`
	Coins         int64         `json:"coins"`
	LevelProgress LevelProgress `json:"level_progress"`

	CallsCompleted            int   `json:"calls_completed"`
	MeetingsCompleted         int   `json:"meetings_completed"`
	TrainingSessionsCompleted int   `json:"training_sessions_completed"`
	DealsClosed               int   `json:"deals_closed"`
	CurrentStreak             int   `json:"current_streak"`
	LongestStreak             int   `json:"longest_streak"`
	TotalPipelineValue        int64 `json:"total_pipeline_value"`

	SkillScores map[string]int `json:"skill_scores"`
}

// Summary construit le PlayerSummary d'un compte.
func (p *PlayerStats) Summary() *PlayerSummary {
	return &PlayerSummary{
		UserID:                    p.UserID,
		Level:                     p.Level,
		XP:                        p.XP,
		Coins:                     p.Coins,
		LevelProgress:             ProgressToNextLevel(p.XP),
		CallsCompleted:            p.CallsCompleted,
		MeetingsCompleted:         p.MeetingsCompleted,
		TrainingSessionsCompleted: p.TrainingSessionsCompleted,
		DealsClosed:               p.DealsClosed,
		CurrentStreak:             p.CurrentStreak,
		LongestStreak:             p.LongestStreak,
		TotalPipelineValue:        p.TotalPipelineValue,
		SkillScores: map[string]int{
			"objection_handling": p.ObjectionHandlingScore,
			"rapport_building":   p.RapportBuildingScore,
			"discovery":          p.DiscoveryScore,
			"closing":            p.ClosingScore,
			"value_proposition":  p.ValuePropositionScore,
		},
	}
}

// NewPlayerStats crée un compte vierge pour un utilisateur.
func NewPlayerStats(userID uuid.UUID) *PlayerStats {
	now := time.Now()
	return &PlayerStats{
		UserID:    userID,
		Level:     1,
		XP:        0,
		Coins:     0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
