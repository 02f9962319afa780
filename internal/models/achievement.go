package models

import (
	"time"

	"github.com/google/uuid"
)

// AchievementCategory regroupe les achievements dans l'interface.
type AchievementCategory string

const (
	CategoryCalls     AchievementCategory = "calls"
	CategoryMeetings  AchievementCategory = "meetings"
	CategoryTraining  AchievementCategory = "training"
	CategoryStreak    AchievementCategory = "streak"
	CategoryMilestone AchievementCategory = "milestone"
	CategoryPipeline  AchievementCategory = "pipeline"
)

// AchievementRarity représente la rareté d'un achievement.
type AchievementRarity string

const (
	RarityCommon    AchievementRarity = "common"
	RarityUncommon  AchievementRarity = "uncommon"
	RarityRare      AchievementRarity = "rare"
	RarityEpic      AchievementRarity = "epic"
	RarityLegendary AchievementRarity = "legendary"
)

// Achievement est une entrée du catalogue (géré par les admins, lu partout).
// La condition est un couple (compteur, seuil) sur l'enum fermé CounterField.
// Un achievement à seuil 0 serait débloqué immédiatement : il est exclu du
// catalogue par validation, pas traité en cas particulier dans l'évaluateur.
type Achievement struct {
	ID          uuid.UUID           `json:"id" db:"id"`
	Slug        string              `json:"slug" db:"slug"`
	Name        string              `json:"name" db:"name"`
	Description string              `json:"description" db:"description"`
	Icon        string              `json:"icon" db:"icon"`
	Category    AchievementCategory `json:"category" db:"category"`
	Rarity      AchievementRarity   `json:"rarity" db:"rarity"`

	RequirementField CounterField `json:"requirement_field" db:"requirement_field"`
	RequirementValue int64        `json:"requirement_value" db:"requirement_value"`

	XPReward    int64 `json:"xp_reward" db:"xp_reward"`
	CoinsReward int64 `json:"coins_reward" db:"coins_reward"`

	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Validate vérifie qu'une entrée du catalogue est cohérente.
func (a *Achievement) Validate() error {
	if a.Slug == "" || a.Name == "" {
		return NewValidationError("achievement slug and name are required")
	}
	if !ValidCounterField(a.RequirementField) {
		return NewValidationError("unknown achievement requirement field: " + string(a.RequirementField))
	}
	if a.RequirementValue <= 0 {
		return NewValidationError("achievement requirement value must be positive")
	}
	return nil
}

// SatisfiedBy vérifie si les compteurs du joueur atteignent le seuil requis.
func (a *Achievement) SatisfiedBy(stats *PlayerStats) bool {
	return stats.CounterValue(a.RequirementField) >= a.RequirementValue
}

// UnlockRecord matérialise un déblocage : son existence EST le signal
// "débloqué", il n'y a pas de booléen séparé à désynchroniser. Unique par
// (user, achievement). RewardGranted rend la ré-attribution de récompense
// idempotente si elle échoue après l'insertion du record.
type UnlockRecord struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	AchievementID uuid.UUID `json:"achievement_id" db:"achievement_id"`
	RewardGranted bool      `json:"reward_granted" db:"reward_granted"`
	UnlockedAt    time.Time `json:"unlocked_at" db:"unlocked_at"`
}

// AchievementProgress est la vue lecture seule de la progression d'un
// joueur vers un achievement.
type AchievementProgress struct {
	Achievement *Achievement `json:"achievement"`
	Unlocked    bool         `json:"unlocked"`
	Progress    int64        `json:"progress"`
	MaxProgress int64        `json:"max_progress"`
	UnlockedAt  *time.Time   `json:"unlocked_at,omitempty"`
}
