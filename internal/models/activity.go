package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity est une entrée du fil d'activité (achats, débloquages,
// montées de niveau). Le fil est best-effort : une écriture ratée
// n'annule jamais l'opération qui l'a produite.
type Activity struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Kind      string    `json:"kind" db:"kind"`
	Message   string    `json:"message" db:"message"`
	XPGained  int64     `json:"xp_gained" db:"xp_gained"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

const (
	ActivityPurchase    = "purchase"
	ActivityAchievement = "achievement"
	ActivityLevelUp     = "level_up"
	ActivityQuest       = "quest"
	ActivityCall        = "call"
	ActivityTraining    = "training"
)
