package models

import (
	"time"

	"github.com/google/uuid"
)

// QuestType est la période d'une quête.
type QuestType string

const (
	QuestDaily     QuestType = "daily"
	QuestWeekly    QuestType = "weekly"
	QuestMonthly   QuestType = "monthly"
	QuestMilestone QuestType = "milestone"
)

// ActionKind est le type fermé des actions de jeu entrantes. Le matching
// quête/action se fait sur cet enum, pas sur des sous-chaînes de noms.
type ActionKind string

const (
	ActionCallCompleted     ActionKind = "call_completed"
	ActionMeetingBooked     ActionKind = "meeting_booked"
	ActionDemoCompleted     ActionKind = "demo_completed"
	ActionDealClosed        ActionKind = "deal_closed"
	ActionObjectionHandled  ActionKind = "objection_handled"
	ActionTrainingCompleted ActionKind = "training_completed"
	ActionStreakMaintained  ActionKind = "streak_maintained"
	ActionPipelineCreated   ActionKind = "pipeline_created"
)

// ValidActionKind vérifie qu'une action fait partie de l'enum fermé.
func ValidActionKind(kind ActionKind) bool {
	switch kind {
	case ActionCallCompleted, ActionMeetingBooked, ActionDemoCompleted,
		ActionDealClosed, ActionObjectionHandled, ActionTrainingCompleted,
		ActionStreakMaintained, ActionPipelineCreated:
		return true
	default:
		return false
	}
}

// ActionXPRewards est le barème d'XP par action.
var ActionXPRewards = map[ActionKind]int64{
	ActionCallCompleted:     50,
	ActionMeetingBooked:     100,
	ActionDemoCompleted:     150,
	ActionDealClosed:        500,
	ActionObjectionHandled:  25,
	ActionTrainingCompleted: 75,
	ActionStreakMaintained:  30,
}

// PipelineXP retourne l'XP d'une création de pipeline : 1 XP par tranche
// de 1000 de valeur.
func PipelineXP(value int64) int64 {
	if value <= 0 {
		return 0
	}
	return value / 1000
}

// ActionReason retourne le libellé d'audit d'une action.
func ActionReason(kind ActionKind) string {
	switch kind {
	case ActionCallCompleted:
		return "Call completed"
	case ActionMeetingBooked:
		return "Meeting booked"
	case ActionDemoCompleted:
		return "Demo completed"
	case ActionDealClosed:
		return "Deal closed"
	case ActionObjectionHandled:
		return "Objection handled well"
	case ActionTrainingCompleted:
		return "Training module completed"
	case ActionStreakMaintained:
		return "Daily streak maintained"
	case ActionPipelineCreated:
		return "Pipeline created"
	default:
		return string(kind)
	}
}

// ActionSource retourne la source de ledger d'une action.
func ActionSource(kind ActionKind) SourceKind {
	switch kind {
	case ActionTrainingCompleted:
		return SourceTraining
	default:
		return SourceManual
	}
}

// QuestTemplate est une définition de quête du catalogue.
type QuestTemplate struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`

	ActionKind   ActionKind `json:"action_kind" db:"action_kind"`
	TargetAmount int64      `json:"target_amount" db:"target_amount"`

	XPReward    int64 `json:"xp_reward" db:"xp_reward"`
	CoinsReward int64 `json:"coins_reward" db:"coins_reward"`
	Difficulty  int   `json:"difficulty" db:"difficulty"`

	Type      QuestType  `json:"type" db:"type"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// DefaultQuestCoinsReward retourne la récompense de pièces par défaut
// d'une quête : la moitié de son XP.
func DefaultQuestCoinsReward(xpReward int64) int64 {
	return xpReward / 2
}

// Validate vérifie la cohérence d'un template de quête.
func (q *QuestTemplate) Validate() error {
	if q.Name == "" {
		return NewValidationError("quest name is required")
	}
	if !ValidActionKind(q.ActionKind) {
		return NewValidationError("unknown quest action kind: " + string(q.ActionKind))
	}
	if q.TargetAmount <= 0 {
		return NewValidationError("quest target amount must be positive")
	}
	return nil
}

// QuestInstance est l'instance d'une quête assignée à un joueur.
// progress est clampé à [0, target] ; completedAt reste nul jusqu'à la
// complétion. Au plus une instance par template, par joueur et par fenêtre
// d'assignation (windowStart zéro pour les quêtes permanentes) ; les
// instances terminées ou expirées sont conservées pour l'historique.
type QuestInstance struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	QuestID     uuid.UUID  `json:"quest_id" db:"quest_id"`
	Progress    int64      `json:"progress" db:"progress"`
	WindowStart time.Time  `json:"window_start" db:"window_start"`
	AssignedAt  time.Time  `json:"assigned_at" db:"assigned_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`

	// Chargé séparément
	Template *QuestTemplate `json:"quest,omitempty" db:"-"`
}

// IsCompleted vérifie si l'instance est terminée.
func (qi *QuestInstance) IsCompleted() bool {
	return qi.CompletedAt != nil
}

// QuestProgressUpdate est le résultat d'une mise à jour de progression.
type QuestProgressUpdate struct {
	QuestID   uuid.UUID `json:"quest_id"`
	Name      string    `json:"name"`
	Progress  int64     `json:"progress"`
	Target    int64     `json:"target"`
	Completed bool      `json:"completed"`
}

// ActionOutcome est le résultat agrégé de l'enregistrement d'une action :
// l'attribution d'XP et tout ce qu'elle a déclenché.
type ActionOutcome struct {
	Action       ActionKind            `json:"action"`
	XPAwarded    int64                 `json:"xp_awarded"`
	Multiplier   float64               `json:"multiplier"`
	Award        *AwardResult          `json:"award"`
	Streak       int                   `json:"streak"`
	Quests       []QuestProgressUpdate `json:"quests,omitempty"`
	Achievements []Achievement         `json:"achievements,omitempty"`
}
