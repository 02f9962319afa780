package service

import (
	"context"

	"github.com/google/uuid"

	"progression/internal/models"
)

// GameEvent est un événement de progression émis par les services.
type GameEvent struct {
	Kind   GameEventKind
	UserID uuid.UUID

	// LeveledUp
	NewLevel int

	// AchievementUnlocked
	Achievement *models.Achievement

	// QuestCompleted
	Quest *models.QuestTemplate
}

// GameEventKind identifie le type d'un événement.
type GameEventKind string

const (
	EventLeveledUp           GameEventKind = "leveled_up"
	EventAchievementUnlocked GameEventKind = "achievement_unlocked"
	EventQuestCompleted      GameEventKind = "quest_completed"
)

// EventListener reçoit les événements de progression. Les listeners sont
// appelés de façon synchrone après le commit de l'opération qui a produit
// l'événement ; ils ne doivent jamais la faire échouer.
type EventListener func(ctx context.Context, event GameEvent)

// EventEmitter distribue les événements aux listeners enregistrés.
// L'enregistrement se fait au démarrage, avant tout Emit ; il n'est pas
// synchronisé.
type EventEmitter struct {
	listeners []EventListener
}

func NewEventEmitter() *EventEmitter {
	return &EventEmitter{}
}

// Subscribe enregistre un listener.
func (e *EventEmitter) Subscribe(listener EventListener) {
	e.listeners = append(e.listeners, listener)
}

// Emit distribue un événement à tous les listeners.
func (e *EventEmitter) Emit(ctx context.Context, event GameEvent) {
	for _, listener := range e.listeners {
		listener(ctx, event)
	}
}
