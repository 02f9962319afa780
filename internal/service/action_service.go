package service

import (
	"context"
	"math"
	"time"

	"progression/internal/models"
	"progression/internal/repository"

	"github.com/google/uuid"
)

type actionService struct {
	statsRepo    repository.PlayerStatsRepository
	dailyRepo    repository.DailyStatsRepository
	ledger       LedgerService
	quests       QuestService
	achievements AchievementService
}

func NewActionService(statsRepo repository.PlayerStatsRepository, dailyRepo repository.DailyStatsRepository,
	ledger LedgerService, quests QuestService, achievements AchievementService) ActionService {
	return &actionService{
		statsRepo:    statsRepo,
		dailyRepo:    dailyRepo,
		ledger:       ledger,
		quests:       quests,
		achievements: achievements,
	}
}

// actionCounter maps each action onto the player counter it increments.
// Actions without an entry only award XP.
var actionCounter = map[models.ActionKind]models.CounterField{
	models.ActionCallCompleted:     models.CounterCalls,
	models.ActionMeetingBooked:     models.CounterMeetings,
	models.ActionTrainingCompleted: models.CounterTraining,
	models.ActionDealClosed:        models.CounterDeals,
	models.ActionPipelineCreated:   models.CounterPipelineValue,
}

// RecordAction runs the full fan-out of one game action: streak update,
// counter increment, multiplied XP award, daily aggregates, quest progress
// and achievement evaluation. The award is the source of truth; everything
// downstream of it is reactive and must not undo it.
func (s *actionService) RecordAction(ctx context.Context, userID uuid.UUID, kind models.ActionKind, value int64) (*models.ActionOutcome, error) {
	if !models.ValidActionKind(kind) {
		return nil, models.NewValidationError("unknown action kind: " + string(kind))
	}
	if kind == models.ActionPipelineCreated && value <= 0 {
		return nil, models.NewValidationError("pipeline value must be positive")
	}

	stats, err := s.statsRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	streak, err := s.statsRepo.UpdateStreak(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	stats.CurrentStreak = streak

	if field, ok := actionCounter[kind]; ok {
		delta := int64(1)
		if field == models.CounterPipelineValue {
			delta = value
		}
		if err := s.statsRepo.IncrementCounter(ctx, userID, field, delta); err != nil {
			return nil, err
		}
	}

	baseXP := models.ActionXPRewards[kind]
	if kind == models.ActionPipelineCreated {
		baseXP = models.PipelineXP(value)
	}
	multiplier := stats.XPMultiplier()
	xp := int64(math.Floor(float64(baseXP) * multiplier))

	outcome := &models.ActionOutcome{
		Action:     kind,
		XPAwarded:  xp,
		Multiplier: multiplier,
		Streak:     streak,
	}

	if xp > 0 {
		award, err := s.ledger.Award(ctx, userID, xp, nil, models.ActionReason(kind), models.ActionSource(kind), "")
		if err != nil {
			return nil, err
		}
		outcome.Award = award
	}

	// XP already landed in the daily bucket through the ledger.
	var calls, meetings, deals int64
	switch kind {
	case models.ActionCallCompleted:
		calls = 1
	case models.ActionMeetingBooked:
		meetings = 1
	case models.ActionDealClosed:
		deals = 1
	}
	if calls+meetings+deals > 0 {
		if err := s.dailyRepo.RecordDeltas(ctx, userID, now, 0, calls, meetings, deals); err != nil {
			return nil, err
		}
	}

	questAmount := int64(1)
	if kind == models.ActionPipelineCreated {
		questAmount = value
	}
	updates, err := s.quests.RecordAction(ctx, userID, kind, questAmount)
	if err != nil {
		return nil, err
	}
	outcome.Quests = updates

	unlocked, err := s.achievements.CheckAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	outcome.Achievements = unlocked

	return outcome, nil
}
