package service

import (
	"context"
	"fmt"
	"time"

	"progression/internal/config"
	"progression/internal/models"
	"progression/internal/monitoring"
	"progression/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type questService struct {
	questRepo    repository.QuestRepository
	ledger       LedgerService
	activityRepo repository.ActivityRepository
	emitter      *EventEmitter
	gameCfg      config.GameConfig
}

func NewQuestService(
	questRepo repository.QuestRepository,
	ledger LedgerService,
	activityRepo repository.ActivityRepository,
	emitter *EventEmitter,
	gameCfg config.GameConfig,
) QuestService {
	return &questService{
		questRepo:    questRepo,
		ledger:       ledger,
		activityRepo: activityRepo,
		emitter:      emitter,
		gameCfg:      gameCfg,
	}
}

// AssignPeriodic hands out the quests of the current windows: daily quests
// once per UTC day, the weekly quest from Monday, the monthly quest from the
// 1st, plus any milestone quests not held yet. The window check plus the
// unique assignment constraint make the whole operation idempotent: calling
// it on every profile read assigns each quest at most once per window.
func (s *questService) AssignPeriodic(ctx context.Context, userID uuid.UUID, now time.Time) error {
	now = now.UTC()

	dayStart, _ := models.PeriodWindow(models.PeriodDaily, now)
	weekStart, _ := models.PeriodWindow(models.PeriodWeekly, now)
	monthStart, _ := models.PeriodWindow(models.PeriodMonthly, now)

	windows := []struct {
		questType models.QuestType
		since     time.Time
		count     int
	}{
		{models.QuestDaily, dayStart, s.gameCfg.DailyQuestCount},
		{models.QuestWeekly, weekStart, s.gameCfg.WeeklyQuestCount},
		{models.QuestMonthly, monthStart, s.gameCfg.MonthlyQuestCount},
	}

	for _, window := range windows {
		assigned, err := s.questRepo.HasInstanceSince(ctx, userID, window.questType, window.since)
		if err != nil {
			return err
		}
		if assigned {
			continue
		}

		if err := s.assignFromPool(ctx, userID, window.questType, window.count, now, window.since); err != nil {
			return err
		}
	}

	// Milestone quests are permanent: everyone holds all of them, assigned
	// once under the zero window.
	milestones, err := s.questRepo.ListActiveTemplates(ctx, models.QuestMilestone)
	if err != nil {
		return err
	}
	for _, quest := range milestones {
		if _, err := s.questRepo.AssignInstance(ctx, userID, quest.ID, time.Time{}); err != nil {
			return err
		}
	}

	return nil
}

// assignFromPool assigns up to count quests of one type, rotating through
// the pool by day so every player gets the same picks on the same day
func (s *questService) assignFromPool(ctx context.Context, userID uuid.UUID, questType models.QuestType, count int, now, windowStart time.Time) error {
	pool, err := s.questRepo.ListActiveTemplates(ctx, questType)
	if err != nil {
		return err
	}
	if len(pool) == 0 || count <= 0 {
		return nil
	}

	offset := now.YearDay() % len(pool)
	for i := 0; i < count && i < len(pool); i++ {
		quest := pool[(offset+i)%len(pool)]
		assigned, err := s.questRepo.AssignInstance(ctx, userID, quest.ID, windowStart)
		if err != nil {
			return err
		}
		if assigned {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"quest":   quest.Name,
				"type":    questType,
			}).Debug("Quest assigned")
		}
	}

	return nil
}

// RecordAction advances every open quest matching the action kind. Progress
// and completion are claimed in one conditional update per instance, so the
// completion rewards of a quest fire exactly once even when two actions
// race on the final increment.
func (s *questService) RecordAction(ctx context.Context, userID uuid.UUID, kind models.ActionKind, amount int64) ([]models.QuestProgressUpdate, error) {
	if !models.ValidActionKind(kind) {
		return nil, models.NewValidationError("unknown action kind: " + string(kind))
	}
	if amount <= 0 {
		return nil, models.NewValidationError("action amount must be positive")
	}

	open, err := s.questRepo.ListOpenInstances(ctx, userID)
	if err != nil {
		return nil, err
	}

	var updates []models.QuestProgressUpdate
	for _, instance := range open {
		quest := instance.Template
		if quest == nil || quest.ActionKind != kind {
			continue
		}

		completed, progress, err := s.questRepo.IncrementProgress(ctx, instance.ID, amount, quest.TargetAmount)
		if err != nil {
			return updates, err
		}
		if progress == 0 && !completed {
			// Claimed by a concurrent action.
			continue
		}

		updates = append(updates, models.QuestProgressUpdate{
			QuestID:   quest.ID,
			Name:      quest.Name,
			Progress:  progress,
			Target:    quest.TargetAmount,
			Completed: completed,
		})

		if completed {
			if err := s.grantQuestRewards(ctx, userID, quest); err != nil {
				return updates, err
			}
		}
	}

	return updates, nil
}

func (s *questService) grantQuestRewards(ctx context.Context, userID uuid.UUID, quest *models.QuestTemplate) error {
	monitoring.QuestCompletionsTotal.WithLabelValues(string(quest.Type)).Inc()
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"quest":   quest.Name,
		"type":    quest.Type,
	}).Info("Quest completed")

	coins := quest.CoinsReward
	if coins == 0 {
		coins = models.DefaultQuestCoinsReward(quest.XPReward)
	}

	// Rewards go through the ledger so the level-up event, the metrics and
	// the audit trail fire the same way as for any other XP source.
	if quest.XPReward > 0 || coins > 0 {
		_, err := s.ledger.Award(ctx, userID, quest.XPReward, &coins,
			"Quest: "+quest.Name, models.SourceQuest, quest.ID.String())
		if err != nil {
			return fmt.Errorf("failed to grant quest reward: %w", err)
		}
	}

	s.emitter.Emit(ctx, GameEvent{
		Kind:   EventQuestCompleted,
		UserID: userID,
		Quest:  quest,
	})

	// Best effort feed entry.
	_ = s.activityRepo.Insert(ctx, &models.Activity{
		UserID:   userID,
		Kind:     models.ActivityQuest,
		Message:  "Completed " + quest.Name,
		XPGained: quest.XPReward,
	})

	return nil
}

// GetOpenQuests retrieves the player's open quests, assigning the current
// windows first
func (s *questService) GetOpenQuests(ctx context.Context, userID uuid.UUID) ([]models.QuestInstance, error) {
	if err := s.AssignPeriodic(ctx, userID, time.Now()); err != nil {
		return nil, err
	}

	return s.questRepo.ListOpenInstances(ctx, userID)
}

// Sweep deactivates expired quest templates
func (s *questService) Sweep(ctx context.Context, now time.Time) error {
	expired, err := s.questRepo.ExpireStale(ctx, now)
	if err != nil {
		return err
	}
	if expired > 0 {
		logrus.WithField("count", expired).Info("Expired quest templates")
	}

	return nil
}
