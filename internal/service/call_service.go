package service

import (
	"context"
	"fmt"
	"time"

	"progression/internal/models"
	"progression/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type callService struct {
	statsRepo    repository.PlayerStatsRepository
	dailyRepo    repository.DailyStatsRepository
	activityRepo repository.ActivityRepository
	ledger       LedgerService
	quests       QuestService
	achievements AchievementService
}

func NewCallService(statsRepo repository.PlayerStatsRepository, dailyRepo repository.DailyStatsRepository,
	activityRepo repository.ActivityRepository, ledger LedgerService,
	quests QuestService, achievements AchievementService) CallService {
	return &callService{
		statsRepo:    statsRepo,
		dailyRepo:    dailyRepo,
		activityRepo: activityRepo,
		ledger:       ledger,
		quests:       quests,
		achievements: achievements,
	}
}

// callTypeSkill maps a call type onto the skill its score trains.
var callTypeSkill = map[models.CallType]string{
	models.CallDiscovery: "discovery",
	models.CallDemo:      "value_proposition",
	models.CallClosing:   "closing",
	models.CallFollowUp:  "objection_handling",
}

// AnalyzeCall scores a call and feeds the result through the whole
// progression pipeline. The external call ID is the award's source ID, so
// replaying the same call produces a traceable duplicate in the audit
// trail rather than a silent one.
func (s *callService) AnalyzeCall(ctx context.Context, userID uuid.UUID, call *models.CallRecord) (*models.CallScore, *models.ActionOutcome, error) {
	if call == nil {
		return nil, nil, models.NewValidationError("call record is required")
	}
	if call.ExternalID == "" {
		return nil, nil, models.NewValidationError("call external id is required")
	}
	if call.Duration < 0 {
		return nil, nil, models.NewValidationError("call duration cannot be negative")
	}

	stats, err := s.statsRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	streak, err := s.statsRepo.UpdateStreak(ctx, userID, now)
	if err != nil {
		return nil, nil, err
	}
	stats.CurrentStreak = streak

	if err := s.statsRepo.IncrementCounter(ctx, userID, models.CounterCalls, 1); err != nil {
		return nil, nil, err
	}

	score := models.ScoreCall(call)
	multiplier := stats.XPMultiplier()
	xp := models.CallXP(score, call.CallType, multiplier)

	outcome := &models.ActionOutcome{
		Action:     models.ActionCallCompleted,
		XPAwarded:  xp,
		Multiplier: multiplier,
		Streak:     streak,
	}

	if xp > 0 {
		reason := fmt.Sprintf("Call analysis: %s call scored %d/100", call.CallType, score.Total)
		award, err := s.ledger.Award(ctx, userID, xp, nil, reason, models.SourceCallAnalysis, call.ExternalID)
		if err != nil {
			return nil, nil, err
		}
		outcome.Award = award
	}

	if err := s.dailyRepo.RecordDeltas(ctx, userID, now, 0, 1, 0, 0); err != nil {
		return nil, nil, err
	}

	// Skill scores only move up, so a bad call never erases a good one.
	s.updateSkills(ctx, userID, call, score)

	updates, err := s.quests.RecordAction(ctx, userID, models.ActionCallCompleted, 1)
	if err != nil {
		return nil, nil, err
	}
	outcome.Quests = updates

	unlocked, err := s.achievements.CheckAchievements(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	outcome.Achievements = unlocked

	activity := &models.Activity{
		UserID:   userID,
		Kind:     models.ActivityCall,
		Message:  fmt.Sprintf("Completed a %s call (%d/100)", call.CallType, score.Total),
		XPGained: xp,
	}
	if err := s.activityRepo.Insert(ctx, activity); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to record call activity")
	}

	return &score, outcome, nil
}

// updateSkills derives skill movements from the call analysis. Failures
// are logged and swallowed: skills are advisory, the award already landed.
func (s *callService) updateSkills(ctx context.Context, userID uuid.UUID, call *models.CallRecord, score models.CallScore) {
	if skill, ok := callTypeSkill[call.CallType]; ok {
		if err := s.statsRepo.UpdateSkillScore(ctx, userID, skill, score.Total); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"user_id": userID,
				"skill":   skill,
			}).Warn("Failed to update skill score")
		}
	}

	totalSegments := call.PositiveSegments + call.NegativeSegments
	if totalSegments > 0 {
		rapport := call.PositiveSegments * 100 / totalSegments
		if err := s.statsRepo.UpdateSkillScore(ctx, userID, "rapport_building", rapport); err != nil {
			logrus.WithError(err).WithField("user_id", userID).Warn("Failed to update rapport score")
		}
	}
}
