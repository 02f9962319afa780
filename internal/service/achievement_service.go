package service

import (
	"context"
	"fmt"
	"time"

	"progression/internal/models"
	"progression/internal/monitoring"
	"progression/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type achievementService struct {
	achievementRepo repository.AchievementRepository
	statsRepo       repository.PlayerStatsRepository
	ledger          LedgerService
	activityRepo    repository.ActivityRepository
	emitter         *EventEmitter
}

func NewAchievementService(
	achievementRepo repository.AchievementRepository,
	statsRepo repository.PlayerStatsRepository,
	ledger LedgerService,
	activityRepo repository.ActivityRepository,
	emitter *EventEmitter,
) AchievementService {
	return &achievementService{
		achievementRepo: achievementRepo,
		statsRepo:       statsRepo,
		ledger:          ledger,
		activityRepo:    activityRepo,
		emitter:         emitter,
	}
}

// CheckAchievements evaluates the active catalog against the player's
// current counters and unlocks everything newly satisfied. The unlock claim
// goes through the unique-insert in the repository, so a concurrent check
// can never unlock the same achievement twice; rewards are granted right
// after a successful claim and retried later through the pending-reward
// flag if the grant fails mid-way.
func (s *achievementService) CheckAchievements(ctx context.Context, userID uuid.UUID) ([]models.Achievement, error) {
	stats, err := s.statsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.achievementRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.achievementRepo.UnlockedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	var newlyUnlocked []models.Achievement
	for i := range catalog {
		achievement := catalog[i]
		if unlocked[achievement.ID] {
			continue
		}
		if !achievement.SatisfiedBy(stats) {
			continue
		}

		claimed, err := s.achievementRepo.InsertUnlock(ctx, userID, achievement.ID)
		if err != nil {
			return newlyUnlocked, fmt.Errorf("failed to claim achievement unlock: %w", err)
		}
		if !claimed {
			// Lost the race to a concurrent check.
			continue
		}

		monitoring.AchievementUnlocksTotal.WithLabelValues(string(achievement.Category)).Inc()
		logrus.WithFields(logrus.Fields{
			"user_id":     userID,
			"achievement": achievement.Slug,
			"rarity":      achievement.Rarity,
		}).Info("Achievement unlocked")

		s.emitter.Emit(ctx, GameEvent{
			Kind:        EventAchievementUnlocked,
			UserID:      userID,
			Achievement: &achievement,
		})

		newlyUnlocked = append(newlyUnlocked, achievement)
	}

	if len(newlyUnlocked) > 0 {
		if err := s.GrantPendingRewards(ctx, userID); err != nil {
			// The pending flag keeps the reward claimable on the next pass.
			logrus.WithError(err).WithField("user_id", userID).
				Warn("Failed to grant achievement rewards, will retry")
		}
	}

	return newlyUnlocked, nil
}

// GrantPendingRewards pays out every unlock whose reward has not been
// granted yet. The conditional mark claims the payout, so two concurrent
// grant passes settle on exactly one payout per unlock; a failed payout
// releases the claim so the reward stays pending for the next pass.
func (s *achievementService) GrantPendingRewards(ctx context.Context, userID uuid.UUID) error {
	pending, err := s.achievementRepo.ListPendingRewards(ctx, userID)
	if err != nil {
		return err
	}

	for _, unlock := range pending {
		achievement, err := s.achievementRepo.GetByID(ctx, unlock.AchievementID)
		if err != nil {
			return err
		}

		if err := s.achievementRepo.MarkRewardGranted(ctx, unlock.ID); err != nil {
			if models.IsNotFound(err) {
				// Another pass already granted this one.
				continue
			}
			return err
		}

		if achievement.XPReward > 0 || achievement.CoinsReward > 0 {
			coins := achievement.CoinsReward
			_, err = s.ledger.Award(ctx, userID, achievement.XPReward, &coins,
				"Achievement: "+achievement.Name, models.SourceAchievement, achievement.Slug)
			if err != nil {
				if resetErr := s.achievementRepo.ResetRewardPending(ctx, unlock.ID); resetErr != nil {
					logrus.WithError(resetErr).WithField("unlock_id", unlock.ID).
						Error("Failed to release reward claim")
				}
				return fmt.Errorf("failed to grant achievement reward: %w", err)
			}
		}

		// Best effort feed entry.
		_ = s.activityRepo.Insert(ctx, &models.Activity{
			UserID:   userID,
			Kind:     models.ActivityAchievement,
			Message:  "Unlocked " + achievement.Name,
			XPGained: achievement.XPReward,
		})
	}

	return nil
}

// GetProgress returns the full catalog annotated with the player's progress
func (s *achievementService) GetProgress(ctx context.Context, userID uuid.UUID) ([]models.AchievementProgress, error) {
	stats, err := s.statsRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.achievementRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	unlocks, err := s.achievementRepo.ListUnlocks(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlockedAt := make(map[uuid.UUID]time.Time, len(unlocks))
	for _, unlock := range unlocks {
		unlockedAt[unlock.AchievementID] = unlock.UnlockedAt
	}

	progress := make([]models.AchievementProgress, 0, len(catalog))
	for i := range catalog {
		achievement := catalog[i]
		entry := models.AchievementProgress{
			Achievement: &achievement,
			MaxProgress: achievement.RequirementValue,
		}
		if at, ok := unlockedAt[achievement.ID]; ok {
			// Unlocks are permanent: a counter that dropped back below the
			// requirement (a broken streak) must not regress the display.
			entry.Unlocked = true
			entry.Progress = achievement.RequirementValue
			when := at
			entry.UnlockedAt = &when
		} else {
			current := stats.CounterValue(achievement.RequirementField)
			if current > achievement.RequirementValue {
				current = achievement.RequirementValue
			}
			entry.Progress = current
		}
		progress = append(progress, entry)
	}

	return progress, nil
}
