package service

import (
	"context"
	"fmt"

	"progression/internal/models"
	"progression/internal/monitoring"
	"progression/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ledgerService struct {
	statsRepo repository.PlayerStatsRepository
	emitter   *EventEmitter
}

func NewLedgerService(statsRepo repository.PlayerStatsRepository, emitter *EventEmitter) LedgerService {
	return &ledgerService{
		statsRepo: statsRepo,
		emitter:   emitter,
	}
}

// Award credits XP to a player through the atomic repository operation and
// emits a LeveledUp event when the award crossed a level threshold. Negative
// amounts are corrections and run through the same path; the repository
// clamps the resulting XP at zero.
func (s *ledgerService) Award(ctx context.Context, userID uuid.UUID, amount int64, coinsOverride *int64,
	reason string, source models.SourceKind, sourceID string) (*models.AwardResult, error) {

	result, err := s.statsRepo.AwardXP(ctx, userID, amount, coinsOverride, reason, source, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to award xp: %w", err)
	}

	monitoring.XPAwardsTotal.WithLabelValues(string(source)).Inc()
	if amount > 0 {
		monitoring.XPAwardedSum.WithLabelValues(string(source)).Add(float64(amount))
	}

	logrus.WithFields(logrus.Fields{
		"user_id":   userID,
		"amount":    amount,
		"source":    source,
		"new_level": result.NewLevel,
		"service":   "progression",
	}).Info("XP awarded")

	if result.LeveledUp {
		monitoring.LevelUpsTotal.Inc()
		s.emitter.Emit(ctx, GameEvent{
			Kind:     EventLeveledUp,
			UserID:   userID,
			NewLevel: result.NewLevel,
		})
	}

	return result, nil
}

// Debit removes coins from a player's balance
func (s *ledgerService) Debit(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	remaining, err := s.statsRepo.DebitCoins(ctx, userID, amount)
	if err != nil {
		return remaining, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":   userID,
		"amount":    amount,
		"remaining": remaining,
	}).Info("Coins debited")

	return remaining, nil
}

// GetStats retrieves a player's stats profile, creating it on first access
func (s *ledgerService) GetStats(ctx context.Context, userID uuid.UUID) (*models.PlayerStats, error) {
	return s.statsRepo.GetOrCreate(ctx, userID)
}

// GetSummary retrieves the player summary view
func (s *ledgerService) GetSummary(ctx context.Context, userID uuid.UUID) (*models.PlayerSummary, error) {
	stats, err := s.statsRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	return stats.Summary(), nil
}

// GetTransactions retrieves the XP audit trail
func (s *ledgerService) GetTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.XPTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return s.statsRepo.ListTransactions(ctx, userID, limit, offset)
}
