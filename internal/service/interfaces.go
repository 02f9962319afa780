package service

import (
	"context"
	"time"

	"progression/internal/models"

	"github.com/google/uuid"
)

// LedgerService defines the XP and coin ledger operations
type LedgerService interface {
	// XP and coins
	Award(ctx context.Context, userID uuid.UUID, amount int64, coinsOverride *int64,
		reason string, source models.SourceKind, sourceID string) (*models.AwardResult, error)
	Debit(ctx context.Context, userID uuid.UUID, amount int64) (int64, error)

	// Profile
	GetStats(ctx context.Context, userID uuid.UUID) (*models.PlayerStats, error)
	GetSummary(ctx context.Context, userID uuid.UUID) (*models.PlayerSummary, error)
	GetTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.XPTransaction, error)
}

// AchievementService defines achievement evaluation and rewards
type AchievementService interface {
	CheckAchievements(ctx context.Context, userID uuid.UUID) ([]models.Achievement, error)
	GrantPendingRewards(ctx context.Context, userID uuid.UUID) error
	GetProgress(ctx context.Context, userID uuid.UUID) ([]models.AchievementProgress, error)
}

// QuestService defines quest assignment and progress tracking
type QuestService interface {
	AssignPeriodic(ctx context.Context, userID uuid.UUID, now time.Time) error
	RecordAction(ctx context.Context, userID uuid.UUID, kind models.ActionKind, amount int64) ([]models.QuestProgressUpdate, error)
	GetOpenQuests(ctx context.Context, userID uuid.UUID) ([]models.QuestInstance, error)
	Sweep(ctx context.Context, now time.Time) error
}

// ShopService defines the coin shop
type ShopService interface {
	GetCatalog(ctx context.Context) ([]models.ShopItem, error)
	Purchase(ctx context.Context, userID, itemID uuid.UUID) (*models.PurchaseResult, error)
	GetHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.PurchaseRecord, error)
}

// LeaderboardService defines period rankings
type LeaderboardService interface {
	GetRanking(ctx context.Context, period models.PeriodKind, limit int) ([]models.LeaderboardRow, error)
	GetRankProgress(ctx context.Context, userID uuid.UUID, period models.PeriodKind) (*models.RankProgress, error)
	GetNeighbors(ctx context.Context, userID uuid.UUID, period models.PeriodKind, span int) ([]models.LeaderboardRow, error)
	GetTopPerformers(ctx context.Context, size int) (*models.TopPerformers, error)
}

// ActionService orchestrates the fan-out of a recorded game action
type ActionService interface {
	RecordAction(ctx context.Context, userID uuid.UUID, kind models.ActionKind, value int64) (*models.ActionOutcome, error)
}

// CallService scores telephony calls and feeds them into progression
type CallService interface {
	AnalyzeCall(ctx context.Context, userID uuid.UUID, call *models.CallRecord) (*models.CallScore, *models.ActionOutcome, error)
}

// TrainingService runs objection-handling drills
type TrainingService interface {
	GetQuestions() []models.TrainingQuestion
	SubmitAnswer(ctx context.Context, userID uuid.UUID, questionID, choiceID string) (*models.TrainingResult, error)
}
