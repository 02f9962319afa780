package repository

import (
	"context"
	"time"

	"progression/internal/models"

	"github.com/google/uuid"
)

// PlayerStatsRepository defines methods for player stats data access
type PlayerStatsRepository interface {
	// Profile management
	Create(ctx context.Context, stats *models.PlayerStats) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.PlayerStats, error)
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.PlayerStats, error)
	ListAll(ctx context.Context) ([]models.PlayerStats, error)

	// Atomic balance operations
	AwardXP(ctx context.Context, userID uuid.UUID, amount int64, coinsOverride *int64,
		reason string, sourceKind models.SourceKind, sourceID string) (*models.AwardResult, error)
	DebitCoins(ctx context.Context, userID uuid.UUID, amount int64) (int64, error)
	GrantCoins(ctx context.Context, userID uuid.UUID, amount int64) (int64, error)

	// Counter operations
	IncrementCounter(ctx context.Context, userID uuid.UUID, field models.CounterField, delta int64) error
	UpdateStreak(ctx context.Context, userID uuid.UUID, activityDate time.Time) (int, error)
	UpdateSkillScore(ctx context.Context, userID uuid.UUID, skill string, score int) error

	// Audit trail
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.XPTransaction, error)
}

// AchievementRepository defines methods for achievement data access
type AchievementRepository interface {
	Create(ctx context.Context, achievement *models.Achievement) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Achievement, error)
	ListActive(ctx context.Context) ([]models.Achievement, error)

	// Unlock claims
	UnlockedIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)
	InsertUnlock(ctx context.Context, userID, achievementID uuid.UUID) (bool, error)
	ListUnlocks(ctx context.Context, userID uuid.UUID) ([]models.UnlockRecord, error)
	ListPendingRewards(ctx context.Context, userID uuid.UUID) ([]models.UnlockRecord, error)
	MarkRewardGranted(ctx context.Context, unlockID uuid.UUID) error
	ResetRewardPending(ctx context.Context, unlockID uuid.UUID) error

	SeedDefaults(ctx context.Context) error
}

// QuestRepository defines methods for quest data access
type QuestRepository interface {
	// Templates
	CreateTemplate(ctx context.Context, quest *models.QuestTemplate) error
	GetTemplate(ctx context.Context, id uuid.UUID) (*models.QuestTemplate, error)
	ListActiveTemplates(ctx context.Context, questType models.QuestType) ([]models.QuestTemplate, error)

	// Instances
	AssignInstance(ctx context.Context, userID, questID uuid.UUID, windowStart time.Time) (bool, error)
	ListOpenInstances(ctx context.Context, userID uuid.UUID) ([]models.QuestInstance, error)
	ListInstances(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.QuestInstance, error)
	IncrementProgress(ctx context.Context, instanceID uuid.UUID, delta, target int64) (completed bool, progress int64, err error)
	HasInstanceSince(ctx context.Context, userID uuid.UUID, questType models.QuestType, since time.Time) (bool, error)
	ExpireStale(ctx context.Context, now time.Time) (int64, error)

	SeedDefaults(ctx context.Context) error
}

// ShopRepository defines methods for shop data access
type ShopRepository interface {
	// Catalog
	CreateItem(ctx context.Context, item *models.ShopItem) error
	GetItem(ctx context.Context, id uuid.UUID) (*models.ShopItem, error)
	ListItems(ctx context.Context, includeInactive bool) ([]models.ShopItem, error)

	// Purchases
	Purchase(ctx context.Context, userID, itemID uuid.UUID) (*models.PurchaseResult, error)
	ListPurchases(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.PurchaseRecord, error)
	UpdatePurchaseStatus(ctx context.Context, purchaseID uuid.UUID, status models.PurchaseStatus) error

	SeedDefaults(ctx context.Context) error
}

// DailyStatsRepository defines methods for per-day activity aggregates
type DailyStatsRepository interface {
	RecordDeltas(ctx context.Context, userID uuid.UUID, day time.Time, xp, calls, meetings, deals int64) error
	SumWindow(ctx context.Context, start, end time.Time) ([]models.PeriodTotals, error)
}

// ActivityRepository defines methods for the activity feed
type ActivityRepository interface {
	Insert(ctx context.Context, activity *models.Activity) error
	ListRecent(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Activity, error)
}

// Repository aggregates all repositories
type Repository struct {
	PlayerStats PlayerStatsRepository
	Achievement AchievementRepository
	Quest       QuestRepository
	Shop        ShopRepository
	DailyStats  DailyStatsRepository
	Activity    ActivityRepository
}
