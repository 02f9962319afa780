package service

import (
	"context"

	"progression/internal/models"
	"progression/internal/monitoring"
	"progression/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type shopService struct {
	shopRepo     repository.ShopRepository
	activityRepo repository.ActivityRepository
}

func NewShopService(shopRepo repository.ShopRepository, activityRepo repository.ActivityRepository) ShopService {
	return &shopService{
		shopRepo:     shopRepo,
		activityRepo: activityRepo,
	}
}

// GetCatalog retrieves the active shop catalog
func (s *shopService) GetCatalog(ctx context.Context) ([]models.ShopItem, error) {
	return s.shopRepo.ListItems(ctx, false)
}

// Purchase buys an item for a player. All the validation and the balance
// movement happen inside the repository transaction; the activity feed
// entry is written afterwards, best effort.
func (s *shopService) Purchase(ctx context.Context, userID, itemID uuid.UUID) (*models.PurchaseResult, error) {
	result, err := s.shopRepo.Purchase(ctx, userID, itemID)
	if err != nil {
		monitoring.PurchasesTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	monitoring.PurchasesTotal.WithLabelValues("completed").Inc()
	logrus.WithFields(logrus.Fields{
		"user_id":   userID,
		"item":      result.Purchase.Item.Name,
		"cost":      result.Purchase.CoinsSpent,
		"remaining": result.RemainingCoins,
	}).Info("Shop purchase completed")

	if err := s.activityRepo.Insert(ctx, &models.Activity{
		UserID:  userID,
		Kind:    models.ActivityPurchase,
		Message: "Purchased " + result.Purchase.Item.Name,
	}); err != nil {
		// The purchase stands; the feed is advisory.
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to record purchase activity")
	}

	return result, nil
}

// GetHistory retrieves a player's purchase history
func (s *shopService) GetHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.PurchaseRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return s.shopRepo.ListPurchases(ctx, userID, limit, offset)
}
