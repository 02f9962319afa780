package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"progression/internal/models"

	"github.com/google/uuid"
)

func newShopFixture(t *testing.T) (*fakeShopRepo, *fakePlayerStatsRepo, ShopService, uuid.UUID) {
	t.Helper()

	statsRepo := newFakePlayerStatsRepo()
	shopRepo := &fakeShopRepo{stats: statsRepo}
	svc := NewShopService(shopRepo, &fakeActivityRepo{})

	userID := uuid.New()
	if _, err := statsRepo.GetOrCreate(context.Background(), userID); err != nil {
		t.Fatal(err)
	}
	return shopRepo, statsRepo, svc, userID
}

func seedShopItem(t *testing.T, repo *fakeShopRepo, name string, cost int64, stock, maxPerUser *int, active bool) *models.ShopItem {
	t.Helper()

	item := &models.ShopItem{
		Name:          name,
		Category:      models.ShopReward,
		CoinsCost:     cost,
		StockQuantity: stock,
		MaxPerUser:    maxPerUser,
		IsActive:      active,
	}
	if err := repo.CreateItem(context.Background(), item); err != nil {
		t.Fatal(err)
	}
	return item
}

func grantCoins(t *testing.T, statsRepo *fakePlayerStatsRepo, userID uuid.UUID, amount int64) {
	t.Helper()
	if _, err := statsRepo.GrantCoins(context.Background(), userID, amount); err != nil {
		t.Fatal(err)
	}
}

func TestPurchase_HappyPath(t *testing.T) {
	shopRepo, statsRepo, svc, userID := newShopFixture(t)
	item := seedShopItem(t, shopRepo, "Lunch voucher", 150, nil, nil, true)
	grantCoins(t, statsRepo, userID, 200)

	result, err := svc.Purchase(context.Background(), userID, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if result.Purchase.Status != models.PurchasePending {
		t.Errorf("status = %s, want pending", result.Purchase.Status)
	}
	if result.Purchase.CoinsSpent != 150 {
		t.Errorf("coins spent = %d, want 150", result.Purchase.CoinsSpent)
	}
	if result.RemainingCoins != 50 {
		t.Errorf("remaining = %d, want 50", result.RemainingCoins)
	}

	stats, err := statsRepo.GetByUserID(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Coins != 50 {
		t.Errorf("balance = %d, want 50", stats.Coins)
	}
}

func TestPurchase_InsufficientFundsLeavesStockIntact(t *testing.T) {
	shopRepo, statsRepo, svc, userID := newShopFixture(t)
	stock := 3
	item := seedShopItem(t, shopRepo, "Headset", 500, &stock, nil, true)
	grantCoins(t, statsRepo, userID, 100)

	_, err := svc.Purchase(context.Background(), userID, item.ID)
	var fundsErr *models.InsufficientFundsError
	if !errors.As(err, &fundsErr) {
		t.Fatalf("err = %v, want InsufficientFundsError", err)
	}
	if fundsErr.Required != 500 || fundsErr.Available != 100 {
		t.Errorf("funds error = required %d available %d, want 500/100", fundsErr.Required, fundsErr.Available)
	}

	got, err := shopRepo.GetItem(context.Background(), item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if *got.StockQuantity != 3 {
		t.Errorf("stock = %d after rejected purchase, want 3", *got.StockQuantity)
	}
}

func TestPurchase_LastUnitThenOutOfStock(t *testing.T) {
	shopRepo, statsRepo, svc, userID := newShopFixture(t)
	stock := 1
	item := seedShopItem(t, shopRepo, "Limited badge", 10, &stock, nil, true)
	grantCoins(t, statsRepo, userID, 100)

	if _, err := svc.Purchase(context.Background(), userID, item.ID); err != nil {
		t.Fatalf("last unit purchase failed: %v", err)
	}

	_, err := svc.Purchase(context.Background(), userID, item.ID)
	var stockErr *models.OutOfStockError
	if !errors.As(err, &stockErr) {
		t.Errorf("err = %v, want OutOfStockError", err)
	}
}

func TestPurchase_PerUserLimit(t *testing.T) {
	shopRepo, statsRepo, svc, userID := newShopFixture(t)
	limit := 2
	item := seedShopItem(t, shopRepo, "Coffee", 10, nil, &limit, true)
	grantCoins(t, statsRepo, userID, 100)

	for i := 0; i < 2; i++ {
		if _, err := svc.Purchase(context.Background(), userID, item.ID); err != nil {
			t.Fatalf("purchase %d failed: %v", i+1, err)
		}
	}

	_, err := svc.Purchase(context.Background(), userID, item.ID)
	var limitErr *models.PerUserLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("err = %v, want PerUserLimitError", err)
	}
	if limitErr.MaxPerUser != 2 {
		t.Errorf("limit = %d, want 2", limitErr.MaxPerUser)
	}

	// Un autre joueur n'est pas concerné par la limite.
	otherID := uuid.New()
	if _, err := statsRepo.GetOrCreate(context.Background(), otherID); err != nil {
		t.Fatal(err)
	}
	grantCoins(t, statsRepo, otherID, 100)
	if _, err := svc.Purchase(context.Background(), otherID, item.ID); err != nil {
		t.Errorf("other user purchase failed: %v", err)
	}
}

func TestPurchase_InactiveAndUnknownItems(t *testing.T) {
	shopRepo, statsRepo, svc, userID := newShopFixture(t)
	item := seedShopItem(t, shopRepo, "Retired perk", 10, nil, nil, false)
	grantCoins(t, statsRepo, userID, 100)

	_, err := svc.Purchase(context.Background(), userID, item.ID)
	var inactiveErr *models.ItemInactiveError
	if !errors.As(err, &inactiveErr) {
		t.Errorf("inactive item: err = %v, want ItemInactiveError", err)
	}

	_, err = svc.Purchase(context.Background(), userID, uuid.New())
	if !models.IsNotFound(err) {
		t.Errorf("unknown item: err = %v, want not found", err)
	}
}

func TestGetCatalog_ActiveOnly(t *testing.T) {
	shopRepo, _, svc, _ := newShopFixture(t)
	seedShopItem(t, shopRepo, "Active", 10, nil, nil, true)
	seedShopItem(t, shopRepo, "Inactive", 10, nil, nil, false)

	catalog, err := svc.GetCatalog(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(catalog) != 1 || catalog[0].Name != "Active" {
		t.Errorf("catalog = %+v, want only the active item", catalog)
	}
}

func TestPurchase_ConcurrentLastUnit(t *testing.T) {
	shopRepo, statsRepo, svc, _ := newShopFixture(t)
	stock := 1
	item := seedShopItem(t, shopRepo, "Limited badge", 10, &stock, nil, true)

	const buyers = 8
	userIDs := make([]uuid.UUID, buyers)
	for i := range userIDs {
		userIDs[i] = uuid.New()
		if _, err := statsRepo.GetOrCreate(context.Background(), userIDs[i]); err != nil {
			t.Fatal(err)
		}
		grantCoins(t, statsRepo, userIDs[i], 100)
	}

	var wg sync.WaitGroup
	var successes atomic.Int64
	for _, userID := range userIDs {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			if _, err := svc.Purchase(context.Background(), userID, item.ID); err == nil {
				successes.Add(1)
			}
		}(userID)
	}
	wg.Wait()

	if got := successes.Load(); got != 1 {
		t.Errorf("got %d successful purchases of the last unit, want 1", got)
	}
	got, err := shopRepo.GetItem(context.Background(), item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if *got.StockQuantity != 0 {
		t.Errorf("stock = %d, want 0", *got.StockQuantity)
	}
}

func TestPurchase_ConcurrentPerUserLimit(t *testing.T) {
	shopRepo, statsRepo, svc, userID := newShopFixture(t)
	limit := 1
	item := seedShopItem(t, shopRepo, "Coffee", 10, nil, &limit, true)
	grantCoins(t, statsRepo, userID, 1000)

	var wg sync.WaitGroup
	var successes atomic.Int64
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Purchase(context.Background(), userID, item.ID); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := successes.Load(); got != 1 {
		t.Errorf("got %d purchases past a per-user limit of 1, want 1", got)
	}
	stats, err := statsRepo.GetByUserID(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Coins != 990 {
		t.Errorf("balance = %d, want 990 (one debit only)", stats.Coins)
	}
}

func TestCancelPurchase_RestoresStock(t *testing.T) {
	shopRepo, statsRepo, svc, userID := newShopFixture(t)
	stock := 1
	item := seedShopItem(t, shopRepo, "Limited badge", 10, &stock, nil, true)
	grantCoins(t, statsRepo, userID, 100)

	result, err := svc.Purchase(context.Background(), userID, item.ID)
	if err != nil {
		t.Fatal(err)
	}

	if err := shopRepo.UpdatePurchaseStatus(context.Background(), result.Purchase.ID, models.PurchaseCancelled); err != nil {
		t.Fatal(err)
	}
	// Annuler deux fois ne rend pas deux unités.
	if err := shopRepo.UpdatePurchaseStatus(context.Background(), result.Purchase.ID, models.PurchaseCancelled); err != nil {
		t.Fatal(err)
	}

	got, err := shopRepo.GetItem(context.Background(), item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if *got.StockQuantity != 1 {
		t.Errorf("stock = %d after cancellation, want 1", *got.StockQuantity)
	}

	// L'unité rendue est de nouveau achetable.
	if _, err := svc.Purchase(context.Background(), userID, item.ID); err != nil {
		t.Errorf("repurchase after cancellation failed: %v", err)
	}
}

func TestGetHistory_NewestFirst(t *testing.T) {
	shopRepo, statsRepo, svc, userID := newShopFixture(t)
	first := seedShopItem(t, shopRepo, "First", 10, nil, nil, true)
	second := seedShopItem(t, shopRepo, "Second", 10, nil, nil, true)
	grantCoins(t, statsRepo, userID, 100)

	if _, err := svc.Purchase(context.Background(), userID, first.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Purchase(context.Background(), userID, second.ID); err != nil {
		t.Fatal(err)
	}

	history, err := svc.GetHistory(context.Background(), userID, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d purchases, want 2", len(history))
	}
	if history[0].ItemID != second.ID || history[1].ItemID != first.ID {
		t.Error("history is not newest-first")
	}
}
