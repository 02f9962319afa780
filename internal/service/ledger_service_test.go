package service

import (
	"context"
	"testing"

	"progression/internal/models"

	"github.com/google/uuid"
)

func TestAward_NegativeCorrectionDeductsXP(t *testing.T) {
	repo := newFakePlayerStatsRepo()
	ledger := NewLedgerService(repo, NewEventEmitter())
	userID := uuid.New()

	if _, err := repo.GetOrCreate(context.Background(), userID); err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.Award(context.Background(), userID, 100, nil, "test", models.SourceManual, ""); err != nil {
		t.Fatal(err)
	}

	result, err := ledger.Award(context.Background(), userID, -50, nil, "correction", models.SourceManual, "")
	if err != nil {
		t.Fatalf("negative correction rejected: %v", err)
	}
	if result.NewXP != 50 {
		t.Errorf("NewXP = %d, want 50", result.NewXP)
	}
	if result.CoinsGranted != 0 {
		t.Errorf("CoinsGranted = %d, want 0 for a deduction", result.CoinsGranted)
	}
}

func TestAward_NegativeCorrectionClampsAtZero(t *testing.T) {
	repo := newFakePlayerStatsRepo()
	ledger := NewLedgerService(repo, NewEventEmitter())
	userID := uuid.New()

	if _, err := repo.GetOrCreate(context.Background(), userID); err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.Award(context.Background(), userID, 100, nil, "test", models.SourceManual, ""); err != nil {
		t.Fatal(err)
	}

	result, err := ledger.Award(context.Background(), userID, -5000, nil, "correction", models.SourceManual, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.NewXP != 0 {
		t.Errorf("NewXP = %d, want clamp to 0", result.NewXP)
	}
	if result.NewLevel != 1 {
		t.Errorf("NewLevel = %d, want 1", result.NewLevel)
	}

	stats, err := repo.GetByUserID(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.XP != 0 {
		t.Errorf("XP = %d after clamped correction, want 0", stats.XP)
	}
}

func TestAward_DefaultCoinReward(t *testing.T) {
	repo := newFakePlayerStatsRepo()
	ledger := NewLedgerService(repo, NewEventEmitter())
	userID := uuid.New()

	if _, err := repo.GetOrCreate(context.Background(), userID); err != nil {
		t.Fatal(err)
	}

	result, err := ledger.Award(context.Background(), userID, 500, nil, "test", models.SourceManual, "")
	if err != nil {
		t.Fatal(err)
	}

	if result.NewXP != 500 {
		t.Errorf("NewXP = %d, want 500", result.NewXP)
	}
	if result.CoinsGranted != 50 {
		t.Errorf("CoinsGranted = %d, want 50 (10%% of 500)", result.CoinsGranted)
	}
	if result.LeveledUp {
		t.Error("500 XP should not level up a fresh account")
	}
}

func TestAward_CoinsOverride(t *testing.T) {
	repo := newFakePlayerStatsRepo()
	ledger := NewLedgerService(repo, NewEventEmitter())
	userID := uuid.New()

	if _, err := repo.GetOrCreate(context.Background(), userID); err != nil {
		t.Fatal(err)
	}

	override := int64(75)
	result, err := ledger.Award(context.Background(), userID, 100, &override, "quest", models.SourceQuest, "")
	if err != nil {
		t.Fatal(err)
	}

	if result.CoinsGranted != 75 {
		t.Errorf("CoinsGranted = %d, want override 75", result.CoinsGranted)
	}
}

func TestAward_LevelUpEmitsEventAndBonus(t *testing.T) {
	repo := newFakePlayerStatsRepo()
	emitter := NewEventEmitter()
	ledger := NewLedgerService(repo, emitter)
	userID := uuid.New()

	var events []GameEvent
	emitter.Subscribe(func(ctx context.Context, event GameEvent) {
		events = append(events, event)
	})

	if _, err := repo.GetOrCreate(context.Background(), userID); err != nil {
		t.Fatal(err)
	}

	// 1200 XP franchit le seuil du niveau 2 (1000).
	result, err := ledger.Award(context.Background(), userID, 1200, nil, "test", models.SourceManual, "")
	if err != nil {
		t.Fatal(err)
	}

	if !result.LeveledUp || result.NewLevel != 2 {
		t.Fatalf("result = %+v, want level up to 2", result)
	}
	// 120 de récompense de base + 100 de bonus de passage au niveau 2.
	if result.CoinsGranted != 220 {
		t.Errorf("CoinsGranted = %d, want 220", result.CoinsGranted)
	}

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Kind != EventLeveledUp || events[0].NewLevel != 2 || events[0].UserID != userID {
		t.Errorf("unexpected event: %+v", events[0])
	}
}

func TestAward_MultiLevelJumpGrantsEachBonus(t *testing.T) {
	repo := newFakePlayerStatsRepo()
	ledger := NewLedgerService(repo, NewEventEmitter())
	userID := uuid.New()

	if _, err := repo.GetOrCreate(context.Background(), userID); err != nil {
		t.Fatal(err)
	}

	// 3500 XP saute les niveaux 2 et 3 d'un coup.
	result, err := ledger.Award(context.Background(), userID, 3500, nil, "test", models.SourceManual, "")
	if err != nil {
		t.Fatal(err)
	}

	if result.NewLevel != 3 {
		t.Fatalf("NewLevel = %d, want 3", result.NewLevel)
	}
	// 350 de base + 100 (niveau 2) + 150 (niveau 3).
	if result.CoinsGranted != 600 {
		t.Errorf("CoinsGranted = %d, want 600", result.CoinsGranted)
	}
}

func TestDebit_InsufficientFunds(t *testing.T) {
	repo := newFakePlayerStatsRepo()
	ledger := NewLedgerService(repo, NewEventEmitter())
	userID := uuid.New()

	if _, err := repo.GetOrCreate(context.Background(), userID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GrantCoins(context.Background(), userID, 30); err != nil {
		t.Fatal(err)
	}

	_, err := ledger.Debit(context.Background(), userID, 100)
	if err == nil {
		t.Fatal("Debit succeeded with insufficient funds")
	}
	fundsErr, ok := err.(*models.InsufficientFundsError)
	if !ok {
		t.Fatalf("error = %T, want InsufficientFundsError", err)
	}
	if fundsErr.Required != 100 || fundsErr.Available != 30 {
		t.Errorf("error = %+v, want required=100 available=30", fundsErr)
	}

	// Le solde n'a pas bougé.
	remaining, err := ledger.Debit(context.Background(), userID, 30)
	if err != nil {
		t.Fatal(err)
	}
	if remaining != 0 {
		t.Errorf("remaining = %d, want 0", remaining)
	}
}

func TestGetTransactions_ClampsLimit(t *testing.T) {
	repo := newFakePlayerStatsRepo()
	ledger := NewLedgerService(repo, NewEventEmitter())
	userID := uuid.New()

	if _, err := repo.GetOrCreate(context.Background(), userID); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 60; i++ {
		if _, err := ledger.Award(context.Background(), userID, 10, nil, "test", models.SourceManual, ""); err != nil {
			t.Fatal(err)
		}
	}

	transactions, err := ledger.GetTransactions(context.Background(), userID, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(transactions) != 50 {
		t.Errorf("default limit returned %d transactions, want 50", len(transactions))
	}

	transactions, err = ledger.GetTransactions(context.Background(), userID, 500, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(transactions) != 50 {
		t.Errorf("oversized limit returned %d transactions, want clamp to 50", len(transactions))
	}
}
