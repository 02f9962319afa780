package service

import (
	"context"
	"testing"
	"time"

	"progression/internal/config"
	"progression/internal/models"

	"github.com/google/uuid"
)

func newQuestFixture(t *testing.T) (*fakeQuestRepo, *fakePlayerStatsRepo, QuestService, uuid.UUID) {
	t.Helper()

	questRepo := &fakeQuestRepo{}
	statsRepo := newFakePlayerStatsRepo()
	gameCfg := config.GameConfig{
		DailyQuestCount:   2,
		WeeklyQuestCount:  1,
		MonthlyQuestCount: 1,
	}
	svc := NewQuestService(questRepo, NewLedgerService(statsRepo, NewEventEmitter()), &fakeActivityRepo{}, NewEventEmitter(), gameCfg)

	userID := uuid.New()
	if _, err := statsRepo.GetOrCreate(context.Background(), userID); err != nil {
		t.Fatal(err)
	}
	return questRepo, statsRepo, svc, userID
}

func seedQuest(t *testing.T, repo *fakeQuestRepo, name string, questType models.QuestType, kind models.ActionKind, target, xp, coins int64) *models.QuestTemplate {
	t.Helper()

	quest := &models.QuestTemplate{
		Name:         name,
		ActionKind:   kind,
		TargetAmount: target,
		XPReward:     xp,
		CoinsReward:  coins,
		Type:         questType,
		IsActive:     true,
	}
	if err := repo.CreateTemplate(context.Background(), quest); err != nil {
		t.Fatal(err)
	}
	return quest
}

func TestAssignPeriodic_IdempotentWithinWindow(t *testing.T) {
	questRepo, _, svc, userID := newQuestFixture(t)
	seedQuest(t, questRepo, "Cold Caller", models.QuestDaily, models.ActionCallCompleted, 5, 100, 0)
	seedQuest(t, questRepo, "Booker", models.QuestDaily, models.ActionMeetingBooked, 2, 150, 0)
	seedQuest(t, questRepo, "Week Warrior", models.QuestWeekly, models.ActionCallCompleted, 25, 500, 0)
	seedQuest(t, questRepo, "Road to 100", models.QuestMilestone, models.ActionCallCompleted, 100, 1000, 0)

	now := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	if err := svc.AssignPeriodic(context.Background(), userID, now); err != nil {
		t.Fatal(err)
	}

	open, err := questRepo.ListOpenInstances(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	// 2 daily + 1 weekly + 1 milestone. Pas de monthly dans le pool.
	if len(open) != 4 {
		t.Fatalf("got %d open quests, want 4", len(open))
	}

	// Deuxième passage dans la même fenêtre : rien de nouveau.
	if err := svc.AssignPeriodic(context.Background(), userID, now.Add(3*time.Hour)); err != nil {
		t.Fatal(err)
	}
	open, err = questRepo.ListOpenInstances(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 4 {
		t.Errorf("got %d open quests after second assign, want 4", len(open))
	}
}

func TestRecordAction_QuestRewardCanLevelUp(t *testing.T) {
	questRepo := &fakeQuestRepo{}
	statsRepo := newFakePlayerStatsRepo()
	emitter := NewEventEmitter()
	svc := NewQuestService(questRepo, NewLedgerService(statsRepo, emitter), &fakeActivityRepo{}, emitter, defaultGameConfig())

	var levelUps []GameEvent
	emitter.Subscribe(func(ctx context.Context, event GameEvent) {
		if event.Kind == EventLeveledUp {
			levelUps = append(levelUps, event)
		}
	})

	userID := uuid.New()
	if _, err := statsRepo.GetOrCreate(context.Background(), userID); err != nil {
		t.Fatal(err)
	}
	quest := seedQuest(t, questRepo, "Big Win", models.QuestDaily, models.ActionDealClosed, 1, 1000, 0)
	if _, err := questRepo.AssignInstance(context.Background(), userID, quest.ID, time.Time{}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.RecordAction(context.Background(), userID, models.ActionDealClosed, 1); err != nil {
		t.Fatal(err)
	}

	if len(levelUps) != 1 {
		t.Fatalf("got %d level-up events, want 1", len(levelUps))
	}
	if levelUps[0].NewLevel != 2 {
		t.Errorf("got level %d, want 2", levelUps[0].NewLevel)
	}
	// Le gain passe par le ledger, donc il laisse une trace d'audit.
	statsRepo.mu.Lock()
	defer statsRepo.mu.Unlock()
	if len(statsRepo.transactions) != 1 {
		t.Fatalf("got %d transactions, want 1", len(statsRepo.transactions))
	}
	if statsRepo.transactions[0].Source != models.SourceQuest {
		t.Errorf("got source %q, want %q", statsRepo.transactions[0].Source, models.SourceQuest)
	}
}

func TestAssignPeriodic_DailyQuestReturnsNextWindow(t *testing.T) {
	questRepo, _, svc, userID := newQuestFixture(t)
	seedQuest(t, questRepo, "Cold Caller", models.QuestDaily, models.ActionCallCompleted, 1, 100, 0)
	seedQuest(t, questRepo, "Road to 100", models.QuestMilestone, models.ActionCallCompleted, 100, 1000, 0)

	day1 := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)
	if err := svc.AssignPeriodic(context.Background(), userID, day1); err != nil {
		t.Fatal(err)
	}

	// Termine la quête du jour.
	if _, err := svc.RecordAction(context.Background(), userID, models.ActionCallCompleted, 1); err != nil {
		t.Fatal(err)
	}

	day2 := day1.AddDate(0, 0, 1)
	if err := svc.AssignPeriodic(context.Background(), userID, day2); err != nil {
		t.Fatal(err)
	}

	open, err := questRepo.ListOpenInstances(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}

	var daily, milestone int
	for _, inst := range open {
		switch inst.Template.Type {
		case models.QuestDaily:
			daily++
		case models.QuestMilestone:
			milestone++
		}
	}
	// Le même template quotidien revient dans la nouvelle fenêtre ; la
	// quête permanente n'est pas dupliquée.
	if daily != 1 {
		t.Errorf("got %d open daily quests on day 2, want 1", daily)
	}
	if milestone != 1 {
		t.Errorf("got %d milestone instances, want 1", milestone)
	}
}

func TestRecordAction_ProgressAndCompletion(t *testing.T) {
	questRepo, statsRepo, svc, userID := newQuestFixture(t)
	quest := seedQuest(t, questRepo, "Cold Caller", models.QuestDaily, models.ActionCallCompleted, 3, 100, 0)

	if _, err := questRepo.AssignInstance(context.Background(), userID, quest.ID, time.Time{}); err != nil {
		t.Fatal(err)
	}

	updates, err := svc.RecordAction(context.Background(), userID, models.ActionCallCompleted, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(updates) != 1 {
		t.Fatalf("got %d updates, want 1", len(updates))
	}
	if updates[0].Progress != 2 || updates[0].Completed {
		t.Errorf("update = %+v, want progress 2 not completed", updates[0])
	}

	// L'incrément final dépasse la cible : clamp à 3 et complétion.
	updates, err = svc.RecordAction(context.Background(), userID, models.ActionCallCompleted, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(updates) != 1 {
		t.Fatalf("got %d updates, want 1", len(updates))
	}
	if updates[0].Progress != 3 || !updates[0].Completed {
		t.Errorf("update = %+v, want progress 3 completed", updates[0])
	}

	stats, err := statsRepo.GetByUserID(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.XP != 100 {
		t.Errorf("XP = %d, want 100", stats.XP)
	}
	// CoinsReward à zéro : la moitié de l'XP par défaut.
	if stats.Coins != 50 {
		t.Errorf("Coins = %d, want 50", stats.Coins)
	}
}

func TestRecordAction_CompletionRewardsFireOnce(t *testing.T) {
	questRepo, statsRepo, svc, userID := newQuestFixture(t)
	quest := seedQuest(t, questRepo, "Closer", models.QuestDaily, models.ActionDealClosed, 1, 200, 80)

	if _, err := questRepo.AssignInstance(context.Background(), userID, quest.ID, time.Time{}); err != nil {
		t.Fatal(err)
	}

	updates, err := svc.RecordAction(context.Background(), userID, models.ActionDealClosed, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(updates) != 1 || !updates[0].Completed {
		t.Fatalf("updates = %+v, want single completion", updates)
	}

	// L'action suivante ne touche plus l'instance terminée.
	updates, err = svc.RecordAction(context.Background(), userID, models.ActionDealClosed, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(updates) != 0 {
		t.Errorf("got %d updates on completed quest, want 0", len(updates))
	}

	stats, err := statsRepo.GetByUserID(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.XP != 200 || stats.Coins != 80 {
		t.Errorf("stats = %d XP / %d coins, want 200/80 paid once", stats.XP, stats.Coins)
	}
}

func TestRecordAction_IgnoresOtherKinds(t *testing.T) {
	questRepo, _, svc, userID := newQuestFixture(t)
	quest := seedQuest(t, questRepo, "Cold Caller", models.QuestDaily, models.ActionCallCompleted, 3, 100, 0)

	if _, err := questRepo.AssignInstance(context.Background(), userID, quest.ID, time.Time{}); err != nil {
		t.Fatal(err)
	}

	updates, err := svc.RecordAction(context.Background(), userID, models.ActionMeetingBooked, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(updates) != 0 {
		t.Errorf("got %d updates for unrelated action, want 0", len(updates))
	}
}

func TestRecordAction_RejectsInvalidInput(t *testing.T) {
	_, _, svc, userID := newQuestFixture(t)

	if _, err := svc.RecordAction(context.Background(), userID, models.ActionKind("teleport"), 1); !models.IsValidation(err) {
		t.Errorf("unknown kind: err = %v, want validation error", err)
	}
	if _, err := svc.RecordAction(context.Background(), userID, models.ActionCallCompleted, 0); !models.IsValidation(err) {
		t.Errorf("zero amount: err = %v, want validation error", err)
	}
}

func TestSweep_DeactivatesExpiredTemplates(t *testing.T) {
	questRepo, _, svc, _ := newQuestFixture(t)
	now := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	past := now.Add(-time.Hour)
	if err := questRepo.CreateTemplate(context.Background(), &models.QuestTemplate{
		Name:         "Flash Sale Sprint",
		ActionKind:   models.ActionCallCompleted,
		TargetAmount: 5,
		XPReward:     100,
		Type:         models.QuestDaily,
		ExpiresAt:    &past,
		IsActive:     true,
	}); err != nil {
		t.Fatal(err)
	}
	seedQuest(t, questRepo, "Evergreen", models.QuestDaily, models.ActionCallCompleted, 5, 100, 0)

	if err := svc.Sweep(context.Background(), now); err != nil {
		t.Fatal(err)
	}

	active, err := questRepo.ListActiveTemplates(context.Background(), models.QuestDaily)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].Name != "Evergreen" {
		t.Errorf("active templates = %+v, want only Evergreen", active)
	}
}
