package service

import (
	"context"
	"sync"
	"time"

	"progression/internal/config"
	"progression/internal/models"

	"github.com/google/uuid"
)

// In-memory repositories mirroring the SQL semantics of the real ones.

func defaultGameConfig() config.GameConfig {
	return config.GameConfig{
		DailyQuestCount:   3,
		WeeklyQuestCount:  1,
		MonthlyQuestCount: 1,
	}
}

type fakePlayerStatsRepo struct {
	mu           sync.Mutex
	players      map[uuid.UUID]*models.PlayerStats
	transactions []models.XPTransaction

	// awardErr fait échouer le prochain AwardXP une seule fois.
	awardErr error
}

func newFakePlayerStatsRepo() *fakePlayerStatsRepo {
	return &fakePlayerStatsRepo{players: make(map[uuid.UUID]*models.PlayerStats)}
}

func (r *fakePlayerStatsRepo) Create(ctx context.Context, stats *models.PlayerStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[stats.UserID] = stats
	return nil
}

func (r *fakePlayerStatsRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.PlayerStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.players[userID]
	if !ok {
		return nil, models.NewNotFoundError("player stats", userID.String())
	}
	copied := *stats
	return &copied, nil
}

func (r *fakePlayerStatsRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.PlayerStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.players[userID]
	if !ok {
		stats = models.NewPlayerStats(userID)
		r.players[userID] = stats
	}
	copied := *stats
	return &copied, nil
}

func (r *fakePlayerStatsRepo) ListAll(ctx context.Context) ([]models.PlayerStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.PlayerStats, 0, len(r.players))
	for _, stats := range r.players {
		out = append(out, *stats)
	}
	return out, nil
}

func (r *fakePlayerStatsRepo) AwardXP(ctx context.Context, userID uuid.UUID, amount int64, coinsOverride *int64,
	reason string, sourceKind models.SourceKind, sourceID string) (*models.AwardResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.awardErr != nil {
		err := r.awardErr
		r.awardErr = nil
		return nil, err
	}

	stats, ok := r.players[userID]
	if !ok {
		return nil, models.NewNotFoundError("player stats", userID.String())
	}

	oldLevel := stats.Level
	stats.XP += amount
	if stats.XP < 0 {
		stats.XP = 0
	}
	stats.Level = models.LevelForXP(stats.XP)

	var coins int64
	if coinsOverride != nil {
		coins = *coinsOverride
	} else if amount > 0 {
		coins = models.DefaultCoinReward(amount)
	}
	for level := oldLevel + 1; level <= stats.Level; level++ {
		coins += models.LevelUpCoinBonus(level)
	}
	stats.Coins += coins

	r.transactions = append(r.transactions, models.XPTransaction{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    amount,
		Reason:    reason,
		Source:    sourceKind,
		SourceID:  sourceID,
		CreatedAt: time.Now(),
	})

	return &models.AwardResult{
		NewXP:        stats.XP,
		NewLevel:     stats.Level,
		LeveledUp:    stats.Level > oldLevel,
		CoinsGranted: coins,
		NewCoins:     stats.Coins,
	}, nil
}

func (r *fakePlayerStatsRepo) DebitCoins(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.players[userID]
	if !ok {
		return 0, models.NewNotFoundError("player stats", userID.String())
	}
	if stats.Coins < amount {
		return stats.Coins, models.NewInsufficientFundsError(amount, stats.Coins)
	}
	stats.Coins -= amount
	return stats.Coins, nil
}

func (r *fakePlayerStatsRepo) GrantCoins(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.players[userID]
	if !ok {
		return 0, models.NewNotFoundError("player stats", userID.String())
	}
	stats.Coins += amount
	return stats.Coins, nil
}

func (r *fakePlayerStatsRepo) IncrementCounter(ctx context.Context, userID uuid.UUID, field models.CounterField, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.players[userID]
	if !ok {
		return models.NewNotFoundError("player stats", userID.String())
	}

	switch field {
	case models.CounterCalls:
		stats.CallsCompleted += int(delta)
	case models.CounterMeetings:
		stats.MeetingsCompleted += int(delta)
	case models.CounterTraining:
		stats.TrainingSessionsCompleted += int(delta)
	case models.CounterDeals:
		stats.DealsClosed += int(delta)
	case models.CounterPipelineValue:
		stats.TotalPipelineValue += delta
	default:
		return models.NewValidationError("counter not writable: " + string(field))
	}
	return nil
}

func (r *fakePlayerStatsRepo) UpdateStreak(ctx context.Context, userID uuid.UUID, activityDate time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.players[userID]
	if !ok {
		return 0, models.NewNotFoundError("player stats", userID.String())
	}

	day := activityDate.UTC().Truncate(24 * time.Hour)
	switch {
	case stats.LastActivityDate == nil:
		stats.CurrentStreak = 1
	case stats.LastActivityDate.Equal(day):
		// Même jour : la série ne bouge pas.
	case stats.LastActivityDate.Equal(day.AddDate(0, 0, -1)):
		stats.CurrentStreak++
	default:
		stats.CurrentStreak = 1
	}
	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	stats.LastActivityDate = &day
	return stats.CurrentStreak, nil
}

func (r *fakePlayerStatsRepo) UpdateSkillScore(ctx context.Context, userID uuid.UUID, skill string, score int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.players[userID]
	if !ok {
		return models.NewNotFoundError("player stats", userID.String())
	}

	apply := func(current *int) {
		if score > *current {
			*current = score
		}
	}
	switch skill {
	case "objection_handling":
		apply(&stats.ObjectionHandlingScore)
	case "rapport_building":
		apply(&stats.RapportBuildingScore)
	case "discovery":
		apply(&stats.DiscoveryScore)
	case "closing":
		apply(&stats.ClosingScore)
	case "value_proposition":
		apply(&stats.ValuePropositionScore)
	default:
		return models.NewValidationError("unknown skill: " + skill)
	}
	return nil
}

func (r *fakePlayerStatsRepo) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.XPTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.XPTransaction
	for i := len(r.transactions) - 1; i >= 0; i-- {
		if r.transactions[i].UserID == userID {
			out = append(out, r.transactions[i])
		}
	}
	if offset < len(out) {
		out = out[offset:]
	} else {
		out = nil
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeAchievementRepo struct {
	mu      sync.Mutex
	catalog []models.Achievement
	unlocks []models.UnlockRecord
}

func (r *fakeAchievementRepo) Create(ctx context.Context, achievement *models.Achievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if achievement.ID == uuid.Nil {
		achievement.ID = uuid.New()
	}
	r.catalog = append(r.catalog, *achievement)
	return nil
}

func (r *fakeAchievementRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Achievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.catalog {
		if r.catalog[i].ID == id {
			copied := r.catalog[i]
			return &copied, nil
		}
	}
	return nil, models.NewNotFoundError("achievement", id.String())
}

func (r *fakeAchievementRepo) ListActive(ctx context.Context) ([]models.Achievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Achievement
	for _, a := range r.catalog {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAchievementRepo) UnlockedIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]bool)
	for _, u := range r.unlocks {
		if u.UserID == userID {
			out[u.AchievementID] = true
		}
	}
	return out, nil
}

func (r *fakeAchievementRepo) InsertUnlock(ctx context.Context, userID, achievementID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.unlocks {
		if u.UserID == userID && u.AchievementID == achievementID {
			return false, nil
		}
	}
	r.unlocks = append(r.unlocks, models.UnlockRecord{
		ID:            uuid.New(),
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    time.Now(),
	})
	return true, nil
}

func (r *fakeAchievementRepo) ListUnlocks(ctx context.Context, userID uuid.UUID) ([]models.UnlockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.UnlockRecord
	for _, u := range r.unlocks {
		if u.UserID == userID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeAchievementRepo) ListPendingRewards(ctx context.Context, userID uuid.UUID) ([]models.UnlockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.UnlockRecord
	for _, u := range r.unlocks {
		if u.UserID == userID && !u.RewardGranted {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeAchievementRepo) MarkRewardGranted(ctx context.Context, unlockID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.unlocks {
		if r.unlocks[i].ID == unlockID {
			if r.unlocks[i].RewardGranted {
				return models.NewNotFoundError("pending reward", unlockID.String())
			}
			r.unlocks[i].RewardGranted = true
			return nil
		}
	}
	return models.NewNotFoundError("pending reward", unlockID.String())
}

func (r *fakeAchievementRepo) ResetRewardPending(ctx context.Context, unlockID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.unlocks {
		if r.unlocks[i].ID == unlockID {
			r.unlocks[i].RewardGranted = false
			return nil
		}
	}
	return nil
}

func (r *fakeAchievementRepo) SeedDefaults(ctx context.Context) error {
	for _, a := range models.DefaultAchievements() {
		achievement := a
		if err := r.Create(ctx, &achievement); err != nil {
			return err
		}
	}
	return nil
}

type fakeQuestRepo struct {
	mu        sync.Mutex
	templates []models.QuestTemplate
	instances []models.QuestInstance
}

func (r *fakeQuestRepo) CreateTemplate(ctx context.Context, quest *models.QuestTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if quest.ID == uuid.Nil {
		quest.ID = uuid.New()
	}
	r.templates = append(r.templates, *quest)
	return nil
}

func (r *fakeQuestRepo) GetTemplate(ctx context.Context, id uuid.UUID) (*models.QuestTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.templates {
		if r.templates[i].ID == id {
			copied := r.templates[i]
			return &copied, nil
		}
	}
	return nil, models.NewNotFoundError("quest", id.String())
}

func (r *fakeQuestRepo) ListActiveTemplates(ctx context.Context, questType models.QuestType) ([]models.QuestTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.QuestTemplate
	for _, q := range r.templates {
		if q.IsActive && q.Type == questType {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuestRepo) AssignInstance(ctx context.Context, userID, questID uuid.UUID, windowStart time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inst := range r.instances {
		if inst.UserID == userID && inst.QuestID == questID && inst.WindowStart.Equal(windowStart) {
			return false, nil
		}
	}
	r.instances = append(r.instances, models.QuestInstance{
		ID:          uuid.New(),
		UserID:      userID,
		QuestID:     questID,
		WindowStart: windowStart,
		AssignedAt:  time.Now(),
	})
	return true, nil
}

func (r *fakeQuestRepo) ListOpenInstances(ctx context.Context, userID uuid.UUID) ([]models.QuestInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.QuestInstance
	for _, inst := range r.instances {
		if inst.UserID != userID || inst.CompletedAt != nil {
			continue
		}
		copied := inst
		for i := range r.templates {
			if r.templates[i].ID == inst.QuestID {
				tmpl := r.templates[i]
				copied.Template = &tmpl
				break
			}
		}
		out = append(out, copied)
	}
	return out, nil
}

func (r *fakeQuestRepo) ListInstances(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.QuestInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.QuestInstance
	for _, inst := range r.instances {
		if inst.UserID == userID {
			out = append(out, inst)
		}
	}
	return out, nil
}

func (r *fakeQuestRepo) IncrementProgress(ctx context.Context, instanceID uuid.UUID, delta, target int64) (bool, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.instances {
		inst := &r.instances[i]
		if inst.ID != instanceID {
			continue
		}
		if inst.CompletedAt != nil {
			return false, 0, nil
		}
		completed := inst.Progress+delta >= target
		inst.Progress += delta
		if inst.Progress > target {
			inst.Progress = target
		}
		if completed {
			now := time.Now()
			inst.CompletedAt = &now
		}
		return completed, inst.Progress, nil
	}
	return false, 0, nil
}

func (r *fakeQuestRepo) HasInstanceSince(ctx context.Context, userID uuid.UUID, questType models.QuestType, since time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inst := range r.instances {
		if inst.UserID != userID || inst.WindowStart.Before(since) {
			continue
		}
		for _, tmpl := range r.templates {
			if tmpl.ID == inst.QuestID && tmpl.Type == questType {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *fakeQuestRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var expired int64
	for i := range r.templates {
		tmpl := &r.templates[i]
		if tmpl.IsActive && tmpl.ExpiresAt != nil && tmpl.ExpiresAt.Before(now) {
			tmpl.IsActive = false
			expired++
		}
	}
	return expired, nil
}

func (r *fakeQuestRepo) SeedDefaults(ctx context.Context) error {
	for _, q := range models.DefaultQuests() {
		quest := q
		if err := r.CreateTemplate(ctx, &quest); err != nil {
			return err
		}
	}
	return nil
}

type fakeShopRepo struct {
	mu        sync.Mutex
	items     []models.ShopItem
	purchases []models.PurchaseRecord
	stats     *fakePlayerStatsRepo
}

func (r *fakeShopRepo) CreateItem(ctx context.Context, item *models.ShopItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items = append(r.items, *item)
	return nil
}

func (r *fakeShopRepo) GetItem(ctx context.Context, id uuid.UUID) (*models.ShopItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			copied := r.items[i]
			return &copied, nil
		}
	}
	return nil, models.NewNotFoundError("shop item", id.String())
}

func (r *fakeShopRepo) ListItems(ctx context.Context, includeInactive bool) ([]models.ShopItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ShopItem
	for _, item := range r.items {
		if item.IsActive || includeInactive {
			out = append(out, item)
		}
	}
	return out, nil
}

// Purchase rejoue l'ordre de validation de la vraie implémentation :
// existence et activité, limite par joueur, stock, puis solde.
func (r *fakeShopRepo) Purchase(ctx context.Context, userID, itemID uuid.UUID) (*models.PurchaseResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var item *models.ShopItem
	for i := range r.items {
		if r.items[i].ID == itemID {
			item = &r.items[i]
			break
		}
	}
	if item == nil {
		return nil, models.NewNotFoundError("shop item", itemID.String())
	}
	if !item.IsActive {
		return nil, models.NewItemInactiveError(itemID.String())
	}

	if item.MaxPerUser != nil {
		owned := 0
		for _, p := range r.purchases {
			if p.UserID == userID && p.ItemID == itemID && p.Status != models.PurchaseCancelled {
				owned++
			}
		}
		if owned >= *item.MaxPerUser {
			return nil, models.NewPerUserLimitError(itemID.String(), *item.MaxPerUser)
		}
	}

	if item.StockQuantity != nil {
		if *item.StockQuantity <= 0 {
			return nil, models.NewOutOfStockError(itemID.String())
		}
		*item.StockQuantity--
	}

	remaining, err := r.stats.DebitCoins(ctx, userID, item.CoinsCost)
	if err != nil {
		if item.StockQuantity != nil {
			*item.StockQuantity++
		}
		return nil, err
	}

	purchase := models.PurchaseRecord{
		ID:         uuid.New(),
		UserID:     userID,
		ItemID:     itemID,
		CoinsSpent: item.CoinsCost,
		Status:     models.PurchasePending,
		CreatedAt:  time.Now(),
	}
	r.purchases = append(r.purchases, purchase)

	copied := *item
	purchase.Item = &copied
	return &models.PurchaseResult{
		Purchase:       &purchase,
		RemainingCoins: remaining,
	}, nil
}

func (r *fakeShopRepo) ListPurchases(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.PurchaseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PurchaseRecord
	for i := len(r.purchases) - 1; i >= 0; i-- {
		if r.purchases[i].UserID == userID {
			out = append(out, r.purchases[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeShopRepo) UpdatePurchaseStatus(ctx context.Context, purchaseID uuid.UUID, status models.PurchaseStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.purchases {
		if r.purchases[i].ID != purchaseID {
			continue
		}
		if r.purchases[i].Status == status {
			return nil
		}
		if status == models.PurchaseCancelled {
			for j := range r.items {
				if r.items[j].ID == r.purchases[i].ItemID && r.items[j].StockQuantity != nil {
					*r.items[j].StockQuantity++
				}
			}
		}
		r.purchases[i].Status = status
		return nil
	}
	return models.NewNotFoundError("purchase", purchaseID.String())
}

func (r *fakeShopRepo) SeedDefaults(ctx context.Context) error {
	for _, item := range models.DefaultShopItems() {
		copied := item
		if err := r.CreateItem(ctx, &copied); err != nil {
			return err
		}
	}
	return nil
}

type fakeDailyStatsRepo struct {
	mu     sync.Mutex
	totals map[uuid.UUID]map[time.Time]*models.PeriodTotals
}

func newFakeDailyStatsRepo() *fakeDailyStatsRepo {
	return &fakeDailyStatsRepo{totals: make(map[uuid.UUID]map[time.Time]*models.PeriodTotals)}
}

func (r *fakeDailyStatsRepo) RecordDeltas(ctx context.Context, userID uuid.UUID, day time.Time, xp, calls, meetings, deals int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := day.UTC().Truncate(24 * time.Hour)
	days, ok := r.totals[userID]
	if !ok {
		days = make(map[time.Time]*models.PeriodTotals)
		r.totals[userID] = days
	}
	t, ok := days[key]
	if !ok {
		t = &models.PeriodTotals{UserID: userID}
		days[key] = t
	}
	t.XP += xp
	t.Calls += calls
	t.Meetings += meetings
	t.Deals += deals
	return nil
}

func (r *fakeDailyStatsRepo) SumWindow(ctx context.Context, start, end time.Time) ([]models.PeriodTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byUser := make(map[uuid.UUID]*models.PeriodTotals)
	for userID, days := range r.totals {
		for day, t := range days {
			if day.Before(start) || !day.Before(end) {
				continue
			}
			agg, ok := byUser[userID]
			if !ok {
				agg = &models.PeriodTotals{UserID: userID}
				byUser[userID] = agg
			}
			agg.XP += t.XP
			agg.Calls += t.Calls
			agg.Meetings += t.Meetings
			agg.Deals += t.Deals
		}
	}

	result := make([]models.PeriodTotals, 0, len(byUser))
	for _, agg := range byUser {
		result = append(result, *agg)
	}
	return result, nil
}

type fakeActivityRepo struct {
	mu         sync.Mutex
	activities []models.Activity
}

func (r *fakeActivityRepo) Insert(ctx context.Context, activity *models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	r.activities = append(r.activities, *activity)
	return nil
}

func (r *fakeActivityRepo) ListRecent(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Activity
	for i := len(r.activities) - 1; i >= 0; i-- {
		if r.activities[i].UserID == userID {
			out = append(out, r.activities[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
