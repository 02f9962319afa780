package models

import "testing"

func TestDefaultAchievements_AllValid(t *testing.T) {
	seen := make(map[string]bool)

	for _, a := range DefaultAchievements() {
		if err := a.Validate(); err != nil {
			t.Errorf("achievement %q invalid: %v", a.Slug, err)
		}
		if seen[a.Slug] {
			t.Errorf("duplicate achievement slug: %s", a.Slug)
		}
		seen[a.Slug] = true
		if !a.IsActive {
			t.Errorf("achievement %q seeded inactive", a.Slug)
		}
	}

	if len(seen) != 22 {
		t.Errorf("catalog has %d achievements, want 22", len(seen))
	}
}

func TestDefaultAchievements_SatisfiedBy(t *testing.T) {
	catalog := DefaultAchievements()

	var firstCall *Achievement
	for i := range catalog {
		if catalog[i].Slug == "first_call" {
			firstCall = &catalog[i]
			break
		}
	}
	if firstCall == nil {
		t.Fatal("first_call not in catalog")
	}

	stats := &PlayerStats{}
	if firstCall.SatisfiedBy(stats) {
		t.Error("first_call satisfied by zero stats")
	}
	stats.CallsCompleted = 1
	if !firstCall.SatisfiedBy(stats) {
		t.Error("first_call not satisfied after one call")
	}
}

func TestDefaultQuests_AllValid(t *testing.T) {
	quests := DefaultQuests()

	counts := make(map[QuestType]int)
	for _, q := range quests {
		if err := q.Validate(); err != nil {
			t.Errorf("quest %q invalid: %v", q.Name, err)
		}
		counts[q.Type]++
	}

	if counts[QuestDaily] < 3 {
		t.Errorf("daily pool has %d quests, want at least 3", counts[QuestDaily])
	}
	if counts[QuestWeekly] < 1 {
		t.Errorf("weekly pool has %d quests, want at least 1", counts[QuestWeekly])
	}
	if counts[QuestMonthly] < 1 {
		t.Errorf("monthly pool has %d quests, want at least 1", counts[QuestMonthly])
	}
	if counts[QuestMilestone] < 1 {
		t.Errorf("no milestone quests seeded")
	}
}

func TestDefaultShopItems_AllValid(t *testing.T) {
	items := DefaultShopItems()
	if len(items) != 12 {
		t.Errorf("shop catalog has %d items, want 12", len(items))
	}

	seen := make(map[string]bool)
	for _, item := range items {
		if err := item.Validate(); err != nil {
			t.Errorf("shop item %q invalid: %v", item.Name, err)
		}
		if seen[item.Name] {
			t.Errorf("duplicate shop item name: %s", item.Name)
		}
		seen[item.Name] = true
	}
}

func TestDefaultTrainingQuestions_BestChoicePresent(t *testing.T) {
	questions := DefaultTrainingQuestions()
	if len(questions) == 0 {
		t.Fatal("empty training catalog")
	}

	for _, q := range questions {
		best := q.BestChoice()
		if best == nil {
			t.Errorf("question %q has no best choice", q.ID)
			continue
		}
		for _, choice := range q.Choices {
			if choice.XPReward > best.XPReward {
				t.Errorf("question %q: choice %q pays more XP than best choice", q.ID, choice.ID)
			}
			if choice.Feedback == "" {
				t.Errorf("question %q: choice %q has no feedback", q.ID, choice.ID)
			}
		}
		if q.Choice("missing") != nil {
			t.Errorf("question %q: lookup of unknown choice did not return nil", q.ID)
		}
	}
}
