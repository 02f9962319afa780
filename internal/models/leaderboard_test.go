package models

import (
	"testing"
	"time"
)

func TestLeaderboardScore(t *testing.T) {
	tests := []struct {
		xp, meetings, calls int64
		want                int64
	}{
		{0, 0, 0, 0},
		{1000, 0, 0, 1000},
		{0, 3, 0, 300},
		{0, 0, 4, 200},
		{1000, 3, 4, 1500},
	}

	for _, tt := range tests {
		if got := LeaderboardScore(tt.xp, tt.meetings, tt.calls); got != tt.want {
			t.Errorf("LeaderboardScore(%d, %d, %d) = %d, want %d", tt.xp, tt.meetings, tt.calls, got, tt.want)
		}
	}
}

func TestScoreNeededToOvertake(t *testing.T) {
	if got := ScoreNeededToOvertake(100, 150); got != 51 {
		t.Errorf("ScoreNeededToOvertake(100, 150) = %d, want 51", got)
	}
	// Égalité : il faut encore 1 point pour passer strictement devant.
	if got := ScoreNeededToOvertake(150, 150); got != 1 {
		t.Errorf("ScoreNeededToOvertake(150, 150) = %d, want 1", got)
	}
	if got := ScoreNeededToOvertake(200, 150); got != 0 {
		t.Errorf("ScoreNeededToOvertake(200, 150) = %d, want 0", got)
	}
}

func TestPeriodWindow_Daily(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)
	start, end := PeriodWindow(PeriodDaily, now)

	if !start.Equal(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("daily start = %v", start)
	}
	if !end.Equal(time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("daily end = %v", end)
	}
}

func TestPeriodWindow_WeeklyStartsMonday(t *testing.T) {
	// 2025-03-12 est un mercredi ; la semaine a commencé le lundi 10.
	now := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)
	start, end := PeriodWindow(PeriodWeekly, now)

	if !start.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("weekly start = %v, want Monday 2025-03-10", start)
	}
	if !end.Equal(time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("weekly end = %v, want Monday 2025-03-17", end)
	}

	// Un dimanche appartient encore à la semaine commencée le lundi précédent.
	sunday := time.Date(2025, 3, 16, 23, 59, 0, 0, time.UTC)
	start, _ = PeriodWindow(PeriodWeekly, sunday)
	if !start.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("weekly start on Sunday = %v, want Monday 2025-03-10", start)
	}

	// Le lundi ouvre une nouvelle semaine.
	monday := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)
	start, _ = PeriodWindow(PeriodWeekly, monday)
	if !start.Equal(time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("weekly start on Monday = %v, want same day", start)
	}
}

func TestPeriodWindow_Monthly(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)
	start, end := PeriodWindow(PeriodMonthly, now)

	if !start.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("monthly start = %v", start)
	}
	if !end.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("monthly end = %v", end)
	}
}

func TestPeriodWindow_AllTimeOpen(t *testing.T) {
	now := time.Now()
	start, end := PeriodWindow(PeriodAllTime, now)

	if !start.IsZero() {
		t.Errorf("all_time start = %v, want zero", start)
	}
	if !end.After(now) {
		t.Errorf("all_time end = %v, want far future", end)
	}
}

func TestValidPeriodKind(t *testing.T) {
	for _, period := range []PeriodKind{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAllTime} {
		if !ValidPeriodKind(period) {
			t.Errorf("ValidPeriodKind(%s) = false", period)
		}
	}
	if ValidPeriodKind("yearly") {
		t.Error("ValidPeriodKind(yearly) = true, want false")
	}
}
