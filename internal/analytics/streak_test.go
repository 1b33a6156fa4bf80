package analytics

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func mustDates(t *testing.T, ss ...string) []time.Time {
	t.Helper()
	out := make([]time.Time, len(ss))
	for i, s := range ss {
		out[i] = mustDate(t, s)
	}
	return out
}

func TestComputeStreakEmpty(t *testing.T) {
	s := ComputeStreak(nil, mustDate(t, "2026-01-01"))
	if s.Current != 0 || s.Longest != 0 || s.Total != 0 || s.LastEntry != nil {
		t.Errorf("Expected zero streak, got %+v", s)
	}
}

func TestComputeStreak(t *testing.T) {
	tests := []struct {
		name    string
		dates   []string
		today   string
		current int
		longest int
		total   int
	}{
		{"single entry today", []string{"2026-01-01"}, "2026-01-01", 1, 1, 1},
		{"single entry yesterday", []string{"2025-12-31"}, "2026-01-01", 1, 1, 1},
		{"single entry two days ago", []string{"2025-12-30"}, "2026-01-01", 0, 1, 1},
		{"seed data", []string{"2025-12-20", "2025-12-25", "2025-12-28", "2025-12-30", "2026-01-01"}, "2026-01-01", 1, 1, 5},
		{"three day run", []string{"2026-01-01", "2025-12-31", "2025-12-30"}, "2026-01-01", 3, 3, 3},
		{"run ending yesterday", []string{"2025-12-31", "2025-12-30", "2025-12-29", "2025-12-20"}, "2026-01-01", 3, 3, 4},
		{"broken current, older longest", []string{"2025-12-01", "2025-12-02", "2025-12-03", "2025-12-04", "2025-12-20"}, "2026-01-01", 0, 4, 5},
		{"two entries two days apart", []string{"2026-01-01", "2025-12-30"}, "2026-01-01", 1, 1, 2},
		{"duplicates collapse", []string{"2026-01-01", "2026-01-01", "2025-12-31"}, "2026-01-01", 2, 2, 2},
		{"unordered input", []string{"2025-12-30", "2026-01-01", "2025-12-31"}, "2026-01-01", 3, 3, 3},
		{"across month boundary", []string{"2026-03-01", "2026-02-28", "2026-02-27"}, "2026-03-01", 3, 3, 3},
		{"future latest entry still anchors", []string{"2026-01-03", "2026-01-02"}, "2026-01-01", 2, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ComputeStreak(mustDates(t, tt.dates...), mustDate(t, tt.today))
			if s.Current != tt.current {
				t.Errorf("Expected current %d, got %d", tt.current, s.Current)
			}
			if s.Longest != tt.longest {
				t.Errorf("Expected longest %d, got %d", tt.longest, s.Longest)
			}
			if s.Total != tt.total {
				t.Errorf("Expected total %d, got %d", tt.total, s.Total)
			}
		})
	}
}

func TestComputeStreakContiguousRunEndingToday(t *testing.T) {
	today := mustDate(t, "2026-06-15")
	for n := 1; n <= 40; n++ {
		dates := make([]time.Time, n)
		for i := 0; i < n; i++ {
			dates[i] = today.AddDate(0, 0, -i)
		}
		s := ComputeStreak(dates, today)
		if s.Current != n {
			t.Fatalf("n=%d: expected current %d, got %d", n, n, s.Current)
		}
		if s.Longest < n {
			t.Fatalf("n=%d: expected longest >= %d, got %d", n, n, s.Longest)
		}
	}
}

func TestComputeStreakLongestIndependentOfToday(t *testing.T) {
	dates := mustDates(t, "2025-01-01", "2025-01-02", "2025-01-03", "2025-03-10", "2025-03-11")
	for _, today := range []string{"2025-01-03", "2025-03-11", "2026-01-01"} {
		s := ComputeStreak(dates, mustDate(t, today))
		if s.Longest != 3 {
			t.Errorf("today=%s: expected longest 3, got %d", today, s.Longest)
		}
	}
}

func TestComputeStreakStaleLatestEntry(t *testing.T) {
	dates := mustDates(t, "2025-12-28", "2025-12-27", "2025-12-26")
	s := ComputeStreak(dates, mustDate(t, "2026-01-01"))
	if s.Current != 0 {
		t.Errorf("Expected current 0, got %d", s.Current)
	}
	if s.LastEntry == nil || s.LastEntry.Format(DateLayout) != "2025-12-28" {
		t.Errorf("Expected last entry 2025-12-28, got %v", s.LastEntry)
	}
}

func TestComputeStreakIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	dates := []time.Time{
		time.Date(2026, 1, 1, 23, 30, 0, 0, loc),
		time.Date(2025, 12, 31, 0, 5, 0, 0, loc),
	}
	s := ComputeStreak(dates, time.Date(2026, 1, 1, 8, 0, 0, 0, loc))
	if s.Current != 2 || s.Longest != 2 {
		t.Errorf("Expected 2/2, got %d/%d", s.Current, s.Longest)
	}
}

func TestWeekdayFrequency(t *testing.T) {
	// 2026-01-04 is a Sunday.
	dates := mustDates(t, "2026-01-04", "2026-01-05", "2026-01-12", "2026-01-19", "2026-01-07")
	f := WeekdayFrequency(dates)
	if f.Days[0].Count != 1 {
		t.Errorf("Expected 1 Sunday, got %d", f.Days[0].Count)
	}
	if f.Days[1].Count != 3 {
		t.Errorf("Expected 3 Mondays, got %d", f.Days[1].Count)
	}
	if f.MostActive != 1 || f.MostActiveName() != "Monday" || f.MostActiveNameTr() != "Pazartesi" {
		t.Errorf("Expected Monday most active, got %d (%s)", f.MostActive, f.MostActiveName())
	}
	if f.Days[3].DayNameTr != "Çarşamba" || f.Days[3].Count != 1 {
		t.Errorf("Unexpected Wednesday bucket %+v", f.Days[3])
	}
}

func TestWeekdayFrequencyTieGoesToLowestDay(t *testing.T) {
	// Tuesday and Saturday one each.
	f := WeekdayFrequency(mustDates(t, "2026-01-10", "2026-01-06"))
	if f.MostActive != 2 {
		t.Errorf("Expected Tuesday (2), got %d", f.MostActive)
	}
}

func TestWeekdayFrequencyEmpty(t *testing.T) {
	f := WeekdayFrequency(nil)
	for i, d := range f.Days {
		if d.Day != i || d.Count != 0 || d.DayName == "" {
			t.Errorf("Unexpected bucket %d: %+v", i, d)
		}
	}
	if f.MostActive != 0 {
		t.Errorf("Expected Sunday for empty input, got %d", f.MostActive)
	}
}
