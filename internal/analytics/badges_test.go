package analytics

import "testing"

func types(defs []BadgeDefinition) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.Type
	}
	return out
}

func TestEligibleBadges(t *testing.T) {
	tests := []struct {
		name  string
		stats BadgeStats
		want  []string
	}{
		{"nothing yet", BadgeStats{}, nil},
		{"first entry", BadgeStats{TotalEntries: 1, LongestStreak: 1}, []string{"first_entry"}},
		{"ten entries week streak", BadgeStats{TotalEntries: 10, LongestStreak: 7}, []string{"first_entry", "streak_7", "entries_10"}},
		{"everything", BadgeStats{TotalEntries: 100, DistinctMoods: 5, TotalWords: 10000, LongestStreak: 30, EarlyEntries: 5, LateEntries: 5},
			[]string{"first_entry", "streak_7", "streak_30", "entries_10", "entries_50", "entries_100", "mood_tracker", "word_master", "early_bird", "night_owl"}},
		{"just below thresholds", BadgeStats{TotalEntries: 9, DistinctMoods: 4, TotalWords: 9999, LongestStreak: 6, EarlyEntries: 4, LateEntries: 4}, []string{"first_entry"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := types(EligibleBadges(tt.stats, nil))
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Expected %v, got %v", tt.want, got)
					break
				}
			}
		})
	}
}

func TestEligibleBadgesIdempotent(t *testing.T) {
	stats := BadgeStats{TotalEntries: 12, DistinctMoods: 5, LongestStreak: 8}
	awarded := map[string]bool{}

	first := EligibleBadges(stats, awarded)
	if len(first) == 0 {
		t.Fatal("Expected badges on first evaluation")
	}
	for _, d := range first {
		awarded[d.Type] = true
	}

	if second := EligibleBadges(stats, awarded); len(second) != 0 {
		t.Errorf("Expected no new badges on second evaluation, got %v", types(second))
	}
}

func TestEligibleBadgesSkipsAwarded(t *testing.T) {
	got := EligibleBadges(BadgeStats{TotalEntries: 10}, map[string]bool{"first_entry": true})
	if len(got) != 1 || got[0].Type != "entries_10" {
		t.Errorf("Expected only entries_10, got %v", types(got))
	}
}

func TestLookupBadge(t *testing.T) {
	def, ok := LookupBadge("entries_100")
	if !ok || def.Name != "Century" || def.NameTr != "Yüzlük" || def.Icon != "emoji_events" {
		t.Errorf("Unexpected definition %+v", def)
	}
	if _, ok := LookupBadge("unknown"); ok {
		t.Error("Expected unknown badge to be missing")
	}
	if n := len(BadgeDefinitions()); n != 10 {
		t.Errorf("Expected 10 definitions, got %d", n)
	}
}
