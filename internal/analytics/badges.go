package analytics

// BadgeDefinition is the static, bilingual description of a badge type.
type BadgeDefinition struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	NameTr        string `json:"nameTr"`
	Description   string `json:"description"`
	DescriptionTr string `json:"descriptionTr"`
	Icon          string `json:"icon"`
}

// BadgeStats are the cumulative metrics badge rules are evaluated against.
type BadgeStats struct {
	TotalEntries  int
	DistinctMoods int
	TotalWords    int
	LongestStreak int
	EarlyEntries  int // created before 08:00
	LateEntries   int // created at or after 22:00
}

type badgeRule struct {
	def  BadgeDefinition
	earn func(BadgeStats) bool
}

var badgeRules = []badgeRule{
	{BadgeDefinition{"first_entry", "First Entry", "İlk Giriş", "Created your first journal entry", "İlk günlük girişini oluşturdun", "edit_note"},
		func(s BadgeStats) bool { return s.TotalEntries >= 1 }},
	{BadgeDefinition{"streak_7", "7 Day Streak", "7 Günlük Seri", "Wrote for 7 consecutive days", "7 gün üst üste yazdın", "local_fire_department"},
		func(s BadgeStats) bool { return s.LongestStreak >= 7 }},
	{BadgeDefinition{"streak_30", "30 Day Streak", "30 Günlük Seri", "Wrote for 30 consecutive days", "30 gün üst üste yazdın", "whatshot"},
		func(s BadgeStats) bool { return s.LongestStreak >= 30 }},
	{BadgeDefinition{"entries_10", "10 Entries", "10 Giriş", "Completed 10 journal entries", "10 günlük girişi tamamladın", "stars"},
		func(s BadgeStats) bool { return s.TotalEntries >= 10 }},
	{BadgeDefinition{"entries_50", "50 Entries", "50 Giriş", "Completed 50 journal entries", "50 günlük girişi tamamladın", "military_tech"},
		func(s BadgeStats) bool { return s.TotalEntries >= 50 }},
	{BadgeDefinition{"entries_100", "Century", "Yüzlük", "Completed 100 journal entries", "100 günlük girişi tamamladın", "emoji_events"},
		func(s BadgeStats) bool { return s.TotalEntries >= 100 }},
	{BadgeDefinition{"mood_tracker", "Mood Tracker", "Duygu Takipçisi", "Used all 5 different moods", "Tüm 5 farklı ruh halini kullandın", "mood"},
		func(s BadgeStats) bool { return s.DistinctMoods >= 5 }},
	{BadgeDefinition{"word_master", "Word Master", "Kelime Ustası", "Wrote over 10,000 words total", "Toplamda 10.000'den fazla kelime yazdın", "history_edu"},
		func(s BadgeStats) bool { return s.TotalWords >= 10000 }},
	{BadgeDefinition{"early_bird", "Early Bird", "Erken Kuş", "Wrote 5 entries before 8 AM", "Sabah 8'den önce 5 giriş yazdın", "wb_sunny"},
		func(s BadgeStats) bool { return s.EarlyEntries >= 5 }},
	{BadgeDefinition{"night_owl", "Night Owl", "Gece Kuşu", "Wrote 5 entries after 10 PM", "Akşam 10'dan sonra 5 giriş yazdın", "nightlight"},
		func(s BadgeStats) bool { return s.LateEntries >= 5 }},
}

// BadgeDefinitions returns every badge definition in rule order.
func BadgeDefinitions() []BadgeDefinition {
	out := make([]BadgeDefinition, len(badgeRules))
	for i, r := range badgeRules {
		out[i] = r.def
	}
	return out
}

// LookupBadge returns the definition for a badge type.
func LookupBadge(badgeType string) (BadgeDefinition, bool) {
	for _, r := range badgeRules {
		if r.def.Type == badgeType {
			return r.def, true
		}
	}
	return BadgeDefinition{}, false
}

// EligibleBadges returns the definitions whose condition holds for stats and
// that are not in awarded. It never returns an awarded type, so feeding the
// result back into awarded makes a second call return nothing.
func EligibleBadges(stats BadgeStats, awarded map[string]bool) []BadgeDefinition {
	var out []BadgeDefinition
	for _, r := range badgeRules {
		if awarded[r.def.Type] || !r.earn(stats) {
			continue
		}
		out = append(out, r.def)
	}
	return out
}
