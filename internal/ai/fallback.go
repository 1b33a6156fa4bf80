package ai

import "fmt"

// Language selects the output language of prompts and fallbacks.
type Language string

const (
	English Language = "en"
	Turkish Language = "tr"
)

// ParseLanguage maps a query value to a supported language, defaulting to English.
func ParseLanguage(s string) Language {
	if s == string(Turkish) {
		return Turkish
	}
	return English
}

func (l Language) name() string {
	if l == Turkish {
		return "Turkish"
	}
	return "English"
}

type Prompt struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
	Type   string `json:"type"`
}

type Insight struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

var fallbackPrompts = map[Language][]Prompt{
	English: {
		{Title: "Daily Reflection", Prompt: "What moment today brought you the most peace?", Type: "reflection"},
		{Title: "Gratitude", Prompt: "Name three small things you're grateful for right now.", Type: "gratitude"},
		{Title: "Growth", Prompt: "What's one thing you learned about yourself this week?", Type: "growth"},
	},
	Turkish: {
		{Title: "Günlük Yansıma", Prompt: "Bugün sana en çok huzur veren an hangisiydi?", Type: "reflection"},
		{Title: "Şükran", Prompt: "Şu an minnettar olduğun üç küçük şeyi yaz.", Type: "gratitude"},
		{Title: "Gelişim", Prompt: "Bu hafta kendin hakkında öğrendiğin bir şey nedir?", Type: "growth"},
	},
}

var fallbackInsights = map[Language][]Insight{
	English: {
		{Icon: "📝", Title: "Keep Writing", Text: "Consistency builds self-awareness over time."},
		{Icon: "🌟", Title: "Reflect Daily", Text: "Even a few sentences can make a difference."},
		{Icon: "💪", Title: "You're Doing Great", Text: "Every entry helps you grow."},
	},
	Turkish: {
		{Icon: "📝", Title: "Yazmaya Devam Et", Text: "Tutarlılık zamanla farkındalık oluşturur."},
		{Icon: "🌟", Title: "Günlük Yansıma", Text: "Birkaç cümle bile fark yaratabilir."},
		{Icon: "💪", Title: "Harika Gidiyorsun", Text: "Her günlük girişi seni geliştirir."},
	},
}

func noEntriesMessage(l Language) string {
	if l == Turkish {
		return "Bu hafta hiç günlük girmedin. Kişiselleştirilmiş içgörüler için yazmaya başla!"
	}
	return "No entries this week. Start writing to get personalized insights!"
}

// fallbackSummary describes the week from counts alone.
func fallbackSummary(l Language, entries int, topMood string) string {
	if l == Turkish {
		s := fmt.Sprintf("Bu hafta %d günlük yazdın.", entries)
		if topMood != "" {
			s += fmt.Sprintf(" En sık hissettiğin ruh hali: %s.", topMood)
		}
		return s + " Kendin için yazmaya devam et!"
	}
	s := fmt.Sprintf("You wrote %d journal entries this week.", entries)
	if topMood != "" {
		s += fmt.Sprintf(" Your most frequent mood was %s.", topMood)
	}
	return s + " Keep showing up for yourself!"
}

func copyPrompts(l Language) []Prompt {
	return append([]Prompt(nil), fallbackPrompts[l]...)
}

func copyInsights(l Language) []Insight {
	return append([]Insight(nil), fallbackInsights[l]...)
}
