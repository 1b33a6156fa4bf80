package services

import (
	"context"
	"time"

	"moodjournal/internal/ai"
	"moodjournal/internal/analytics"
	"moodjournal/internal/models"
	"moodjournal/internal/repository"
)

const (
	suggestionHistory = 5
	lockedTitle       = "[Encrypted entry]"
)

// AIService feeds a user's journal into the AI gateway. Encrypted entries
// never reach the model: their title is masked and their content dropped.
type AIService struct {
	entries repository.EntryRepository
	gateway *ai.Gateway
}

func NewAIService(entries repository.EntryRepository, gateway *ai.Gateway) *AIService {
	return &AIService{entries: entries, gateway: gateway}
}

func entryContext(e models.Entry) ai.EntryContext {
	c := ai.EntryContext{Date: e.Date, Mood: e.MoodLabel(), Title: e.Title, Content: e.Content}
	if e.IsEncrypted {
		c.Title = lockedTitle
		c.Content = ""
	}
	return c
}

func (s *AIService) AnalyzeMood(ctx context.Context, title, content string) ai.MoodResult {
	return s.gateway.AnalyzeMood(ctx, title, content)
}

func (s *AIService) Suggestions(ctx context.Context, userID int, lang ai.Language, today time.Time) ([]ai.Prompt, error) {
	recent, _, err := s.entries.List(ctx, userID, repository.EntryFilter{Limit: suggestionHistory})
	if err != nil {
		return nil, err
	}
	history := make([]ai.EntryContext, len(recent))
	for i, e := range recent {
		history[i] = entryContext(e)
	}
	return s.gateway.Suggestions(ctx, lang, history, today), nil
}

// WeeklySummary covers today and the six days before it.
func (s *AIService) WeeklySummary(ctx context.Context, userID int, lang ai.Language, today time.Time) (ai.WeeklySummary, error) {
	from := today.AddDate(0, 0, -6)
	week, err := s.entries.All(ctx, userID, &from, &today)
	if err != nil {
		return ai.WeeklySummary{}, err
	}
	contexts := make([]ai.EntryContext, len(week))
	for i, e := range week {
		contexts[i] = entryContext(e)
	}
	return s.gateway.WeeklySummary(ctx, lang, contexts), nil
}

func (s *AIService) Insights(ctx context.Context, userID int, lang ai.Language) ([]ai.Insight, error) {
	moods, err := s.entries.Moods(ctx, userID, nil, nil)
	if err != nil {
		return nil, err
	}
	dates, err := s.entries.DistinctDates(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := ai.InsightStats{Moods: map[string]int{}, Total: len(dates)}
	for _, m := range moods {
		stats.Moods[m]++
	}
	freq := analytics.WeekdayFrequency(dates)
	for i, d := range freq.Days {
		stats.Weekdays[i] = d.Count
	}
	return s.gateway.Insights(ctx, lang, stats), nil
}
