package services

import (
	"context"
	"time"

	"moodjournal/internal/analytics"
	"moodjournal/internal/repository"
)

// Summary is the dashboard overview for one user.
type Summary struct {
	repository.EntrySummary
	Last7Days []repository.DailyCount
}

// AnalyticsService loads entry rows and hands them to the analytics package.
type AnalyticsService struct {
	entries repository.EntryRepository
}

func NewAnalyticsService(entries repository.EntryRepository) *AnalyticsService {
	return &AnalyticsService{entries: entries}
}

func (s *AnalyticsService) Streak(ctx context.Context, userID int, today time.Time) (analytics.Streak, error) {
	dates, err := s.entries.DistinctDates(ctx, userID)
	if err != nil {
		return analytics.Streak{}, err
	}
	return analytics.ComputeStreak(dates, today), nil
}

func (s *AnalyticsService) WordCloud(ctx context.Context, userID, limit int) ([]analytics.WordCount, error) {
	texts, err := s.entries.Texts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.WordCloud(texts, limit), nil
}

func (s *AnalyticsService) WritingFrequency(ctx context.Context, userID int) (analytics.Frequency, error) {
	dates, err := s.entries.DistinctDates(ctx, userID)
	if err != nil {
		return analytics.Frequency{}, err
	}
	return analytics.WeekdayFrequency(dates), nil
}

// MoodTrends buckets moods over the lookback window of the named period.
func (s *AnalyticsService) MoodTrends(ctx context.Context, userID int, period string, today time.Time) ([]analytics.MoodBucket, error) {
	lookback, granularity := analytics.TrendPeriod(period)
	samples, err := s.entries.MoodSamples(ctx, userID, today.AddDate(0, 0, -lookback))
	if err != nil {
		return nil, err
	}
	return analytics.MoodTrends(samples, granularity), nil
}

func (s *AnalyticsService) MoodDistribution(ctx context.Context, userID int, from, to *time.Time) ([]analytics.MoodShare, error) {
	moods, err := s.entries.Moods(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return analytics.MoodDistribution(moods), nil
}

func (s *AnalyticsService) Summary(ctx context.Context, userID int, today time.Time) (Summary, error) {
	base, err := s.entries.Summary(ctx, userID, today)
	if err != nil {
		return Summary{}, err
	}
	last7, err := s.entries.LastDays(ctx, userID, today, 7)
	if err != nil {
		return Summary{}, err
	}
	return Summary{EntrySummary: base, Last7Days: last7}, nil
}
