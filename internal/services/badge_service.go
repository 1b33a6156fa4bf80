package services

import (
	"context"
	"log/slog"
	"time"

	"moodjournal/internal/analytics"
	"moodjournal/internal/metrics"
	"moodjournal/internal/models"
	"moodjournal/internal/repository"
)

// BadgeView is a badge definition annotated with whether the user holds it.
type BadgeView struct {
	analytics.BadgeDefinition
	Earned bool `json:"earned"`
}

type BadgeService struct {
	entries repository.EntryRepository
	badges  repository.BadgeRepository
	loc     *time.Location
}

func NewBadgeService(entries repository.EntryRepository, badges repository.BadgeRepository, loc *time.Location) *BadgeService {
	if loc == nil {
		loc = time.UTC
	}
	return &BadgeService{entries: entries, badges: badges, loc: loc}
}

// Badges returns the user's awarded badges and the full catalogue with
// earned flags.
func (s *BadgeService) Badges(ctx context.Context, userID int) ([]models.Badge, []BadgeView, error) {
	earned, err := s.badges.List(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	held := make(map[string]bool, len(earned))
	for _, b := range earned {
		held[b.BadgeType] = true
	}
	defs := analytics.BadgeDefinitions()
	views := make([]BadgeView, len(defs))
	for i, d := range defs {
		views[i] = BadgeView{BadgeDefinition: d, Earned: held[d.Type]}
	}
	return earned, views, nil
}

// Check evaluates every badge rule and awards the ones newly earned. Awards
// that lose a race to a concurrent check are not reported as new.
func (s *BadgeService) Check(ctx context.Context, userID int) ([]analytics.BadgeDefinition, error) {
	stats, err := s.entries.BadgeStats(ctx, userID, s.loc)
	if err != nil {
		return nil, err
	}
	dates, err := s.entries.DistinctDates(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.LongestStreak = analytics.ComputeStreak(dates, time.Time{}).Longest

	awarded, err := s.badges.Awarded(ctx, userID)
	if err != nil {
		return nil, err
	}

	newBadges := []analytics.BadgeDefinition{}
	for _, def := range analytics.EligibleBadges(stats, awarded) {
		created, err := s.badges.Award(ctx, userID, def.Type, def.Name, def.Description)
		if err != nil {
			return nil, err
		}
		if !created {
			continue
		}
		metrics.BadgesAwarded.WithLabelValues(def.Type).Inc()
		slog.Info("badge awarded", "user_id", userID, "badge", def.Type)
		newBadges = append(newBadges, def)
	}
	return newBadges, nil
}
