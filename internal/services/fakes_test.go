package services

import (
	"context"
	"sort"
	"time"

	"moodjournal/internal/analytics"
	"moodjournal/internal/models"
	"moodjournal/internal/repository"
)

type fakeUsers struct {
	repository.UserRepository
	byID map[int]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int]*models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, name, email, hash string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return nil, repository.ErrEmailTaken
		}
	}
	u := &models.User{ID: len(f.byID) + 1, Name: name, Email: email, PasswordHash: hash}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) ByID(_ context.Context, id int) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) ByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id int, hash string) error {
	f.byID[id].PasswordHash = hash
	return nil
}

func (f *fakeUsers) SetTwoFactor(_ context.Context, id int, secret *string, enabled bool) error {
	f.byID[id].TwoFactorSecret = secret
	f.byID[id].TwoFactorEnabled = enabled
	return nil
}

// fakeEntries keeps entries in memory; only the methods services use are
// implemented.
type fakeEntries struct {
	repository.EntryRepository
	entries  []models.Entry
	stats    analytics.BadgeStats
	imported []models.Entry
}

func (f *fakeEntries) DistinctDates(_ context.Context, _ int) ([]time.Time, error) {
	var dates []time.Time
	for _, e := range f.entries {
		dates = append(dates, e.Date)
	}
	return analytics.DistinctDescending(dates), nil
}

func (f *fakeEntries) BadgeStats(_ context.Context, _ int, _ *time.Location) (analytics.BadgeStats, error) {
	return f.stats, nil
}

func (f *fakeEntries) All(_ context.Context, _ int, _, _ *time.Time) ([]models.Entry, error) {
	out := append([]models.Entry(nil), f.entries...)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeEntries) Import(_ context.Context, _ int, entries []models.Entry) (int, error) {
	f.imported = entries
	return len(entries), nil
}

type fakeBadges struct {
	repository.BadgeRepository
	held map[string]bool
}

func (f *fakeBadges) Awarded(_ context.Context, _ int) (map[string]bool, error) {
	out := map[string]bool{}
	for k, v := range f.held {
		out[k] = v
	}
	return out, nil
}

func (f *fakeBadges) Award(_ context.Context, _ int, badgeType, _, _ string) (bool, error) {
	if f.held[badgeType] {
		return false, nil
	}
	f.held[badgeType] = true
	return true, nil
}

func (f *fakeBadges) List(_ context.Context, userID int) ([]models.Badge, error) {
	var out []models.Badge
	for t := range f.held {
		out = append(out, models.Badge{UserID: userID, BadgeType: t})
	}
	return out, nil
}

type fakeBuddies struct {
	repository.BuddyRepository
	requests [][2]int
}

func (f *fakeBuddies) Request(_ context.Context, userID, buddyID int) (*models.Buddy, error) {
	for _, r := range f.requests {
		if r == [2]int{userID, buddyID} {
			return nil, repository.ErrBuddyExists
		}
	}
	f.requests = append(f.requests, [2]int{userID, buddyID})
	return &models.Buddy{ID: len(f.requests), UserID: userID, BuddyID: buddyID, Status: models.BuddyPending}, nil
}

type recordingNotifier struct {
	to, from string
}

func (n *recordingNotifier) SendBuddyRequestEmail(_ context.Context, email, requesterName string) error {
	n.to, n.from = email, requesterName
	return nil
}

func mustDay(s string) time.Time {
	d, err := time.Parse(analytics.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }
