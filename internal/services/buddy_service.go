package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"moodjournal/internal/models"
	"moodjournal/internal/repository"
)

var ErrSelfBuddy = errors.New("cannot add yourself as a buddy")

// Notifier delivers buddy request notifications.
type Notifier interface {
	SendBuddyRequestEmail(ctx context.Context, email, requesterName string) error
}

type BuddyService struct {
	users   repository.UserRepository
	buddies repository.BuddyRepository
	notify  Notifier
}

func NewBuddyService(users repository.UserRepository, buddies repository.BuddyRepository, notify Notifier) *BuddyService {
	return &BuddyService{users: users, buddies: buddies, notify: notify}
}

func (s *BuddyService) Buddies(ctx context.Context, userID int, today time.Time) ([]models.BuddyView, error) {
	return s.buddies.Accepted(ctx, userID, today)
}

func (s *BuddyService) Requests(ctx context.Context, userID int) ([]models.BuddyRequest, error) {
	return s.buddies.Pending(ctx, userID)
}

// Request sends a buddy request to the account owning email. A failed
// notification is logged and does not undo the request.
func (s *BuddyService) Request(ctx context.Context, userID int, email string) (*models.User, error) {
	target, err := s.users.ByEmail(ctx, normaliseEmail(email))
	if err != nil {
		return nil, err
	}
	if target.ID == userID {
		return nil, ErrSelfBuddy
	}
	requester, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.buddies.Request(ctx, userID, target.ID); err != nil {
		return nil, err
	}

	if s.notify != nil {
		if err := s.notify.SendBuddyRequestEmail(ctx, target.Email, requester.Name); err != nil {
			slog.Warn("buddy request email failed", "error", err, "to_user", target.ID)
		}
	}
	return target, nil
}

func (s *BuddyService) Accept(ctx context.Context, userID, requestID int) error {
	return s.buddies.Accept(ctx, userID, requestID)
}

func (s *BuddyService) Decline(ctx context.Context, userID, requestID int) error {
	return s.buddies.Decline(ctx, userID, requestID)
}

func (s *BuddyService) Remove(ctx context.Context, userID, buddyID int) error {
	return s.buddies.Remove(ctx, userID, buddyID)
}
