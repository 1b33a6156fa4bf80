package services

import (
	"context"
	"errors"
	"testing"

	"moodjournal/internal/repository"
)

func TestBuddyRequest(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	alice, _ := users.Create(ctx, "Alice", "alice@example.com", "h")
	bob, _ := users.Create(ctx, "Bob", "bob@example.com", "h")
	buddies := &fakeBuddies{}
	notifier := &recordingNotifier{}
	svc := NewBuddyService(users, buddies, notifier)

	target, err := svc.Request(ctx, alice.ID, " BOB@example.com")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if target.ID != bob.ID {
		t.Errorf("Expected request to Bob, got %+v", target)
	}
	if notifier.to != "bob@example.com" || notifier.from != "Alice" {
		t.Errorf("Unexpected notification %+v", notifier)
	}

	if _, err := svc.Request(ctx, alice.ID, "bob@example.com"); !errors.Is(err, repository.ErrBuddyExists) {
		t.Errorf("Expected ErrBuddyExists, got %v", err)
	}
	if _, err := svc.Request(ctx, alice.ID, "alice@example.com"); !errors.Is(err, ErrSelfBuddy) {
		t.Errorf("Expected ErrSelfBuddy, got %v", err)
	}
	if _, err := svc.Request(ctx, alice.ID, "ghost@example.com"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
