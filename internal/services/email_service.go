package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

const appName = "Mood Journal"

type EmailService struct {
	client    *resend.Client
	fromEmail string
	appURL    string
	isDev     bool
}

func NewEmailService(apiKey, fromEmail, appURL string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}
	return &EmailService{client: client, fromEmail: fromEmail, appURL: appURL, isDev: isDev}
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	subject := fmt.Sprintf("Welcome to %s", appName)
	body := fmt.Sprintf("Hi %s,\n\nYour journal is ready. Write your first entry at %s/journal/new\n\n%s", name, s.appURL, appName)
	return s.send(ctx, "welcome", email, subject, body)
}

// SendBuddyRequestEmail tells a user someone wants to be their writing buddy.
func (s *EmailService) SendBuddyRequestEmail(ctx context.Context, email, requesterName string) error {
	subject := fmt.Sprintf("%s wants to be your journaling buddy", requesterName)
	body := fmt.Sprintf("Hi,\n\n%s sent you a buddy request on %s. Buddies see each other's writing activity, never entry content.\n\nReview it at %s/buddies\n\n%s",
		requesterName, appName, s.appURL, appName)
	return s.send(ctx, "buddy_request", email, subject, body)
}

func (s *EmailService) send(ctx context.Context, kind, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", to)
	}
	return err
}
