package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"moodjournal/internal/models"
)

type BuddyRepository interface {
	// Accepted lists accepted buddies with their entry counts over the
	// seven days ending at today. Entry content is never exposed.
	Accepted(ctx context.Context, userID int, today time.Time) ([]models.BuddyView, error)
	Pending(ctx context.Context, userID int) ([]models.BuddyRequest, error)
	Request(ctx context.Context, userID, buddyID int) (*models.Buddy, error)
	Accept(ctx context.Context, userID, requestID int) error
	Decline(ctx context.Context, userID, requestID int) error
	Remove(ctx context.Context, userID, buddyID int) error
}

type buddyRepository struct {
	db *sqlx.DB
}

func NewBuddyRepository(db *sqlx.DB) BuddyRepository {
	return &buddyRepository{db: db}
}

func (r *buddyRepository) Accepted(ctx context.Context, userID int, today time.Time) ([]models.BuddyView, error) {
	out := []models.BuddyView{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT b.id, b.buddy_id, u.name AS buddy_name, u.email AS buddy_email, b.created_at,
			(SELECT COUNT(*) FROM journal_entries e
			 WHERE e.user_id = b.buddy_id AND e.date > $2::date - 7 AND e.date <= $2::date) AS entries_this_week
		FROM buddies b
		JOIN users u ON u.id = b.buddy_id
		WHERE b.user_id = $1 AND b.status = 'accepted'
		ORDER BY b.created_at DESC`, userID, dateParam(today))
	if err != nil {
		return nil, fmt.Errorf("list buddies: %w", err)
	}
	return out, nil
}

func (r *buddyRepository) Pending(ctx context.Context, userID int) ([]models.BuddyRequest, error) {
	out := []models.BuddyRequest{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT b.id, b.user_id, u.name AS requester_name, u.email AS requester_email, b.created_at
		FROM buddies b
		JOIN users u ON u.id = b.user_id
		WHERE b.buddy_id = $1 AND b.status = 'pending'
		ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list buddy requests: %w", err)
	}
	return out, nil
}

func (r *buddyRepository) Request(ctx context.Context, userID, buddyID int) (*models.Buddy, error) {
	var b models.Buddy
	err := r.db.QueryRowxContext(ctx, `INSERT INTO buddies (user_id, buddy_id, status) VALUES ($1, $2, 'pending')
		RETURNING id, user_id, buddy_id, status, created_at`, userID, buddyID).StructScan(&b)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrBuddyExists
		}
		return nil, fmt.Errorf("create buddy request: %w", err)
	}
	return &b, nil
}

// Accept marks an incoming request accepted and creates the reverse edge.
func (r *buddyRepository) Accept(ctx context.Context, userID, requestID int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin accept: %w", err)
	}
	defer tx.Rollback()

	var requesterID int
	err = tx.QueryRowxContext(ctx, `UPDATE buddies SET status = 'accepted'
		WHERE id = $1 AND buddy_id = $2 AND status = 'pending'
		RETURNING user_id`, requestID, userID).Scan(&requesterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRequestNotFound
		}
		return fmt.Errorf("accept request: %w", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO buddies (user_id, buddy_id, status) VALUES ($1, $2, 'accepted')
		ON CONFLICT (user_id, buddy_id) DO UPDATE SET status = 'accepted'`, userID, requesterID)
	if err != nil {
		return fmt.Errorf("create reverse buddy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit accept: %w", err)
	}
	return nil
}

func (r *buddyRepository) Decline(ctx context.Context, userID, requestID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM buddies WHERE id = $1 AND buddy_id = $2 AND status = 'pending'`, requestID, userID)
	if err != nil {
		return fmt.Errorf("decline request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// Remove deletes the relationship in both directions.
func (r *buddyRepository) Remove(ctx context.Context, userID, buddyID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM buddies
		WHERE (user_id = $1 AND buddy_id = $2) OR (user_id = $2 AND buddy_id = $1)`, userID, buddyID)
	if err != nil {
		return fmt.Errorf("remove buddy: %w", err)
	}
	return nil
}
