package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"moodjournal/internal/models"
)

type BadgeRepository interface {
	List(ctx context.Context, userID int) ([]models.Badge, error)
	Awarded(ctx context.Context, userID int) (map[string]bool, error)
	// Award inserts the badge unless the user already holds it. The
	// returned flag reports whether a row was created.
	Award(ctx context.Context, userID int, badgeType, name, description string) (bool, error)
}

type badgeRepository struct {
	db *sqlx.DB
}

func NewBadgeRepository(db *sqlx.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) List(ctx context.Context, userID int) ([]models.Badge, error) {
	badges := []models.Badge{}
	err := r.db.SelectContext(ctx, &badges, `SELECT id, user_id, badge_type, badge_name, description, earned_at
		FROM badges WHERE user_id = $1 ORDER BY earned_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	return badges, nil
}

func (r *badgeRepository) Awarded(ctx context.Context, userID int) (map[string]bool, error) {
	var types []string
	if err := r.db.SelectContext(ctx, &types, `SELECT badge_type FROM badges WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("awarded badges: %w", err)
	}
	out := make(map[string]bool, len(types))
	for _, t := range types {
		out[t] = true
	}
	return out, nil
}

func (r *badgeRepository) Award(ctx context.Context, userID int, badgeType, name, description string) (bool, error) {
	var id int
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO badges (user_id, badge_type, badge_name, description) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, badge_type) DO NOTHING
		RETURNING id`, userID, badgeType, name, description).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("award badge %s: %w", badgeType, err)
	}
	return true, nil
}
