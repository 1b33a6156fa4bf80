package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Overview struct {
	TotalUsers          int `db:"total_users" json:"totalUsers"`
	TotalEntries        int `db:"total_entries" json:"totalEntries"`
	ActiveUsersThisWeek int `db:"active_users_this_week" json:"activeUsersThisWeek"`
	EntriesThisWeek     int `db:"entries_this_week" json:"entriesThisWeek"`
	EntriesThisMonth    int `db:"entries_this_month" json:"entriesThisMonth"`
}

type AdminRepository interface {
	Overview(ctx context.Context, today time.Time) (Overview, error)
}

type adminRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) AdminRepository {
	return &adminRepository{db: db}
}

// Overview counts weeks from Monday, as date_trunc does.
func (r *adminRepository) Overview(ctx context.Context, today time.Time) (Overview, error) {
	var o Overview
	err := r.db.GetContext(ctx, &o, `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			COUNT(*) AS total_entries,
			COUNT(DISTINCT user_id) FILTER (WHERE date >= date_trunc('week', $1::date) AND date <= $1::date) AS active_users_this_week,
			COUNT(*) FILTER (WHERE date >= date_trunc('week', $1::date) AND date <= $1::date) AS entries_this_week,
			COUNT(*) FILTER (WHERE date_trunc('month', date) = date_trunc('month', $1::date)) AS entries_this_month
		FROM journal_entries`, dateParam(today))
	if err != nil {
		return o, fmt.Errorf("admin overview: %w", err)
	}
	return o, nil
}
