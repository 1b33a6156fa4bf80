package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"moodjournal/internal/models"
)

type seedEntry struct {
	title   string
	content string
	date    string
	mood    string
	tags    []string
}

var seedEntries = []seedEntry{
	{"First Day of the Year", "Today marks the beginning of a new year. I feel hopeful and excited about the possibilities ahead. I've set some goals for myself and I'm ready to work towards them.",
		"2026-01-01", "Happy", []string{"new year", "goals", "optimistic"}},
	{"Productive Monday", "Had a very productive day at work. Completed two major tasks and felt really accomplished. Evening was spent reading a good book.",
		"2025-12-30", "Accomplished", []string{"work", "productivity", "reading"}},
	{"Weekend Reflections", "Spent the weekend with family. It was nice to disconnect from work and just enjoy quality time with loved ones. We went for a hike and had a lovely dinner.",
		"2025-12-28", "Grateful", []string{"family", "weekend", "nature"}},
	{"Challenging Day", "Today was tough. Faced some challenges at work that made me question my abilities. But I know this is just a temporary setback.",
		"2025-12-25", "Anxious", []string{"work", "challenges", "growth"}},
	{"Creative Breakthrough", "Finally had a breakthrough on the project I've been working on! The solution came to me during my morning walk. Feeling inspired and energized.",
		"2025-12-20", "Excited", []string{"work", "creativity", "inspiration"}},
}

// Seed inserts two demo accounts (password "password123") and sample entries
// for the first one. Existing rows are left untouched.
func Seed(ctx context.Context, db *sqlx.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	var johnID int
	for _, u := range []struct{ name, email string }{{"John Doe", "john@example.com"}, {"Jane Smith", "jane@example.com"}} {
		var id int
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3)
			ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
			RETURNING id`, u.name, u.email, string(hash)).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
		if johnID == 0 {
			johnID = id
		}
	}

	for _, e := range seedEntries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO journal_entries (user_id, title, content, date, mood, tags, word_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (user_id, date) DO NOTHING`,
			johnID, e.title, e.content, e.date, e.mood, models.NewStringSet(e.tags...), len(strings.Fields(e.content)))
		if err != nil {
			return fmt.Errorf("seed entry %s: %w", e.date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	slog.Info("seed data inserted", "users", 2, "entries", len(seedEntries))
	return nil
}
