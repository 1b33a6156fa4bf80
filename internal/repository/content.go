package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"moodjournal/internal/models"
)

const (
	templateColumns = `id, name, name_tr, description, description_tr, content, content_tr, icon, is_default`
	quoteColumns    = `id, quote, quote_tr, author`
)

// ContentRepository serves the shared templates and motivational quotes.
type ContentRepository interface {
	Templates(ctx context.Context) ([]models.Template, error)
	TemplateByID(ctx context.Context, id int) (*models.Template, error)
	Quotes(ctx context.Context) ([]models.Quote, error)
	// QuoteOfDay picks the quote at position dayOfYear % count, ordered by id.
	QuoteOfDay(ctx context.Context, dayOfYear int) (*models.Quote, error)
}

type contentRepository struct {
	db *sqlx.DB
}

func NewContentRepository(db *sqlx.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Templates(ctx context.Context) ([]models.Template, error) {
	out := []models.Template{}
	if err := r.db.SelectContext(ctx, &out, `SELECT `+templateColumns+` FROM templates ORDER BY is_default DESC, name`); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return out, nil
}

func (r *contentRepository) TemplateByID(ctx context.Context, id int) (*models.Template, error) {
	var t models.Template
	if err := r.db.GetContext(ctx, &t, `SELECT `+templateColumns+` FROM templates WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return &t, nil
}

func (r *contentRepository) Quotes(ctx context.Context) ([]models.Quote, error) {
	out := []models.Quote{}
	if err := r.db.SelectContext(ctx, &out, `SELECT `+quoteColumns+` FROM motivational_quotes ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return out, nil
}

func (r *contentRepository) QuoteOfDay(ctx context.Context, dayOfYear int) (*models.Quote, error) {
	var q models.Quote
	err := r.db.GetContext(ctx, &q, `
		SELECT `+quoteColumns+` FROM motivational_quotes
		ORDER BY id
		OFFSET ($1::int % GREATEST((SELECT COUNT(*) FROM motivational_quotes), 1))
		LIMIT 1`, dayOfYear)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoQuotes
		}
		return nil, fmt.Errorf("quote of the day: %w", err)
	}
	return &q, nil
}
