package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"moodjournal/internal/models"
)

const mediaColumns = `id, entry_id, user_id, media_type, file_path, file_name, file_size, created_at`

type MediaRepository interface {
	Create(ctx context.Context, m *models.Media) error
	ByID(ctx context.Context, userID, id int) (*models.Media, error)
	ByEntry(ctx context.Context, userID, entryID int) ([]models.Media, error)
	Delete(ctx context.Context, userID, id int) error
}

type mediaRepository struct {
	db *sqlx.DB
}

func NewMediaRepository(db *sqlx.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, m *models.Media) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO entry_media (entry_id, user_id, media_type, file_path, file_name, file_size)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		m.EntryID, m.UserID, m.MediaType, m.FilePath, m.FileName, m.FileSize,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create media: %w", err)
	}
	return nil
}

func (r *mediaRepository) ByID(ctx context.Context, userID, id int) (*models.Media, error) {
	var m models.Media
	err := r.db.GetContext(ctx, &m, `SELECT `+mediaColumns+` FROM entry_media WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("get media: %w", err)
	}
	return &m, nil
}

func (r *mediaRepository) ByEntry(ctx context.Context, userID, entryID int) ([]models.Media, error) {
	media := []models.Media{}
	err := r.db.SelectContext(ctx, &media, `SELECT `+mediaColumns+` FROM entry_media
		WHERE entry_id = $1 AND user_id = $2 ORDER BY created_at`, entryID, userID)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	return media, nil
}

func (r *mediaRepository) Delete(ctx context.Context, userID, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entry_media WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMediaNotFound
	}
	return nil
}
