package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"moodjournal/internal/models"
)

const userColumns = `id, name, email, password_hash, two_factor_secret, two_factor_enabled, avatar_url,
	to_char(reminder_time, 'HH24:MI') AS reminder_time, reminder_enabled, is_admin, created_at, updated_at`

// ProfileUpdate carries optional profile fields; nil leaves a column as is.
type ProfileUpdate struct {
	Name      *string
	AvatarURL *string
}

type UserRepository interface {
	Create(ctx context.Context, name, email, passwordHash string) (*models.User, error)
	ByID(ctx context.Context, id int) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id int, u ProfileUpdate) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	UpdateReminder(ctx context.Context, id int, enabled bool, at *string) error
	SetTwoFactor(ctx context.Context, id int, secret *string, enabled bool) error
	Delete(ctx context.Context, id int) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowxContext(ctx, `INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3)
		RETURNING `+userColumns, name, email, passwordHash).StructScan(&u)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (r *userRepository) ByID(ctx context.Context, id int) (*models.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepository) get(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	if err := r.db.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int, u ProfileUpdate) error {
	setClauses := []string{}
	args := []any{}
	if u.Name != nil {
		args = append(args, *u.Name)
		setClauses = append(setClauses, fmt.Sprintf("name=$%d", len(args)))
	}
	if u.AvatarURL != nil {
		if *u.AvatarURL == "" {
			setClauses = append(setClauses, "avatar_url=NULL")
		} else {
			args = append(args, *u.AvatarURL)
			setClauses = append(setClauses, fmt.Sprintf("avatar_url=$%d", len(args)))
		}
	}
	if len(setClauses) == 0 {
		return nil
	}
	args = append(args, id)
	query := "UPDATE users SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(", updated_at=NOW() WHERE id=$%d", len(args))
	return r.exec(ctx, query, args...)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`, passwordHash, id)
}

func (r *userRepository) UpdateReminder(ctx context.Context, id int, enabled bool, at *string) error {
	return r.exec(ctx, `UPDATE users SET reminder_enabled=$1, reminder_time=$2::time, updated_at=NOW() WHERE id=$3`, enabled, at, id)
}

func (r *userRepository) SetTwoFactor(ctx context.Context, id int, secret *string, enabled bool) error {
	return r.exec(ctx, `UPDATE users SET two_factor_secret=$1, two_factor_enabled=$2, updated_at=NOW() WHERE id=$3`, secret, enabled, id)
}

func (r *userRepository) Delete(ctx context.Context, id int) error {
	return r.exec(ctx, `DELETE FROM users WHERE id=$1`, id)
}

func (r *userRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
