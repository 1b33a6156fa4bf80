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

const todoColumns = `id, user_id, title, date, completed, created_at`

// TodoPatch holds the fields of a partial todo update.
type TodoPatch struct {
	Title     *string
	Completed *bool
	Date      *time.Time
}

// TodoSummary counts todos for the current day, week and month.
type TodoSummary struct {
	Today          int `db:"today" json:"today"`
	ThisWeek       int `db:"this_week" json:"thisWeek"`
	ThisMonth      int `db:"this_month" json:"thisMonth"`
	CompletedToday int `db:"completed_today" json:"completedToday"`
}

type TodoRepository interface {
	List(ctx context.Context, userID int, date *time.Time) ([]models.Todo, error)
	Create(ctx context.Context, t *models.Todo) error
	Update(ctx context.Context, userID, id int, p TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, userID, id int) error
	Summary(ctx context.Context, userID int, today time.Time) (TodoSummary, error)
}

type todoRepository struct {
	db *sqlx.DB
}

func NewTodoRepository(db *sqlx.DB) TodoRepository {
	return &todoRepository{db: db}
}

func (r *todoRepository) List(ctx context.Context, userID int, date *time.Time) ([]models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1`
	args := []any{userID}
	if date != nil {
		query += ` AND date = $2`
		args = append(args, dateParam(*date))
	}
	query += ` ORDER BY created_at DESC`

	todos := []models.Todo{}
	if err := r.db.SelectContext(ctx, &todos, query, args...); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (r *todoRepository) Create(ctx context.Context, t *models.Todo) error {
	err := r.db.QueryRowxContext(ctx, `INSERT INTO todos (user_id, title, date, completed) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`, t.UserID, t.Title, dateParam(t.Date), t.Completed).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	return nil
}

func (r *todoRepository) Update(ctx context.Context, userID, id int, p TodoPatch) (*models.Todo, error) {
	var date *string
	if p.Date != nil {
		d := dateParam(*p.Date)
		date = &d
	}
	var t models.Todo
	err := r.db.QueryRowxContext(ctx, `
		UPDATE todos
		SET title = COALESCE($1, title), completed = COALESCE($2, completed), date = COALESCE($3::date, date)
		WHERE id = $4 AND user_id = $5
		RETURNING `+todoColumns, p.Title, p.Completed, date, id, userID).StructScan(&t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return &t, nil
}

func (r *todoRepository) Delete(ctx context.Context, userID, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// Summary treats the week as starting on Sunday.
func (r *todoRepository) Summary(ctx context.Context, userID int, today time.Time) (TodoSummary, error) {
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	var s TodoSummary
	err := r.db.GetContext(ctx, &s, `
		SELECT
			COUNT(*) FILTER (WHERE date = $2) AS today,
			COUNT(*) FILTER (WHERE date >= $3 AND date <= $2) AS this_week,
			COUNT(*) FILTER (WHERE date >= $4 AND date <= $2) AS this_month,
			COUNT(*) FILTER (WHERE date = $2 AND completed) AS completed_today
		FROM todos
		WHERE user_id = $1`, userID, dateParam(today), dateParam(weekStart), dateParam(monthStart))
	if err != nil {
		return s, fmt.Errorf("todo summary: %w", err)
	}
	return s, nil
}
