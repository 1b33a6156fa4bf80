package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"moodjournal/internal/analytics"
	"moodjournal/internal/models"
)

const entryColumns = `id, user_id, title, content, date, mood, tags, is_encrypted, encryption_hint, word_count, created_at, updated_at`

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// EntryFilter narrows a journal listing. Zero values disable a filter.
type EntryFilter struct {
	Search string // never matches encrypted entries
	Mood   string
	Tags   []string // matches entries carrying any of the tags
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

func (f *EntryFilter) normalise() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
}

// EntryDate is a calendar marker for the date picker.
type EntryDate struct {
	Date time.Time `db:"date"`
	Mood *string   `db:"mood"`
}

// EntrySummary backs the analytics summary.
type EntrySummary struct {
	TotalEntries     int  `db:"total_entries"`
	AvgWordsPerEntry int  `db:"avg_words"`
	EntriesThisMonth int  `db:"entries_this_month"`
	EntriesThisWeek  int  `db:"entries_this_week"`
	HasTodayEntry    bool `db:"has_today"`
}

// DailyCount is the number of entries on one date.
type DailyCount struct {
	Date  time.Time `db:"date"`
	Count int       `db:"count"`
}

type EntryRepository interface {
	Create(ctx context.Context, e *models.Entry) error
	ByID(ctx context.Context, userID, id int) (*models.Entry, error)
	ByDate(ctx context.Context, userID int, date time.Time) (*models.Entry, error)
	Update(ctx context.Context, e *models.Entry) error
	Delete(ctx context.Context, userID, id int) error
	List(ctx context.Context, userID int, f EntryFilter) ([]models.Entry, int, error)
	Range(ctx context.Context, userID int, from, to time.Time) ([]models.Entry, error)
	All(ctx context.Context, userID int, from, to *time.Time) ([]models.Entry, error)
	Import(ctx context.Context, userID int, entries []models.Entry) (int, error)

	Dates(ctx context.Context, userID, year, month int) ([]EntryDate, error)
	DistinctDates(ctx context.Context, userID int) ([]time.Time, error)
	Moods(ctx context.Context, userID int, from, to *time.Time) ([]string, error)
	MoodSamples(ctx context.Context, userID int, since time.Time) ([]analytics.MoodSample, error)
	Texts(ctx context.Context, userID int) ([]string, error)
	Summary(ctx context.Context, userID int, today time.Time) (EntrySummary, error)
	LastDays(ctx context.Context, userID int, today time.Time, days int) ([]DailyCount, error)
	BadgeStats(ctx context.Context, userID int, loc *time.Location) (analytics.BadgeStats, error)
}

type entryRepository struct {
	db *sqlx.DB
}

func NewEntryRepository(db *sqlx.DB) EntryRepository {
	return &entryRepository{db: db}
}

// dateParam renders a calendar date for a DATE parameter so the session
// timezone never shifts it.
func dateParam(t time.Time) string {
	return t.Format(analytics.DateLayout)
}

func (r *entryRepository) Create(ctx context.Context, e *models.Entry) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO journal_entries (user_id, title, content, date, mood, tags, is_encrypted, encryption_hint, word_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		e.UserID, e.Title, e.Content, dateParam(e.Date), e.Mood, e.Tags, e.IsEncrypted, e.EncryptionHint, e.WordCount,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateDate
		}
		return fmt.Errorf("create entry: %w", err)
	}
	return nil
}

func (r *entryRepository) ByID(ctx context.Context, userID, id int) (*models.Entry, error) {
	return r.getOne(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *entryRepository) ByDate(ctx context.Context, userID int, date time.Time) (*models.Entry, error) {
	return r.getOne(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE user_id = $1 AND date = $2`, userID, dateParam(date))
}

func (r *entryRepository) getOne(ctx context.Context, query string, args ...any) (*models.Entry, error) {
	var e models.Entry
	if err := r.db.GetContext(ctx, &e, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return &e, nil
}

func (r *entryRepository) Update(ctx context.Context, e *models.Entry) error {
	err := r.db.QueryRowxContext(ctx, `
		UPDATE journal_entries
		SET title = $1, content = $2, date = $3, mood = $4, tags = $5,
		    is_encrypted = $6, encryption_hint = $7, word_count = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10
		RETURNING created_at, updated_at`,
		e.Title, e.Content, dateParam(e.Date), e.Mood, e.Tags, e.IsEncrypted, e.EncryptionHint, e.WordCount, e.ID, e.UserID,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEntryNotFound
		}
		if isUniqueViolation(err) {
			return ErrDuplicateDate
		}
		return fmt.Errorf("update entry: %w", err)
	}
	return nil
}

func (r *entryRepository) Delete(ctx context.Context, userID, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM journal_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func (r *entryRepository) List(ctx context.Context, userID int, f EntryFilter) ([]models.Entry, int, error) {
	f.normalise()

	where := "WHERE user_id = $1"
	args := []any{userID}
	if f.Search != "" {
		args = append(args, containsPattern(f.Search))
		where += fmt.Sprintf(` AND NOT is_encrypted AND (title ILIKE $%d ESCAPE '\' OR content ILIKE $%d ESCAPE '\')`, len(args), len(args))
	}
	if f.Mood != "" {
		args = append(args, f.Mood)
		where += fmt.Sprintf(" AND mood = $%d", len(args))
	}
	if len(f.Tags) > 0 {
		args = append(args, f.Tags)
		where += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) t WHERE t = ANY($%d))", len(args))
	}
	if f.From != nil {
		args = append(args, dateParam(*f.From))
		where += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, dateParam(*f.To))
		where += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM journal_entries "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	query := "SELECT " + entryColumns + " FROM journal_entries " + where +
		fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	entries := []models.Entry{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}
	return entries, total, nil
}

func (r *entryRepository) Range(ctx context.Context, userID int, from, to time.Time) ([]models.Entry, error) {
	entries := []models.Entry{}
	err := r.db.SelectContext(ctx, &entries, `SELECT `+entryColumns+` FROM journal_entries
		WHERE user_id = $1 AND date >= $2 AND date <= $3 ORDER BY date`, userID, dateParam(from), dateParam(to))
	if err != nil {
		return nil, fmt.Errorf("range entries: %w", err)
	}
	return entries, nil
}

// All returns entries newest first, optionally bounded by date.
func (r *entryRepository) All(ctx context.Context, userID int, from, to *time.Time) ([]models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE user_id = $1`
	args := []any{userID}
	if from != nil {
		args = append(args, dateParam(*from))
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, dateParam(*to))
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	entries := []models.Entry{}
	if err := r.db.SelectContext(ctx, &entries, query+" ORDER BY date DESC", args...); err != nil {
		return nil, fmt.Errorf("all entries: %w", err)
	}
	return entries, nil
}

// Import upserts entries by date in a single transaction.
func (r *entryRepository) Import(ctx context.Context, userID int, entries []models.Entry) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO journal_entries (user_id, title, content, date, mood, tags, is_encrypted, encryption_hint, word_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, date) DO UPDATE SET
		  title = EXCLUDED.title,
		  content = EXCLUDED.content,
		  mood = EXCLUDED.mood,
		  tags = EXCLUDED.tags,
		  is_encrypted = EXCLUDED.is_encrypted,
		  encryption_hint = EXCLUDED.encryption_hint,
		  word_count = EXCLUDED.word_count,
		  updated_at = NOW()`)
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, userID, e.Title, e.Content, dateParam(e.Date), e.Mood, e.Tags, e.IsEncrypted, e.EncryptionHint, e.WordCount); err != nil {
			return 0, fmt.Errorf("import entry %s: %w", dateParam(e.Date), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(entries), nil
}

// Dates lists entry dates with moods, optionally limited to a year and month.
func (r *entryRepository) Dates(ctx context.Context, userID, year, month int) ([]EntryDate, error) {
	where := "WHERE user_id = $1"
	args := []any{userID}
	if year > 0 {
		args = append(args, year)
		where += fmt.Sprintf(" AND EXTRACT(YEAR FROM date) = $%d", len(args))
	}
	if month > 0 {
		args = append(args, month)
		where += fmt.Sprintf(" AND EXTRACT(MONTH FROM date) = $%d", len(args))
	}
	out := []EntryDate{}
	if err := r.db.SelectContext(ctx, &out, "SELECT date, mood FROM journal_entries "+where+" ORDER BY date", args...); err != nil {
		return nil, fmt.Errorf("entry dates: %w", err)
	}
	return out, nil
}

func (r *entryRepository) DistinctDates(ctx context.Context, userID int) ([]time.Time, error) {
	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, `SELECT DISTINCT date FROM journal_entries WHERE user_id = $1 ORDER BY date DESC`, userID); err != nil {
		return nil, fmt.Errorf("distinct dates: %w", err)
	}
	return dates, nil
}

func (r *entryRepository) Moods(ctx context.Context, userID int, from, to *time.Time) ([]string, error) {
	where := "WHERE user_id = $1 AND mood IS NOT NULL"
	args := []any{userID}
	if from != nil {
		args = append(args, dateParam(*from))
		where += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, dateParam(*to))
		where += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	var moods []string
	if err := r.db.SelectContext(ctx, &moods, "SELECT mood FROM journal_entries "+where, args...); err != nil {
		return nil, fmt.Errorf("moods: %w", err)
	}
	return moods, nil
}

func (r *entryRepository) MoodSamples(ctx context.Context, userID int, since time.Time) ([]analytics.MoodSample, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT mood, date FROM journal_entries
		WHERE user_id = $1 AND mood IS NOT NULL AND date >= $2 ORDER BY date`, userID, dateParam(since))
	if err != nil {
		return nil, fmt.Errorf("mood samples: %w", err)
	}
	defer rows.Close()

	var out []analytics.MoodSample
	for rows.Next() {
		var s analytics.MoodSample
		if err := rows.Scan(&s.Mood, &s.Date); err != nil {
			return nil, fmt.Errorf("scan mood sample: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Texts returns title and content of every plaintext entry.
func (r *entryRepository) Texts(ctx context.Context, userID int) ([]string, error) {
	var texts []string
	err := r.db.SelectContext(ctx, &texts, `
		SELECT title || ' ' || content
		FROM journal_entries WHERE user_id = $1 AND NOT is_encrypted`, userID)
	if err != nil {
		return nil, fmt.Errorf("entry texts: %w", err)
	}
	return texts, nil
}

func (r *entryRepository) Summary(ctx context.Context, userID int, today time.Time) (EntrySummary, error) {
	var s EntrySummary
	err := r.db.GetContext(ctx, &s, `
		SELECT
			COUNT(*) AS total_entries,
			COALESCE(ROUND(AVG(word_count)), 0)::int AS avg_words,
			COUNT(*) FILTER (WHERE date_trunc('month', date) = date_trunc('month', $2::date)) AS entries_this_month,
			COUNT(*) FILTER (WHERE date > $2::date - 7 AND date <= $2::date) AS entries_this_week,
			COALESCE(BOOL_OR(date = $2::date), FALSE) AS has_today
		FROM journal_entries
		WHERE user_id = $1`, userID, dateParam(today))
	if err != nil {
		return s, fmt.Errorf("entry summary: %w", err)
	}
	return s, nil
}

// LastDays returns one count per day for the days ending at today, oldest first.
func (r *entryRepository) LastDays(ctx context.Context, userID int, today time.Time, days int) ([]DailyCount, error) {
	out := []DailyCount{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT d::date AS date, COUNT(e.id) AS count
		FROM generate_series($2::date - ($3::int - 1), $2::date, INTERVAL '1 day') AS d
		LEFT JOIN journal_entries e ON e.user_id = $1 AND e.date = d::date
		GROUP BY d
		ORDER BY d`, userID, dateParam(today), days)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	return out, nil
}

// BadgeStats aggregates the entry metrics used by badge rules. The longest
// streak is left for the caller to compute from DistinctDates.
func (r *entryRepository) BadgeStats(ctx context.Context, userID int, loc *time.Location) (analytics.BadgeStats, error) {
	var row struct {
		TotalEntries  int `db:"total_entries"`
		DistinctMoods int `db:"distinct_moods"`
		TotalWords    int `db:"total_words"`
		EarlyEntries  int `db:"early_entries"`
		LateEntries   int `db:"late_entries"`
	}
	err := r.db.GetContext(ctx, &row, `
		SELECT
			COUNT(*) AS total_entries,
			COUNT(DISTINCT mood) AS distinct_moods,
			COALESCE(SUM(word_count), 0) AS total_words,
			COUNT(*) FILTER (WHERE EXTRACT(HOUR FROM created_at AT TIME ZONE $2) < 8) AS early_entries,
			COUNT(*) FILTER (WHERE EXTRACT(HOUR FROM created_at AT TIME ZONE $2) >= 22) AS late_entries
		FROM journal_entries
		WHERE user_id = $1`, userID, loc.String())
	if err != nil {
		return analytics.BadgeStats{}, fmt.Errorf("badge stats: %w", err)
	}
	return analytics.BadgeStats{
		TotalEntries:  row.TotalEntries,
		DistinctMoods: row.DistinctMoods,
		TotalWords:    row.TotalWords,
		EarlyEntries:  row.EarlyEntries,
		LateEntries:   row.LateEntries,
	}, nil
}
