package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"moodjournal/internal/analytics"
	"moodjournal/internal/models"
	"moodjournal/internal/repository"
)

const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatText     = "text"
	FormatHTML     = "html"

	encryptedPlaceholder = "[Encrypted entry]"
	longDateLayout       = "Monday, January 2, 2006"
)

var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrNoEntries     = errors.New("no entries found")
	ErrInvalidBackup = errors.New("invalid backup")
)

var moodEmojis = map[string]string{
	"Happy":     "😊",
	"Sad":       "😢",
	"Neutral":   "😐",
	"Energetic": "⚡",
	"Calm":      "😌",
}

// ExportOptions bound and shape an export.
type ExportOptions struct {
	From             *time.Time
	To               *time.Time
	IncludeEncrypted bool // ship ciphertext instead of the placeholder
}

// Export is a rendered download.
type Export struct {
	ContentType string
	Filename    string
	Body        []byte
}

// Backup is the JSON export document; Import accepts the same shape.
type Backup struct {
	ExportDate   time.Time     `json:"exportDate"`
	TotalEntries int           `json:"totalEntries"`
	Entries      []BackupEntry `json:"entries"`
}

type BackupEntry struct {
	Title          string     `json:"title" validate:"required,max=255"`
	Content        string     `json:"content" validate:"required"`
	Date           string     `json:"date" validate:"required,datetime=2006-01-02"`
	Mood           *string    `json:"mood,omitempty" validate:"omitempty,max=50"`
	Tags           []string   `json:"tags"`
	IsEncrypted    bool       `json:"isEncrypted"`
	EncryptionHint *string    `json:"encryptionHint,omitempty"`
	WordCount      int        `json:"wordCount,omitempty" validate:"min=0"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

type ExportService struct {
	entries repository.EntryRepository
	secrets *EncryptionService
	md      goldmark.Markdown
}

func NewExportService(entries repository.EntryRepository, secrets *EncryptionService) *ExportService {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
	)
	return &ExportService{entries: entries, secrets: secrets, md: md}
}

// Export renders the user's entries, newest first, in the given format.
func (s *ExportService) Export(ctx context.Context, userID int, format string, opts ExportOptions, now time.Time) (*Export, error) {
	switch format {
	case FormatMarkdown, FormatHTML, FormatText, FormatJSON:
	default:
		return nil, ErrUnknownFormat
	}
	entries, err := s.entries.All(ctx, userID, opts.From, opts.To)
	if err != nil {
		return nil, err
	}
	if !opts.IncludeEncrypted {
		for i := range entries {
			maskEncrypted(&entries[i])
		}
	}

	stamp := now.Format(analytics.DateLayout)
	filename := func(ext string) string { return fmt.Sprintf("journal-export-%s.%s", stamp, ext) }

	switch format {
	case FormatMarkdown:
		if len(entries) == 0 {
			return nil, ErrNoEntries
		}
		return &Export{ContentType: "text/markdown; charset=utf-8", Filename: filename("md"), Body: []byte(renderMarkdown(entries, now))}, nil
	case FormatHTML:
		if len(entries) == 0 {
			return nil, ErrNoEntries
		}
		body, err := s.renderHTML(entries, now)
		if err != nil {
			return nil, err
		}
		return &Export{ContentType: "text/html; charset=utf-8", Filename: filename("html"), Body: body}, nil
	case FormatText:
		return &Export{ContentType: "text/plain; charset=utf-8", Filename: filename("txt"), Body: []byte(renderText(entries, now))}, nil
	case FormatJSON:
		body, err := json.MarshalIndent(toBackup(entries, now), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode backup: %w", err)
		}
		return &Export{ContentType: "application/json", Filename: filename("json"), Body: body}, nil
	default:
		return nil, ErrUnknownFormat
	}
}

func maskEncrypted(e *models.Entry) {
	if !e.IsEncrypted {
		return
	}
	e.Title = encryptedPlaceholder
	e.Content = encryptedPlaceholder
}

func moodEmoji(mood string) string {
	if e, ok := moodEmojis[mood]; ok {
		return e
	}
	return moodEmojis["Neutral"]
}

func renderMarkdown(entries []models.Entry, now time.Time) string {
	var b strings.Builder
	b.WriteString("# My Journal\n\n")
	fmt.Fprintf(&b, "*Exported on %s*\n\n---\n\n", now.Format(analytics.DateLayout))

	for _, e := range entries {
		fmt.Fprintf(&b, "## %s\n\n", e.Title)
		fmt.Fprintf(&b, "📅 **Date:** %s\n\n", e.Date.Format(longDateLayout))
		if mood := e.MoodLabel(); mood != "" {
			fmt.Fprintf(&b, "%s **Mood:** %s\n\n", moodEmoji(mood), mood)
		}
		if len(e.Tags) > 0 {
			tags := make([]string, len(e.Tags))
			for i, t := range e.Tags {
				tags[i] = "#" + t
			}
			fmt.Fprintf(&b, "🏷️ **Tags:** %s\n\n", strings.Join(tags, " "))
		}
		b.WriteString(e.Content)
		b.WriteString("\n\n---\n\n")
	}
	return b.String()
}

func (s *ExportService) renderHTML(entries []models.Entry, now time.Time) ([]byte, error) {
	var body bytes.Buffer
	if err := s.md.Convert([]byte(renderMarkdown(entries, now)), &body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	var doc bytes.Buffer
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>My Journal</title>\n</head>\n<body>\n")
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")
	return doc.Bytes(), nil
}

func renderText(entries []models.Entry, now time.Time) string {
	var b strings.Builder
	b.WriteString("MY JOURNAL\n")
	fmt.Fprintf(&b, "Exported on %s\n", now.Format(analytics.DateLayout))
	fmt.Fprintf(&b, "Total entries: %d\n", len(entries))
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	for _, e := range entries {
		b.WriteString(e.Title + "\n")
		fmt.Fprintf(&b, "Date: %s\n", e.Date.Format(longDateLayout))
		if mood := e.MoodLabel(); mood != "" {
			fmt.Fprintf(&b, "Mood: %s\n", mood)
		}
		if len(e.Tags) > 0 {
			fmt.Fprintf(&b, "Tags: %s\n", strings.Join(e.Tags, ", "))
		}
		b.WriteString("\n" + e.Content + "\n\n")
		b.WriteString(strings.Repeat("-", 40) + "\n\n")
	}
	return b.String()
}

func toBackup(entries []models.Entry, now time.Time) Backup {
	out := Backup{ExportDate: now.UTC(), TotalEntries: len(entries), Entries: make([]BackupEntry, len(entries))}
	for i, e := range entries {
		created, updated := e.CreatedAt, e.UpdatedAt
		tags := []string(e.Tags)
		if tags == nil {
			tags = []string{}
		}
		out.Entries[i] = BackupEntry{
			Title:          e.Title,
			Content:        e.Content,
			Date:           e.Date.Format(analytics.DateLayout),
			Mood:           e.Mood,
			Tags:           tags,
			IsEncrypted:    e.IsEncrypted,
			EncryptionHint: e.EncryptionHint,
			WordCount:      e.WordCount,
			CreatedAt:      &created,
			UpdatedAt:      &updated,
		}
	}
	return out
}

// Import upserts backup entries by date. Plaintext word counts are
// recomputed; encrypted entries keep the supplied count.
func (s *ExportService) Import(ctx context.Context, userID int, backup []BackupEntry) (int, error) {
	entries := make([]models.Entry, 0, len(backup))
	for i, b := range backup {
		date, err := time.Parse(analytics.DateLayout, b.Date)
		if err != nil {
			return 0, fmt.Errorf("%w: entry %d has invalid date %q", ErrInvalidBackup, i, b.Date)
		}
		e := models.Entry{
			UserID:         userID,
			Title:          b.Title,
			Content:        b.Content,
			Date:           date,
			Mood:           b.Mood,
			Tags:           models.NewStringSet(b.Tags...),
			IsEncrypted:    b.IsEncrypted,
			EncryptionHint: b.EncryptionHint,
			WordCount:      b.WordCount,
		}
		if !e.IsEncrypted {
			e.WordCount = analytics.CountWords(e.Content)
		}
		if err := s.secrets.ValidateEntry(&e); err != nil {
			return 0, fmt.Errorf("%w: entry %d: %v", ErrInvalidBackup, i, err)
		}
		entries = append(entries, e)
	}
	return s.entries.Import(ctx, userID, entries)
}
