package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"moodjournal/internal/models"
)

var exportNow = time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)

func exportFixture() *fakeEntries {
	return &fakeEntries{entries: []models.Entry{
		{Title: "Garden day", Content: "Planted <b>tomatoes</b>", Date: mustDay("2026-05-30"), Mood: strPtr("Happy"),
			Tags: models.NewStringSet("garden", "spring")},
		{Title: "U2FsdGVkX1+title", Content: "U2FsdGVkX19zZWNyZXQ=", Date: mustDay("2026-05-31"), IsEncrypted: true},
	}}
}

func newExportService(entries *fakeEntries) *ExportService {
	secrets, _ := NewEncryptionService(nil)
	return NewExportService(entries, secrets)
}

func TestExportMarkdown(t *testing.T) {
	svc := newExportService(exportFixture())
	out, err := svc.Export(context.Background(), 1, FormatMarkdown, ExportOptions{}, exportNow)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if out.Filename != "journal-export-2026-06-01.md" {
		t.Errorf("Unexpected filename %q", out.Filename)
	}
	body := string(out.Body)
	for _, want := range []string{
		"# My Journal",
		"## Garden day",
		"📅 **Date:** Saturday, May 30, 2026",
		"😊 **Mood:** Happy",
		"🏷️ **Tags:** #garden #spring",
		encryptedPlaceholder,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
	if strings.Contains(body, "U2FsdGVkX19zZWNyZXQ=") {
		t.Error("Expected ciphertext to be masked")
	}
	if strings.Index(body, encryptedPlaceholder) > strings.Index(body, "Garden day") {
		t.Error("Expected newest entry first")
	}
}

func TestExportIncludeEncrypted(t *testing.T) {
	svc := newExportService(exportFixture())
	out, err := svc.Export(context.Background(), 1, FormatText, ExportOptions{IncludeEncrypted: true}, exportNow)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(string(out.Body), "U2FsdGVkX19zZWNyZXQ=") {
		t.Error("Expected raw ciphertext when includeEncrypted is set")
	}
}

func TestExportHTMLEscapesRawMarkup(t *testing.T) {
	svc := newExportService(exportFixture())
	out, err := svc.Export(context.Background(), 1, FormatHTML, ExportOptions{}, exportNow)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	body := string(out.Body)
	if !strings.Contains(body, "<h2") || !strings.Contains(body, "Garden day") {
		t.Errorf("Expected rendered headings, got %s", body)
	}
	if strings.Contains(body, "<b>tomatoes</b>") {
		t.Error("Expected raw HTML from entry content to be omitted")
	}
}

func TestExportJSONBackup(t *testing.T) {
	svc := newExportService(exportFixture())
	out, err := svc.Export(context.Background(), 1, FormatJSON, ExportOptions{}, exportNow)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	var backup Backup
	if err := json.Unmarshal(out.Body, &backup); err != nil {
		t.Fatalf("Backup is not valid JSON: %v", err)
	}
	if backup.TotalEntries != 2 || backup.Entries[1].Date != "2026-05-30" || len(backup.Entries[1].Tags) != 2 {
		t.Errorf("Unexpected backup %+v", backup)
	}
}

func TestExportErrors(t *testing.T) {
	svc := newExportService(&fakeEntries{})
	if _, err := svc.Export(context.Background(), 1, FormatMarkdown, ExportOptions{}, exportNow); !errors.Is(err, ErrNoEntries) {
		t.Errorf("Expected ErrNoEntries, got %v", err)
	}
	if _, err := svc.Export(context.Background(), 1, "pdf", ExportOptions{}, exportNow); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}

func TestImportRecomputesWordCount(t *testing.T) {
	entries := &fakeEntries{}
	svc := newExportService(entries)
	cipher := base64.StdEncoding.EncodeToString([]byte("Salted__12345678abcdefghijklmnop"))

	n, err := svc.Import(context.Background(), 1, []BackupEntry{
		{Title: "Plain", Content: "one two three", Date: "2026-01-02", WordCount: 99, Tags: []string{"b", "a", "b"}},
		{Title: "Locked", Content: cipher, Date: "2026-01-03", IsEncrypted: true, WordCount: 42},
	})
	if err != nil || n != 2 {
		t.Fatalf("Import failed: %d %v", n, err)
	}
	if entries.imported[0].WordCount != 3 || entries.imported[1].WordCount != 42 {
		t.Errorf("Unexpected word counts %d, %d", entries.imported[0].WordCount, entries.imported[1].WordCount)
	}
	if got := entries.imported[0].Tags; len(got) != 2 || got[0] != "a" {
		t.Errorf("Expected deduplicated tags, got %v", got)
	}
}

func TestImportRejectsInvalidEntries(t *testing.T) {
	svc := newExportService(&fakeEntries{})
	tests := []BackupEntry{
		{Title: "Bad date", Content: "x", Date: "02/01/2026"},
		{Title: "Not cipher", Content: "plain words", Date: "2026-01-02", IsEncrypted: true},
	}
	for _, tt := range tests {
		if _, err := svc.Import(context.Background(), 1, []BackupEntry{tt}); !errors.Is(err, ErrInvalidBackup) {
			t.Errorf("%s: expected ErrInvalidBackup, got %v", tt.Title, err)
		}
	}
}
