package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"moodjournal/internal/ai"
	"moodjournal/internal/analytics"
	authmw "moodjournal/internal/middleware"
	"moodjournal/internal/models"
	"moodjournal/internal/repository"
	"moodjournal/internal/services"
	"moodjournal/internal/storage"
)

const testUser = 7

var fixedDay = time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedDay }

// serve routes req through a chi router so URL params resolve, with the
// test user already authenticated.
func serve(t *testing.T, method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)
	req = req.WithContext(authmw.WithUserID(req.Context(), testUser))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

type fakeEntries struct {
	repository.EntryRepository
	byID    map[int]*models.Entry
	created []models.Entry
	dates   []time.Time
	texts   []string
	samples []analytics.MoodSample
	stats   analytics.BadgeStats
}

func (f *fakeEntries) Create(_ context.Context, e *models.Entry) error {
	for _, c := range f.created {
		if c.UserID == e.UserID && c.Date.Equal(e.Date) {
			return repository.ErrDuplicateDate
		}
	}
	e.ID = len(f.created) + 1
	e.CreatedAt = fixedDay
	e.UpdatedAt = fixedDay
	f.created = append(f.created, *e)
	return nil
}

func (f *fakeEntries) ByID(_ context.Context, userID, id int) (*models.Entry, error) {
	e, ok := f.byID[id]
	if !ok || e.UserID != userID {
		return nil, repository.ErrEntryNotFound
	}
	return e, nil
}

func newJournalHandler(t *testing.T, entries *fakeEntries) *JournalHandler {
	t.Helper()
	secrets, err := services.NewEncryptionService(nil)
	if err != nil {
		t.Fatalf("encryption service: %v", err)
	}
	return NewJournalHandler(entries, nil, nil, nil, secrets)
}

func TestJournalCreate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		wantErr string
	}{
		{"valid", `{"title":"Day","content":"one two  three","date":"2024-03-06","mood":"Happy","tags":["a","a","b"]}`, http.StatusCreated, ""},
		{"missing title", `{"content":"x","date":"2024-03-06"}`, http.StatusBadRequest, "title is required"},
		{"bad date", `{"title":"t","content":"x","date":"06/03/2024"}`, http.StatusBadRequest, "date must match 2006-01-02"},
		{"malformed json", `{"title":`, http.StatusBadRequest, "invalid request body"},
		{"bad ciphertext", `{"title":"t","content":"not base64!","date":"2024-03-07","isEncrypted":true}`, http.StatusBadRequest, "encrypted content is malformed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newJournalHandler(t, &fakeEntries{})
			req := httptest.NewRequest(http.MethodPost, "/journal", strings.NewReader(tt.body))
			rec := serve(t, http.MethodPost, "/journal", h.Create, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			body := decode(t, rec)
			if tt.wantErr != "" && body["error"] != tt.wantErr {
				t.Errorf("error = %v, want %q", body["error"], tt.wantErr)
			}
		})
	}
}

func TestJournalCreateComputesWordCountAndRejectsDuplicates(t *testing.T) {
	entries := &fakeEntries{}
	h := newJournalHandler(t, entries)
	body := `{"title":"Day","content":"one two  three","date":"2024-03-06","tags":["a","a","b"],"wordCount":99}`

	rec := serve(t, http.MethodPost, "/journal", h.Create, httptest.NewRequest(http.MethodPost, "/journal", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	entry := decode(t, rec)["entry"].(map[string]any)
	if entry["word_count"] != float64(3) {
		t.Errorf("word_count = %v, want 3", entry["word_count"])
	}
	if entry["date"] != "2024-03-06" {
		t.Errorf("date = %v", entry["date"])
	}
	if tags := entry["tags"].([]any); len(tags) != 2 {
		t.Errorf("tags = %v, want deduplicated pair", tags)
	}

	rec = serve(t, http.MethodPost, "/journal", h.Create, httptest.NewRequest(http.MethodPost, "/journal", strings.NewReader(body)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", rec.Code)
	}
}

type fakeTodos struct {
	repository.TodoRepository
	summaryDay time.Time
	todos      map[int]*models.Todo
}

func (f *fakeTodos) Summary(_ context.Context, _ int, today time.Time) (repository.TodoSummary, error) {
	f.summaryDay = today
	return repository.TodoSummary{Today: 2, ThisWeek: 5, ThisMonth: 9, CompletedToday: 1}, nil
}

func (f *fakeTodos) Update(_ context.Context, userID, id int, p repository.TodoPatch) (*models.Todo, error) {
	t, ok := f.todos[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrTodoNotFound
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	return t, nil
}

func TestTodoSummaryUsesLocalDate(t *testing.T) {
	todos := &fakeTodos{}
	h := NewTodoHandler(todos, fixedClock)

	rec := serve(t, http.MethodGet, "/todos/summary", h.Summary, httptest.NewRequest(http.MethodGet, "/todos/summary?local_date=2024-02-29", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["referenceDate"] != "2024-02-29" || body["thisWeek"] != float64(5) {
		t.Errorf("body = %v", body)
	}
	if want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC); !todos.summaryDay.Equal(want) {
		t.Errorf("summary day = %v, want %v", todos.summaryDay, want)
	}

	rec = serve(t, http.MethodGet, "/todos/summary", h.Summary, httptest.NewRequest(http.MethodGet, "/todos/summary", nil))
	if body := decode(t, rec); body["referenceDate"] != "2024-03-06" {
		t.Errorf("default referenceDate = %v", body["referenceDate"])
	}

	rec = serve(t, http.MethodGet, "/todos/summary", h.Summary, httptest.NewRequest(http.MethodGet, "/todos/summary?local_date=yesterday", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad local_date status = %d, want 400", rec.Code)
	}
}

func TestTodoUpdateIsPartial(t *testing.T) {
	todos := &fakeTodos{todos: map[int]*models.Todo{
		3: {ID: 3, UserID: testUser, Title: "Write", Date: fixedDay},
		4: {ID: 4, UserID: testUser + 1, Title: "Other"},
	}}
	h := NewTodoHandler(todos, fixedClock)

	rec := serve(t, http.MethodPut, "/todos/{id}", h.Update, httptest.NewRequest(http.MethodPut, "/todos/3", strings.NewReader(`{"completed":true}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	todo := decode(t, rec)["todo"].(map[string]any)
	if todo["title"] != "Write" || todo["completed"] != true {
		t.Errorf("todo = %v", todo)
	}

	rec = serve(t, http.MethodPut, "/todos/{id}", h.Update, httptest.NewRequest(http.MethodPut, "/todos/4", strings.NewReader(`{"completed":true}`)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign todo status = %d, want 404", rec.Code)
	}
	rec = serve(t, http.MethodPut, "/todos/{id}", h.Update, httptest.NewRequest(http.MethodPut, "/todos/abc", strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}
}

type fakeContent struct {
	repository.ContentRepository
	quotes []models.Quote
	day    int
}

func (f *fakeContent) QuoteOfDay(_ context.Context, dayOfYear int) (*models.Quote, error) {
	f.day = dayOfYear
	if len(f.quotes) == 0 {
		return nil, repository.ErrNoQuotes
	}
	q := f.quotes[dayOfYear%len(f.quotes)]
	return &q, nil
}

func TestQuoteOfDay(t *testing.T) {
	content := &fakeContent{quotes: []models.Quote{{ID: 1, Quote: "a"}, {ID: 2, Quote: "b"}}}
	h := NewFeaturesHandler(content, nil, fixedClock)

	rec := serve(t, http.MethodGet, "/quote", h.QuoteOfDay, httptest.NewRequest(http.MethodGet, "/quote", nil))
	quote := decode(t, rec)["quote"].(map[string]any)
	// 2024-03-06 is day 66.
	if content.day != 66 || quote["quote"] != "a" {
		t.Errorf("day = %d, quote = %v", content.day, quote)
	}

	h = NewFeaturesHandler(&fakeContent{}, nil, fixedClock)
	rec = serve(t, http.MethodGet, "/quote", h.QuoteOfDay, httptest.NewRequest(http.MethodGet, "/quote", nil))
	quote = decode(t, rec)["quote"].(map[string]any)
	if rec.Code != http.StatusOK || quote["quote"] != fallbackQuote.Quote || quote["author"] != "Unknown" {
		t.Errorf("fallback = %d %v", rec.Code, quote)
	}
}

type fakeMedia struct {
	repository.MediaRepository
	rows map[int]*models.Media
}

func (f *fakeMedia) Create(_ context.Context, m *models.Media) error {
	m.ID = len(f.rows) + 1
	m.CreatedAt = fixedDay
	row := *m
	f.rows[m.ID] = &row
	return nil
}

func (f *fakeMedia) ByID(_ context.Context, userID, id int) (*models.Media, error) {
	m, ok := f.rows[id]
	if !ok || m.UserID != userID {
		return nil, repository.ErrMediaNotFound
	}
	return m, nil
}

func (f *fakeMedia) Delete(ctx context.Context, userID, id int) error {
	if _, err := f.ByID(ctx, userID, id); err != nil {
		return err
	}
	delete(f.rows, id)
	return nil
}

func multipartUpload(t *testing.T, contentType string, data []byte, entryID string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="Photo.PNG"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	if entryID != "" {
		mw.WriteField("entryId", entryID)
	}
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/media/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newMediaHandler(t *testing.T, maxBytes int64) (*MediaHandler, *fakeMedia, string) {
	t.Helper()
	dir := t.TempDir()
	blobs, err := storage.NewLocalStorage(dir, "/uploads")
	if err != nil {
		t.Fatal(err)
	}
	media := &fakeMedia{rows: map[int]*models.Media{}}
	entries := &fakeEntries{byID: map[int]*models.Entry{5: {ID: 5, UserID: testUser}}}
	return NewMediaHandler(media, entries, blobs, maxBytes), media, dir
}

func TestMediaUpload(t *testing.T) {
	h, media, dir := newMediaHandler(t, 1024)
	rec := serve(t, http.MethodPost, "/media/upload", h.Upload, multipartUpload(t, "image/png", []byte("pngdata"), "5"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	m := decode(t, rec)["media"].(map[string]any)
	if m["media_type"] != models.MediaImage || m["entry_id"] != float64(5) || m["file_size"] != float64(7) {
		t.Errorf("media = %v", m)
	}
	url, _ := m["url"].(string)
	if !strings.HasPrefix(url, "/uploads/7-") || !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q", url)
	}
	stored, err := os.ReadFile(filepath.Join(dir, media.rows[1].FilePath))
	if err != nil || string(stored) != "pngdata" {
		t.Errorf("stored blob = %q, %v", stored, err)
	}
}

func TestMediaUploadRejects(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int
		entryID     string
		status      int
	}{
		{"unsupported type", "application/pdf", 10, "", http.StatusBadRequest},
		{"too large", "image/jpeg", 2048, "", http.StatusRequestEntityTooLarge},
		{"foreign entry", "audio/webm", 10, "9", http.StatusNotFound},
		{"bad entry id", "audio/wav", 10, "x", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, media, _ := newMediaHandler(t, 1024)
			req := multipartUpload(t, tt.contentType, bytes.Repeat([]byte{1}, tt.size), tt.entryID)
			rec := serve(t, http.MethodPost, "/media/upload", h.Upload, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if len(media.rows) != 0 {
				t.Errorf("rows created on rejected upload: %v", media.rows)
			}
		})
	}
}

func TestMediaDeleteRemovesBlob(t *testing.T) {
	h, media, dir := newMediaHandler(t, 1024)
	serve(t, http.MethodPost, "/media/upload", h.Upload, multipartUpload(t, "audio/mpeg", []byte("mp3"), ""))
	key := media.rows[1].FilePath

	rec := serve(t, http.MethodDelete, "/media/{id}", h.Delete, httptest.NewRequest(http.MethodDelete, "/media/1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := os.Stat(filepath.Join(dir, key)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("blob still present: %v", err)
	}
	rec = serve(t, http.MethodDelete, "/media/{id}", h.Delete, httptest.NewRequest(http.MethodDelete, "/media/1", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

type fakeAdmin struct {
	day time.Time
}

func (f *fakeAdmin) Overview(_ context.Context, today time.Time) (repository.Overview, error) {
	f.day = today
	return repository.Overview{TotalUsers: 3, TotalEntries: 10, ActiveUsersThisWeek: 2}, nil
}

func TestAdminOverview(t *testing.T) {
	repo := &fakeAdmin{}
	h := NewAdminHandler(repo, fixedClock)
	rec := serve(t, http.MethodGet, "/admin/overview", h.Overview, httptest.NewRequest(http.MethodGet, "/admin/overview", nil))
	body := decode(t, rec)
	if body["totalUsers"] != float64(3) || body["activeUsersThisWeek"] != float64(2) {
		t.Errorf("body = %v", body)
	}
	if !repo.day.Equal(fixedDay) {
		t.Errorf("overview day = %v", repo.day)
	}
}

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(pinger{}).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if body := decode(t, rec); rec.Code != http.StatusOK || body["database"] != "connected" {
		t.Errorf("healthy = %d %v", rec.Code, body)
	}

	rec = httptest.NewRecorder()
	NewHealthHandler(pinger{err: errors.New("down")}).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy status = %d, want 503", rec.Code)
	}
}

func TestAnalyzeMoodFallsBackWithoutModel(t *testing.T) {
	h := NewAIHandler(services.NewAIService(nil, ai.NewGateway(nil, time.Second)), fixedClock)
	req := httptest.NewRequest(http.MethodPost, "/ai/analyze-mood", strings.NewReader(`{"content":"a quiet day"}`))
	rec := serve(t, http.MethodPost, "/ai/analyze-mood", h.AnalyzeMood, req)
	body := decode(t, rec)
	if rec.Code != http.StatusOK || body["mood"] != "Neutral" || body["confidence"] != ai.ConfidenceFallback {
		t.Errorf("analyze = %d %v", rec.Code, body)
	}

	req = httptest.NewRequest(http.MethodPost, "/ai/analyze-mood", strings.NewReader(`{}`))
	if rec := serve(t, http.MethodPost, "/ai/analyze-mood", h.AnalyzeMood, req); rec.Code != http.StatusBadRequest {
		t.Errorf("empty content status = %d, want 400", rec.Code)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	h := NewDataHandler(services.NewExportService(nil, nil), fixedClock)
	rec := serve(t, http.MethodGet, "/export/{format}", h.Export, httptest.NewRequest(http.MethodGet, "/export/pdf", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	rec = serve(t, http.MethodGet, "/export/{format}", h.Export, httptest.NewRequest(http.MethodGet, "/export/json?startDate=bad", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad startDate status = %d, want 400", rec.Code)
	}
}

func TestImportValidatesBody(t *testing.T) {
	h := NewDataHandler(services.NewExportService(nil, nil), fixedClock)
	for _, body := range []string{`{}`, `{"entries":[]}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/import", io.NopCloser(strings.NewReader(body)))
		rec := serve(t, http.MethodPost, "/import", h.MigrateData, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}
