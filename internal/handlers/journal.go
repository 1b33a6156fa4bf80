package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"moodjournal/internal/analytics"
	"moodjournal/internal/models"
	"moodjournal/internal/repository"
	"moodjournal/internal/services"
	"moodjournal/internal/storage"
)

type JournalHandler struct {
	entries   repository.EntryRepository
	media     repository.MediaRepository
	blobs     storage.Storage
	analytics *services.AnalyticsService
	secrets   *services.EncryptionService
}

func NewJournalHandler(entries repository.EntryRepository, media repository.MediaRepository, blobs storage.Storage,
	analytics *services.AnalyticsService, secrets *services.EncryptionService) *JournalHandler {
	return &JournalHandler{entries: entries, media: media, blobs: blobs, analytics: analytics, secrets: secrets}
}

type entryRequest struct {
	Title          string   `json:"title" validate:"required,max=255"`
	Content        string   `json:"content" validate:"required"`
	Date           string   `json:"date" validate:"required,datetime=2006-01-02"`
	Mood           *string  `json:"mood" validate:"omitempty,max=50"`
	Tags           []string `json:"tags" validate:"max=50,dive,max=50"`
	IsEncrypted    bool     `json:"isEncrypted"`
	EncryptionHint *string  `json:"encryptionHint" validate:"omitempty,max=255"`
	WordCount      *int     `json:"wordCount" validate:"omitempty,min=0"`
}

// toEntry builds the row from a validated request. Word counts of plaintext
// are computed here; encrypted entries keep the client's count.
func (req entryRequest) toEntry(userID int) (models.Entry, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return models.Entry{}, err
	}
	e := models.Entry{
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		Date:        date,
		Tags:        models.NewStringSet(req.Tags...),
		IsEncrypted: req.IsEncrypted,
	}
	if req.Mood != nil {
		if m := strings.TrimSpace(*req.Mood); m != "" {
			e.Mood = &m
		}
	}
	if e.IsEncrypted {
		e.EncryptionHint = req.EncryptionHint
		if req.WordCount != nil {
			e.WordCount = *req.WordCount
		}
	} else {
		e.WordCount = analytics.CountWords(e.Content)
	}
	return e, nil
}

func (h *JournalHandler) bindEntry(w http.ResponseWriter, r *http.Request) (models.Entry, bool) {
	var req entryRequest
	if !decodeBody(w, r, &req) {
		return models.Entry{}, false
	}
	e, err := req.toEntry(currentUser(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return models.Entry{}, false
	}
	if err := h.secrets.ValidateEntry(&e); err != nil {
		writeError(w, http.StatusBadRequest, "encrypted content is malformed")
		return models.Entry{}, false
	}
	return e, true
}

// Create godoc
// @Summary Create the journal entry for a date
// @Tags journal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Entry for this date already exists"
// @Router /journal [post]
func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	e, ok := h.bindEntry(w, r)
	if !ok {
		return
	}
	if err := h.entries.Create(r.Context(), &e); err != nil {
		if errors.Is(err, repository.ErrDuplicateDate) {
			writeError(w, http.StatusConflict, "entry for this date already exists")
			return
		}
		serverError(w, r, "could not create entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Entry created successfully", "entry": ToEntryDTO(e)})
}

// List returns a filtered, paginated listing, newest first.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.EntryFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Mood:   q.Get("mood"),
		Page:   intQuery(r, "page", 1),
		Limit:  intQuery(r, "limit", repository.DefaultPageSize),
	}
	if tags := q.Get("tags"); tags != "" {
		f.Tags = models.NewStringSet(strings.Split(tags, ",")...)
	}
	var err error
	if f.From, err = dateQuery(r, "startDate"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if f.To, err = dateQuery(r, "endDate"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if f.Limit > repository.MaxPageSize {
		f.Limit = repository.MaxPageSize
	}

	entries, total, err := h.entries.List(r.Context(), currentUser(r), f)
	if err != nil {
		serverError(w, r, "could not fetch entries", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": toEntryDTOs(entries),
		"total":   total,
		"page":    f.Page,
		"limit":   f.Limit,
	})
}

type entryDate struct {
	Date string  `json:"date"`
	Mood *string `json:"mood"`
}

// Dates lists entry dates of one month for the calendar view.
func (h *JournalHandler) Dates(w http.ResponseWriter, r *http.Request) {
	year, errY := strconv.Atoi(r.URL.Query().Get("year"))
	month, errM := strconv.Atoi(r.URL.Query().Get("month"))
	if errY != nil || errM != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "year and month are required")
		return
	}
	rows, err := h.entries.Dates(r.Context(), currentUser(r), year, month)
	if err != nil {
		serverError(w, r, "could not fetch dates", err)
		return
	}
	dates := make([]entryDate, len(rows))
	for i, d := range rows {
		dates[i] = entryDate{Date: formatDate(d.Date), Mood: d.Mood}
	}
	writeJSON(w, http.StatusOK, map[string]any{"dates": dates})
}

func (h *JournalHandler) MoodStats(w http.ResponseWriter, r *http.Request) {
	from, err := dateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := dateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	stats, err := h.analytics.MoodDistribution(r.Context(), currentUser(r), from, to)
	if err != nil {
		serverError(w, r, "could not fetch mood statistics", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"moodStats": stats})
}

func (h *JournalHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}
	h.respondEntry(w, r, func() (*models.Entry, error) {
		return h.entries.ByDate(r.Context(), currentUser(r), date)
	})
}

func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}
	h.respondEntry(w, r, func() (*models.Entry, error) {
		return h.entries.ByID(r.Context(), currentUser(r), id)
	})
}

func (h *JournalHandler) respondEntry(w http.ResponseWriter, r *http.Request, load func() (*models.Entry, error)) {
	e, err := load()
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		serverError(w, r, "could not fetch entry", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entry": ToEntryDTO(*e)})
}

func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}
	e, ok := h.bindEntry(w, r)
	if !ok {
		return
	}
	e.ID = id
	if err := h.entries.Update(r.Context(), &e); err != nil {
		switch {
		case errors.Is(err, repository.ErrEntryNotFound):
			writeError(w, http.StatusNotFound, "entry not found")
		case errors.Is(err, repository.ErrDuplicateDate):
			writeError(w, http.StatusConflict, "entry for this date already exists")
		default:
			serverError(w, r, "could not update entry", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Entry updated successfully", "entry": ToEntryDTO(e)})
}

// Delete removes the entry; its media rows cascade and their blobs are
// removed afterwards.
func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}
	userID := currentUser(r)
	attached, err := h.media.ByEntry(r.Context(), userID, id)
	if err != nil {
		serverError(w, r, "could not delete entry", err)
		return
	}
	if err := h.entries.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			writeError(w, http.StatusNotFound, "entry not found")
			return
		}
		serverError(w, r, "could not delete entry", err)
		return
	}
	for _, m := range attached {
		if err := h.blobs.Delete(r.Context(), m.FilePath); err != nil {
			slog.Warn("could not delete media blob", "media_id", m.ID, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Entry deleted successfully"})
}
