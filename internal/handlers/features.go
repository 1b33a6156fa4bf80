package handlers

import (
	"errors"
	"net/http"

	"moodjournal/internal/analytics"
	"moodjournal/internal/models"
	"moodjournal/internal/repository"
	"moodjournal/internal/services"
)

var fallbackQuote = models.Quote{Quote: "Every day is a chance to begin again.", Author: strPtr("Unknown")}

func strPtr(s string) *string { return &s }

// FeaturesHandler serves the static writing aids and badges.
type FeaturesHandler struct {
	content repository.ContentRepository
	badges  *services.BadgeService
	today   Clock
}

func NewFeaturesHandler(content repository.ContentRepository, badges *services.BadgeService, today Clock) *FeaturesHandler {
	return &FeaturesHandler{content: content, badges: badges, today: today}
}

func (h *FeaturesHandler) Templates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.content.Templates(r.Context())
	if err != nil {
		serverError(w, r, "could not fetch templates", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": templates})
}

func (h *FeaturesHandler) Template(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid template id")
		return
	}
	t, err := h.content.TemplateByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			writeError(w, http.StatusNotFound, "template not found")
			return
		}
		serverError(w, r, "could not fetch template", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"template": t})
}

// QuoteOfDay rotates through the quotes by day of year.
func (h *FeaturesHandler) QuoteOfDay(w http.ResponseWriter, r *http.Request) {
	q, err := h.content.QuoteOfDay(r.Context(), h.today().YearDay())
	if err != nil {
		if errors.Is(err, repository.ErrNoQuotes) {
			writeJSON(w, http.StatusOK, map[string]any{"quote": fallbackQuote})
			return
		}
		serverError(w, r, "could not fetch quote", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quote": q})
}

func (h *FeaturesHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.content.Quotes(r.Context())
	if err != nil {
		serverError(w, r, "could not fetch quotes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quotes": quotes})
}

func (h *FeaturesHandler) Badges(w http.ResponseWriter, r *http.Request) {
	earned, available, err := h.badges.Badges(r.Context(), currentUser(r))
	if err != nil {
		serverError(w, r, "could not fetch badges", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"badges": earned, "availableBadges": available})
}

func (h *FeaturesHandler) BadgeDefinitions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"definitions": analytics.BadgeDefinitions()})
}

// CheckBadges godoc
// @Summary Evaluate and award badges
// @Description Awards every newly qualifying badge and returns only those
// @Tags features
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router /features/badges/check [post]
func (h *FeaturesHandler) CheckBadges(w http.ResponseWriter, r *http.Request) {
	awarded, err := h.badges.Check(r.Context(), currentUser(r))
	if err != nil {
		serverError(w, r, "could not check badges", err)
		return
	}
	msg := "No new badges"
	if len(awarded) > 0 {
		msg = "New badges earned!"
	}
	writeJSON(w, http.StatusOK, map[string]any{"newBadges": awarded, "message": msg})
}
