package handlers

import (
	"net/http"

	"moodjournal/internal/ai"
	"moodjournal/internal/services"
)

// AIHandler always answers 200; the gateway substitutes localized content
// when the model is unavailable.
type AIHandler struct {
	svc   *services.AIService
	today Clock
}

func NewAIHandler(svc *services.AIService, today Clock) *AIHandler {
	return &AIHandler{svc: svc, today: today}
}

type analyzeMoodRequest struct {
	Title   string `json:"title" validate:"max=255"`
	Content string `json:"content" validate:"required,max=50000"`
}

// AnalyzeMood godoc
// @Summary Suggest a mood for a draft
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ai.MoodResult
// @Failure 400 {object} map[string]string
// @Router /ai/analyze-mood [post]
func (h *AIHandler) AnalyzeMood(w http.ResponseWriter, r *http.Request) {
	var req analyzeMoodRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.AnalyzeMood(r.Context(), req.Title, req.Content))
}

func language(r *http.Request) ai.Language {
	return ai.ParseLanguage(r.URL.Query().Get("language"))
}

func (h *AIHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	prompts, err := h.svc.Suggestions(r.Context(), currentUser(r), language(r), h.today())
	if err != nil {
		serverError(w, r, "could not load writing prompts", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"prompts": prompts})
}

// WeeklySummary covers the seven days ending today.
func (h *AIHandler) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.WeeklySummary(r.Context(), currentUser(r), language(r), h.today())
	if err != nil {
		serverError(w, r, "could not build weekly summary", err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *AIHandler) Insights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.svc.Insights(r.Context(), currentUser(r), language(r))
	if err != nil {
		serverError(w, r, "could not load insights", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"insights": insights})
}
