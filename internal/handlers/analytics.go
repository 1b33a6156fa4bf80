package handlers

import (
	"net/http"

	"moodjournal/internal/analytics"
	"moodjournal/internal/services"
)

const defaultWordCloudLimit = 50

type AnalyticsHandler struct {
	svc   *services.AnalyticsService
	today Clock
}

func NewAnalyticsHandler(svc *services.AnalyticsService, today Clock) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, today: today}
}

type streakResponse struct {
	CurrentStreak int     `json:"currentStreak"`
	LongestStreak int     `json:"longestStreak"`
	TotalEntries  int     `json:"totalEntries"`
	LastEntryDate *string `json:"lastEntryDate"`
}

// Streak godoc
// @Summary Current and longest writing streak
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param local_date query string false "Reference date (YYYY-MM-DD)"
// @Success 200 {object} streakResponse
// @Router /analytics/streak [get]
func (h *AnalyticsHandler) Streak(w http.ResponseWriter, r *http.Request) {
	today, err := h.today.referenceDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s, err := h.svc.Streak(r.Context(), currentUser(r), today)
	if err != nil {
		serverError(w, r, "could not compute streak", err)
		return
	}
	resp := streakResponse{CurrentStreak: s.Current, LongestStreak: s.Longest, TotalEntries: s.Total}
	if s.LastEntry != nil {
		d := formatDate(*s.LastEntry)
		resp.LastEntryDate = &d
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AnalyticsHandler) WordCloud(w http.ResponseWriter, r *http.Request) {
	words, err := h.svc.WordCloud(r.Context(), currentUser(r), intQuery(r, "limit", defaultWordCloudLimit))
	if err != nil {
		serverError(w, r, "could not build word cloud", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"words": words})
}

func (h *AnalyticsHandler) WritingFrequency(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.WritingFrequency(r.Context(), currentUser(r))
	if err != nil {
		serverError(w, r, "could not compute writing frequency", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"frequency":       f.Days,
		"mostActiveDay":   f.MostActiveName(),
		"mostActiveDayTr": f.MostActiveNameTr(),
	})
}

func (h *AnalyticsHandler) MoodTrends(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "month"
	}
	if period != "week" && period != "month" && period != "year" {
		writeError(w, http.StatusBadRequest, "period must be one of: week month year")
		return
	}
	today, err := h.today.referenceDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	trends, err := h.svc.MoodTrends(r.Context(), currentUser(r), period, today)
	if err != nil {
		serverError(w, r, "could not compute mood trends", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trends": trends, "moodScores": analytics.MoodScores})
}

type dailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type summaryResponse struct {
	TotalEntries     int          `json:"totalEntries"`
	AvgWordsPerEntry int          `json:"avgWordsPerEntry"`
	EntriesThisMonth int          `json:"entriesThisMonth"`
	EntriesThisWeek  int          `json:"entriesThisWeek"`
	HasTodayEntry    bool         `json:"hasTodayEntry"`
	Last7Days        []dailyCount `json:"last7Days"`
}

// Summary aggregates the dashboard counters.
// Accepts optional query param: local_date=YYYY-MM-DD to use as the user's "today".
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	today, err := h.today.referenceDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s, err := h.svc.Summary(r.Context(), currentUser(r), today)
	if err != nil {
		serverError(w, r, "could not fetch summary", err)
		return
	}
	resp := summaryResponse{
		TotalEntries:     s.TotalEntries,
		AvgWordsPerEntry: s.AvgWordsPerEntry,
		EntriesThisMonth: s.EntriesThisMonth,
		EntriesThisWeek:  s.EntriesThisWeek,
		HasTodayEntry:    s.HasTodayEntry,
		Last7Days:        make([]dailyCount, len(s.Last7Days)),
	}
	for i, d := range s.Last7Days {
		resp.Last7Days[i] = dailyCount{Date: formatDate(d.Date), Count: d.Count}
	}
	writeJSON(w, http.StatusOK, resp)
}
