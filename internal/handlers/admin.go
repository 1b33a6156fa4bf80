package handlers

import (
	"net/http"

	"moodjournal/internal/repository"
)

// AdminHandler is mounted behind RequireAdmin.
type AdminHandler struct {
	repo  repository.AdminRepository
	today Clock
}

func NewAdminHandler(repo repository.AdminRepository, today Clock) *AdminHandler {
	return &AdminHandler{repo: repo, today: today}
}

// Overview godoc
// @Summary Get admin overview
// @Description Returns administrative statistics and metrics (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} repository.Overview
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/overview [get]
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.Overview(r.Context(), h.today())
	if err != nil {
		serverError(w, r, "could not load overview", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
