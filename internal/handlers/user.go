package handlers

import (
	"errors"
	"net/http"

	"moodjournal/internal/repository"
)

type UserHandler struct {
	users repository.UserRepository
}

func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// GetMe returns the current user's profile
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.ByID(r.Context(), currentUser(r))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		serverError(w, r, "could not load profile", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": ToUserDTO(*u)})
}

type profileRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=255"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url,max=500"`
}

// UpdateMe updates provided fields on the current user's profile
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	userID := currentUser(r)
	if err := h.users.UpdateProfile(r.Context(), userID, repository.ProfileUpdate{Name: req.Name, AvatarURL: req.AvatarURL}); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		serverError(w, r, "could not update profile", err)
		return
	}
	h.GetMe(w, r)
}

type reminderRequest struct {
	Enabled bool    `json:"enabled"`
	Time    *string `json:"time" validate:"required_if=Enabled true,omitempty,datetime=15:04"`
}

func (h *UserHandler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.users.UpdateReminder(r.Context(), currentUser(r), req.Enabled, req.Time); err != nil {
		serverError(w, r, "could not update reminder", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"enabled": req.Enabled, "time": req.Time})
}

// DeleteAccount removes the user; entries, todos, media rows, badges and
// buddy links cascade.
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), currentUser(r)); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		serverError(w, r, "could not delete account", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}
