package handlers

import (
	"errors"
	"net/http"

	"moodjournal/internal/repository"
	"moodjournal/internal/services"
)

type BuddyHandler struct {
	svc   *services.BuddyService
	today Clock
}

func NewBuddyHandler(svc *services.BuddyService, today Clock) *BuddyHandler {
	return &BuddyHandler{svc: svc, today: today}
}

// List returns accepted buddies with their entry count this week. Entry
// contents are never shared.
func (h *BuddyHandler) List(w http.ResponseWriter, r *http.Request) {
	buddies, err := h.svc.Buddies(r.Context(), currentUser(r), h.today())
	if err != nil {
		serverError(w, r, "could not fetch buddies", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"buddies": buddies})
}

func (h *BuddyHandler) Requests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.svc.Requests(r.Context(), currentUser(r))
	if err != nil {
		serverError(w, r, "could not fetch buddy requests", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

type buddyRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *BuddyHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req buddyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	target, err := h.svc.Request(r.Context(), currentUser(r), req.Email)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Buddy request sent",
			"buddy":   map[string]string{"name": target.Name},
		})
	case errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, services.ErrSelfBuddy):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrBuddyExists):
		writeError(w, http.StatusConflict, err.Error())
	default:
		serverError(w, r, "could not send buddy request", err)
	}
}

func (h *BuddyHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "requestId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}
	h.respondRequest(w, r, h.svc.Accept(r.Context(), currentUser(r), id), "Buddy request accepted")
}

func (h *BuddyHandler) Decline(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "requestId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid request id")
		return
	}
	h.respondRequest(w, r, h.svc.Decline(r.Context(), currentUser(r), id), "Buddy request declined")
}

func (h *BuddyHandler) respondRequest(w http.ResponseWriter, r *http.Request, err error, ok string) {
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			writeError(w, http.StatusNotFound, "request not found")
			return
		}
		serverError(w, r, "could not update buddy request", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": ok})
}

func (h *BuddyHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "buddyId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid buddy id")
		return
	}
	if err := h.svc.Remove(r.Context(), currentUser(r), id); err != nil {
		serverError(w, r, "could not remove buddy", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Buddy removed"})
}
