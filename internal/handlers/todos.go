package handlers

import (
	"errors"
	"net/http"
	"strings"

	"moodjournal/internal/models"
	"moodjournal/internal/repository"
)

type TodoHandler struct {
	todos repository.TodoRepository
	today Clock
}

func NewTodoHandler(todos repository.TodoRepository, today Clock) *TodoHandler {
	return &TodoHandler{todos: todos, today: today}
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	date, err := dateQuery(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	todos, err := h.todos.List(r.Context(), currentUser(r), date)
	if err != nil {
		serverError(w, r, "could not fetch todos", err)
		return
	}
	out := make([]TodoDTO, len(todos))
	for i, t := range todos {
		out[i] = ToTodoDTO(t)
	}
	writeJSON(w, http.StatusOK, map[string]any{"todos": out})
}

type createTodoRequest struct {
	Title     string `json:"title" validate:"required,max=255"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Completed bool   `json:"completed"`
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if !decodeBody(w, r, &req) {
		return
	}
	date, _ := parseDate(req.Date)
	t := models.Todo{UserID: currentUser(r), Title: strings.TrimSpace(req.Title), Date: date, Completed: req.Completed}
	if err := h.todos.Create(r.Context(), &t); err != nil {
		serverError(w, r, "could not create todo", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"todo": ToTodoDTO(t)})
}

type updateTodoRequest struct {
	Title     *string `json:"title" validate:"omitempty,min=1,max=255"`
	Completed *bool   `json:"completed"`
	Date      *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// Update applies a partial change; omitted fields keep their value.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid todo id")
		return
	}
	var req updateTodoRequest
	if !decodeBody(w, r, &req) {
		return
	}
	patch := repository.TodoPatch{Title: req.Title, Completed: req.Completed}
	if req.Date != nil {
		d, _ := parseDate(*req.Date)
		patch.Date = &d
	}
	t, err := h.todos.Update(r.Context(), currentUser(r), id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			writeError(w, http.StatusNotFound, "todo not found")
			return
		}
		serverError(w, r, "could not update todo", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"todo": ToTodoDTO(*t)})
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid todo id")
		return
	}
	if err := h.todos.Delete(r.Context(), currentUser(r), id); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			writeError(w, http.StatusNotFound, "todo not found")
			return
		}
		serverError(w, r, "could not delete todo", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Todo deleted successfully"})
}

// Summary counts todos for today, this week (from Sunday) and this month.
// Accepts optional query param: local_date=YYYY-MM-DD to use as the user's "today".
func (h *TodoHandler) Summary(w http.ResponseWriter, r *http.Request) {
	today, err := h.today.referenceDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sum, err := h.todos.Summary(r.Context(), currentUser(r), today)
	if err != nil {
		serverError(w, r, "could not fetch todo summary", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		repository.TodoSummary
		ReferenceDate string `json:"referenceDate"`
	}{sum, formatDate(today)})
}
