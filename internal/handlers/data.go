package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"moodjournal/internal/services"
)

const maxImportBytes = 20 << 20

// DataHandler moves journal data in and out of the service.
type DataHandler struct {
	svc *services.ExportService
	now func() time.Time
}

func NewDataHandler(svc *services.ExportService, now func() time.Time) *DataHandler {
	return &DataHandler{svc: svc, now: now}
}

// Export godoc
// @Summary Download the journal
// @Description Renders every entry as markdown, json, text or html. Encrypted entries are masked unless includeEncrypted=true.
// @Tags export
// @Produce octet-stream
// @Security BearerAuth
// @Param format path string true "markdown|json|text|html"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string "No entries found"
// @Router /export/{format} [get]
func (h *DataHandler) Export(w http.ResponseWriter, r *http.Request) {
	var opts services.ExportOptions
	var err error
	if opts.From, err = dateQuery(r, "startDate"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if opts.To, err = dateQuery(r, "endDate"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts.IncludeEncrypted, _ = strconv.ParseBool(r.URL.Query().Get("includeEncrypted"))

	out, err := h.svc.Export(r.Context(), currentUser(r), chi.URLParam(r, "format"), opts, h.now())
	switch {
	case err == nil:
	case errors.Is(err, services.ErrUnknownFormat):
		writeError(w, http.StatusBadRequest, "format must be one of: markdown json text html")
		return
	case errors.Is(err, services.ErrNoEntries):
		writeError(w, http.StatusNotFound, "no entries found")
		return
	default:
		serverError(w, r, "could not export entries", err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, out.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Body)))
	w.WriteHeader(http.StatusOK)
	w.Write(out.Body)
}

type importRequest struct {
	Entries []services.BackupEntry `json:"entries" validate:"required,min=1,max=5000,dive"`
}

// MigrateData godoc
// @Summary Restore a JSON backup
// @Description Upserts entries by date in one transaction
// @Tags import
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /import [post]
func (h *DataHandler) MigrateData(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if !decodeBodyLimit(w, r, &req, maxImportBytes) {
		return
	}
	n, err := h.svc.Import(r.Context(), currentUser(r), req.Entries)
	if err != nil {
		if errors.Is(err, services.ErrInvalidBackup) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		serverError(w, r, "could not import entries", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Entries imported successfully", "imported": n})
}
