package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"moodjournal/internal/models"
	"moodjournal/internal/repository"
	"moodjournal/internal/storage"
)

// allowedMedia maps accepted upload content types to their media kind.
var allowedMedia = map[string]string{
	"image/jpeg": models.MediaImage,
	"image/jpg":  models.MediaImage,
	"image/png":  models.MediaImage,
	"image/gif":  models.MediaImage,
	"image/webp": models.MediaImage,
	"audio/mpeg": models.MediaAudio,
	"audio/mp3":  models.MediaAudio,
	"audio/wav":  models.MediaAudio,
	"audio/webm": models.MediaAudio,
}

// multipartOverhead allows for form boundaries and the entryId field on top
// of the file itself.
const multipartOverhead = 64 << 10

type MediaHandler struct {
	media    repository.MediaRepository
	entries  repository.EntryRepository
	blobs    storage.Storage
	maxBytes int64
}

func NewMediaHandler(media repository.MediaRepository, entries repository.EntryRepository, blobs storage.Storage, maxBytes int64) *MediaHandler {
	return &MediaHandler{media: media, entries: entries, blobs: blobs, maxBytes: maxBytes}
}

func (h *MediaHandler) toDTO(r *http.Request, m models.Media) MediaDTO {
	return MediaDTO{
		ID:        m.ID,
		EntryID:   m.EntryID,
		MediaType: m.MediaType,
		FileName:  m.FileName,
		FileSize:  m.FileSize,
		URL:       h.blobs.URL(r.Context(), m.FilePath),
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

func mediaKind(contentType string) (string, bool) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	kind, ok := allowedMedia[ct]
	return kind, ok
}

// Upload godoc
// @Summary Upload an image or audio clip
// @Description Multipart field "file", optional "entryId" to attach it to an entry
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Router /media/upload [post]
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	contentType := header.Header.Get("Content-Type")
	kind, ok := mediaKind(contentType)
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported file type")
		return
	}

	userID := currentUser(r)
	var entryID *int
	if v := r.FormValue("entryId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid entry id")
			return
		}
		if _, err := h.entries.ByID(r.Context(), userID, id); err != nil {
			if errors.Is(err, repository.ErrEntryNotFound) {
				writeError(w, http.StatusNotFound, "entry not found")
				return
			}
			serverError(w, r, "could not upload file", err)
			return
		}
		entryID = &id
	}

	key := storage.ObjectKey(userID, header.Filename)
	if err := h.blobs.Save(r.Context(), key, file, contentType); err != nil {
		serverError(w, r, "could not upload file", err)
		return
	}
	m := models.Media{
		EntryID:   entryID,
		UserID:    userID,
		MediaType: kind,
		FilePath:  key,
		FileName:  header.Filename,
		FileSize:  header.Size,
	}
	if err := h.media.Create(r.Context(), &m); err != nil {
		if derr := h.blobs.Delete(r.Context(), key); derr != nil {
			slog.Warn("could not remove orphaned upload", "key", key, "error", derr)
		}
		serverError(w, r, "could not upload file", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "File uploaded successfully", "media": h.toDTO(r, m)})
}

func (h *MediaHandler) ByEntry(w http.ResponseWriter, r *http.Request) {
	entryID, ok := idParam(r, "entryId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}
	media, err := h.media.ByEntry(r.Context(), currentUser(r), entryID)
	if err != nil {
		serverError(w, r, "could not fetch media", err)
		return
	}
	out := make([]MediaDTO, len(media))
	for i, m := range media {
		out[i] = h.toDTO(r, m)
	}
	writeJSON(w, http.StatusOK, map[string]any{"media": out})
}

// Delete removes the row first; a blob left behind by a failed delete is
// only logged.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid media id")
		return
	}
	userID := currentUser(r)
	m, err := h.media.ByID(r.Context(), userID, id)
	if err == nil {
		err = h.media.Delete(r.Context(), userID, id)
	}
	if err != nil {
		if errors.Is(err, repository.ErrMediaNotFound) {
			writeError(w, http.StatusNotFound, "media not found")
			return
		}
		serverError(w, r, "could not delete media", err)
		return
	}
	if err := h.blobs.Delete(r.Context(), m.FilePath); err != nil {
		slog.Warn("could not delete media blob", "media_id", m.ID, "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Media deleted successfully"})
}
