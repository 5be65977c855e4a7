package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/abjohnson5f/The-Mirror/internal/models"
)

const maxUploadBytes = 10 * 1024 * 1024

// HandleUpload accepts the user photo and starts the initialization
// pipeline in the background; the UI polls /api/state for progress.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	fileData, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(fileData) >= maxUploadBytes {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return
	}
	if len(fileData) == 0 {
		h.writeError(w, "Empty file", http.StatusBadRequest)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(fileData)
	}

	if phase := h.orch.Snapshot().Phase; phase != models.PhaseAwaitingUpload {
		h.writeError(w, "Upload not allowed in phase "+string(phase), http.StatusConflict)
		return
	}

	image := models.ImageData{Data: fileData, MimeType: mimeType}

	go func() {
		if err := h.orch.Upload(background(), image); err != nil {
			slog.Error("Upload pipeline failed", "error", err)
		}
	}()

	h.writeJSON(w, map[string]any{
		"message": "Upload accepted",
		"bytes":   len(fileData),
	})
}
