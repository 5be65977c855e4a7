package handlers

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
)

// HandleRelayImage fetches an external image server-side and returns its
// bytes as {base64, mimeType}, so the browser can read product images
// that cross-origin policy would otherwise block. Failures return
// {error} with a non-200 status.
func (h *Handler) HandleRelayImage(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		h.writeRelayError(w, "Missing or invalid URL provided.", http.StatusBadRequest)
		return
	}

	image, err := h.fetcher.Fetch(url)
	if err != nil {
		slog.Error("Relay image fetch failed", "url", url, "error", err)
		h.writeRelayError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]string{
		"base64":   base64.StdEncoding.EncodeToString(image.Data),
		"mimeType": image.MimeType,
	})
}

func (h *Handler) writeRelayError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		slog.Error("Unable to encode relay error", "err", err)
	}
}

// HandleMedia serves generated avatar videos and try-on renders from
// the media store directory.
func (h *Handler) HandleMedia(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/static/uploads/")

	// Prevent directory traversal attacks
	if name == "" || strings.Contains(name, "..") || strings.ContainsRune(name, '/') {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	http.ServeFile(w, r, filepath.Join(h.media.Dir(), name))
}
