package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/abjohnson5f/The-Mirror/internal/media"
	"github.com/abjohnson5f/The-Mirror/internal/orchestrator"
	"github.com/abjohnson5f/The-Mirror/internal/relay"
)

type Handler struct {
	orch    *orchestrator.Orchestrator
	fetcher *relay.Fetcher
	media   *media.Store
}

func New(orch *orchestrator.Orchestrator, fetcher *relay.Fetcher, store *media.Store) *Handler {
	return &Handler{
		orch:    orch,
		fetcher: fetcher,
		media:   store,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
