package handlers

import (
	"net/http"

	"github.com/abjohnson5f/The-Mirror/internal/models"
)

// HandleChat runs one consultant exchange and returns the updated
// dialogue. Chat failures never surface here; they are absorbed into
// the conversation as an apology message.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Text string `json:"text"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}
	if request.Text == "" {
		h.writeError(w, "text is required", http.StatusBadRequest)
		return
	}

	h.orch.SendChat(r.Context(), request.Text)
	h.writeJSON(w, map[string]any{"dialogue": h.orch.Session().Dialogue()})
}

// HandleChatMode switches the consultant persona, re-seeding the
// dialogue with a single greeting.
func (h *Handler) HandleChatMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Mode string `json:"mode"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}

	mode := models.ConsultantMode(request.Mode)
	if mode != models.ConsultantStyle && mode != models.ConsultantFit {
		h.writeError(w, "Invalid mode. Must be 'style' or 'fit'", http.StatusBadRequest)
		return
	}

	h.orch.SwitchConsultant(mode)
	h.writeJSON(w, map[string]any{"dialogue": h.orch.Session().Dialogue()})
}
