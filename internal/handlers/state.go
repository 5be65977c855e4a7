package handlers

import (
	"context"
	"net/http"
)

// HandleState returns the session snapshot the UI renders.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, h.orch.Snapshot())
}

// HandleCredential triggers the interactive credential selection.
func (h *Handler) HandleCredential(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.orch.SelectCredential(r.Context()); err != nil {
		h.writeError(w, "Credential selection failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	h.writeJSON(w, h.orch.Snapshot())
}

// HandleReset returns the session to awaiting-upload. Cart contents are
// preserved across resets.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.orch.Reset()
	h.writeJSON(w, h.orch.Snapshot())
}

// HandleDismissError clears the visible error banner.
func (h *Handler) HandleDismissError(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.orch.DismissError()
	h.writeJSON(w, h.orch.Snapshot())
}

// background returns the context for work that outlives the request.
func background() context.Context {
	return context.Background()
}
