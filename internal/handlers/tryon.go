package handlers

import (
	"log/slog"
	"net/http"
)

// HandleTryOn starts a try-on render for a curated wardrobe item. The
// render runs in the background; its outcome lands in the session.
func (h *Handler) HandleTryOn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		ItemID string `json:"item_id"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}
	if request.ItemID == "" {
		h.writeError(w, "item_id is required", http.StatusBadRequest)
		return
	}

	if _, ok := h.orch.Session().WardrobeItem(request.ItemID); !ok {
		h.writeError(w, "Unknown wardrobe item", http.StatusNotFound)
		return
	}

	go func() {
		if err := h.orch.TryOnWardrobeItem(background(), request.ItemID); err != nil {
			slog.Error("Try-on failed", "item_id", request.ItemID, "error", err)
		}
	}()

	h.writeJSON(w, map[string]any{"message": "Try-on started"})
}

// HandleLink resolves a product URL and tries the resulting item on.
func (h *Handler) HandleLink(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		URL string `json:"url"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}
	if request.URL == "" {
		h.writeError(w, "url is required", http.StatusBadRequest)
		return
	}

	go func() {
		if err := h.orch.ResolveProductLink(background(), request.URL); err != nil {
			slog.Error("Link resolution failed", "url", request.URL, "error", err)
		}
	}()

	h.writeJSON(w, map[string]any{"message": "Link analysis started"})
}
