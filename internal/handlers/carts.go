package handlers

import (
	"net/http"

	"github.com/abjohnson5f/The-Mirror/internal/carts"
)

// HandleCreateCart creates a new named cart. Blank names are rejected
// by the ledger as a no-op, so the response always reflects the truth.
func (h *Handler) HandleCreateCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Name string `json:"name"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}

	h.orch.Session().CreateCart(request.Name)
	h.writeJSON(w, map[string]any{"carts": h.orch.Session().Carts()})
}

// HandleAddToCart appends a wardrobe item to a cart. Duplicates are
// permitted.
func (h *Handler) HandleAddToCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		ItemID string `json:"item_id"`
		CartID string `json:"cart_id"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}

	item, ok := h.orch.Session().WardrobeItem(request.ItemID)
	if !ok {
		h.writeError(w, "Unknown wardrobe item", http.StatusNotFound)
		return
	}

	h.orch.Session().AddToCart(item, request.CartID)
	h.writeJSON(w, h.cartView(request.CartID))
}

// HandleRemoveFromCart removes the first matching item from a cart.
func (h *Handler) HandleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		ItemID string `json:"item_id"`
		CartID string `json:"cart_id"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}

	h.orch.Session().RemoveFromCart(request.ItemID, request.CartID)
	h.writeJSON(w, h.cartView(request.CartID))
}

func (h *Handler) cartView(cartID string) map[string]any {
	return map[string]any{
		"carts":    h.orch.Session().Carts(),
		"subtotal": carts.FormatSubtotal(h.orch.Session().CartSubtotal(cartID)),
	}
}
