package carts

import (
	"fmt"
	"strings"

	"github.com/abjohnson5f/The-Mirror/internal/models"
	"github.com/google/uuid"
)

// Ledger is pure in-memory bookkeeping of named item collections. It is
// not safe for concurrent use on its own; the session aggregate guards it.
type Ledger struct {
	carts []models.Cart
}

// NewLedger returns a ledger seeded with the default carts that exist at
// session start.
func NewLedger() *Ledger {
	return &Ledger{
		carts: []models.Cart{
			{ID: uuid.NewString(), Name: "Fall Refresh", Items: []models.CatalogItem{}},
			{ID: uuid.NewString(), Name: "Client Meetings", Items: []models.CatalogItem{}},
		},
	}
}

// CreateCart appends a new empty cart. Blank or whitespace-only names
// are rejected as a no-op.
func (l *Ledger) CreateCart(name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	l.carts = append(l.carts, models.Cart{
		ID:    uuid.NewString(),
		Name:  name,
		Items: []models.CatalogItem{},
	})
}

// AddToCart appends item to the identified cart. Adding the same item
// twice yields two entries.
func (l *Ledger) AddToCart(item models.CatalogItem, cartID string) {
	for i := range l.carts {
		if l.carts[i].ID == cartID {
			l.carts[i].Items = append(l.carts[i].Items, item)
			return
		}
	}
}

// RemoveFromCart removes the first item in the cart whose identity
// matches itemID. No-op when nothing matches.
func (l *Ledger) RemoveFromCart(itemID, cartID string) {
	for i := range l.carts {
		if l.carts[i].ID != cartID {
			continue
		}
		for j, item := range l.carts[i].Items {
			if item.ID == itemID {
				l.carts[i].Items = append(l.carts[i].Items[:j], l.carts[i].Items[j+1:]...)
				return
			}
		}
		return
	}
}

// Subtotal sums the prices of the identified cart's items.
func (l *Ledger) Subtotal(cartID string) float64 {
	var total float64
	for _, cart := range l.carts {
		if cart.ID != cartID {
			continue
		}
		for _, item := range cart.Items {
			total += item.Price
		}
	}
	return total
}

// FormatSubtotal renders a subtotal with the two-decimal display rounding.
func FormatSubtotal(subtotal float64) string {
	return fmt.Sprintf("%.2f", subtotal)
}

// Carts returns a deep copy so callers never observe in-place edits.
func (l *Ledger) Carts() []models.Cart {
	out := make([]models.Cart, len(l.carts))
	for i, cart := range l.carts {
		items := make([]models.CatalogItem, len(cart.Items))
		copy(items, cart.Items)
		cart.Items = items
		out[i] = cart
	}
	return out
}
