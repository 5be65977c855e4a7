package models

import "time"

// Phase is the orchestrator's current state-machine state.
type Phase string

const (
	PhaseCredentialCheck Phase = "credential_check"
	PhaseAwaitingUpload  Phase = "awaiting_upload"
	PhaseInitializing    Phase = "initializing"
	PhaseReady           Phase = "ready"
)

// StyleCategory is the closed set of wardrobe categories.
type StyleCategory string

const (
	CategoryWork   StyleCategory = "Professional & Work"
	CategoryDate   StyleCategory = "Date Night & Going Out"
	CategoryCasual StyleCategory = "Casual & Everyday"
)

// ParseStyleCategory maps free text from the curator onto the closed set.
// Unrecognized values fall back to Casual.
func ParseStyleCategory(s string) StyleCategory {
	switch StyleCategory(s) {
	case CategoryWork, CategoryDate, CategoryCasual:
		return StyleCategory(s)
	}
	return CategoryCasual
}

// Gender is a gender expression or affinity used to filter clothing.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderNeutral Gender = "neutral"
	GenderUnisex  Gender = "unisex"
)

// ConsultantMode selects which consultant persona answers the chat.
type ConsultantMode string

const (
	ConsultantStyle ConsultantMode = "style"
	ConsultantFit   ConsultantMode = "fit"
)

// DisplayName returns the persona title shown to the user.
func (m ConsultantMode) DisplayName() string {
	if m == ConsultantFit {
		return "Fit Specialist"
	}
	return "Style Consultant"
}

// ChatRole identifies the author of a dialogue message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ImageData is raw image bytes with a declared media type.
type ImageData struct {
	Data     []byte `json:"-"`
	MimeType string `json:"mime_type"`
}

// Empty reports whether no image bytes are present.
func (d ImageData) Empty() bool {
	return len(d.Data) == 0
}

// Profile is the styling profile derived from the uploaded photo.
// Immutable once set for the life of the session.
type Profile struct {
	Gender       Gender `json:"gender"`
	StyleProfile string `json:"style_profile"`
	FitNotes     string `json:"fit_notes"`
}

// DefaultProfile is substituted when profile analysis fails so the
// pipeline never blocks on that step.
func DefaultProfile() Profile {
	return Profile{
		Gender:       GenderNeutral,
		StyleProfile: "Contemporary",
		FitNotes:     "Standard",
	}
}

// CatalogItem is a describable, potentially purchasable garment, either
// AI-curated or derived from a user-supplied product link.
type CatalogItem struct {
	ID          string        `json:"id"`
	Brand       string        `json:"brand"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Category    StyleCategory `json:"category"`
	Gender      Gender        `json:"gender"`
	ImageURL    string        `json:"image_url"`
	PurchaseURL string        `json:"purchase_url"`

	// Optional embedded product image used for higher-fidelity try-on.
	ReferenceImage ImageData `json:"-"`
}

// Cart is a named, ordered collection of items. Duplicates by identity
// are permitted; insertion order is relevant.
type Cart struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Items []CatalogItem `json:"items"`
}

// ChatMessage is one entry in a consultant dialogue log.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      ChatRole  `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// MediaRef points at a generated render served from this process,
// e.g. "/static/uploads/avatar_abc123.mp4".
type MediaRef string
