// Package session holds the single process-wide mutable aggregate of all
// user-visible state for one run of the fitting room. All mutations are
// whole-field replacements behind one mutex, so a reader always sees a
// self-consistent snapshot.
package session

import (
	"sync"
	"time"

	"github.com/abjohnson5f/The-Mirror/internal/carts"
	"github.com/abjohnson5f/The-Mirror/internal/models"
	"github.com/google/uuid"
)

// Session is the in-memory aggregate. Lifetime is one run of the server
// process; there is no durability and no cross-session sharing.
type Session struct {
	mu sync.Mutex

	phase        models.Phase
	sourceImage  models.ImageData
	profile      *models.Profile
	avatarMedia  models.MediaRef
	activeRender models.MediaRef
	wardrobe     []models.CatalogItem
	ledger       *carts.Ledger
	mode         models.ConsultantMode
	dialogue     []models.ChatMessage
	lastError    string
	busy         bool
	busyLabel    string

	// epoch is bumped on every reset so completions dispatched before the
	// reset are discarded instead of mutating the fresh session.
	epoch uint64

	// renderGen is the monotonic try-on request generation; only the
	// latest generation's result may replace the active render.
	renderGen uint64
}

// New returns a session in the credential-check phase with the default
// carts and the style consultant selected.
func New() *Session {
	return &Session{
		phase:  models.PhaseCredentialCheck,
		ledger: carts.NewLedger(),
		mode:   models.ConsultantStyle,
	}
}

// Snapshot is a self-consistent copy of everything the UI renders.
type Snapshot struct {
	Phase          models.Phase          `json:"phase"`
	HasSourceImage bool                  `json:"has_source_image"`
	Profile        *models.Profile       `json:"profile,omitempty"`
	AvatarMedia    models.MediaRef       `json:"avatar_media,omitempty"`
	ActiveRender   models.MediaRef       `json:"active_render,omitempty"`
	Wardrobe       []models.CatalogItem  `json:"wardrobe"`
	Carts          []models.Cart         `json:"carts"`
	ConsultantMode models.ConsultantMode `json:"consultant_mode"`
	Dialogue       []models.ChatMessage  `json:"dialogue"`
	Busy           bool                  `json:"busy"`
	BusyLabel      string                `json:"busy_label,omitempty"`
	LastError      string                `json:"last_error,omitempty"`
}

// Snapshot copies the session under the lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	wardrobe := make([]models.CatalogItem, len(s.wardrobe))
	copy(wardrobe, s.wardrobe)
	dialogue := make([]models.ChatMessage, len(s.dialogue))
	copy(dialogue, s.dialogue)

	var profile *models.Profile
	if s.profile != nil {
		p := *s.profile
		profile = &p
	}

	return Snapshot{
		Phase:          s.phase,
		HasSourceImage: !s.sourceImage.Empty(),
		Profile:        profile,
		AvatarMedia:    s.avatarMedia,
		ActiveRender:   s.activeRender,
		Wardrobe:       wardrobe,
		Carts:          s.ledger.Carts(),
		ConsultantMode: s.mode,
		Dialogue:       dialogue,
		Busy:           s.busy,
		BusyLabel:      s.busyLabel,
		LastError:      s.lastError,
	}
}

func (s *Session) Phase() models.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) SetPhase(phase models.Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = phase
}

// BeginUpload stores the source image, clears any prior error, and moves
// the session into the initializing phase in one step.
func (s *Session) BeginUpload(image models.ImageData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sourceImage = image
	s.lastError = ""
	s.phase = models.PhaseInitializing
}

func (s *Session) SourceImage() models.ImageData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sourceImage
}

// SetProfile records the analysis result. The profile is immutable once
// set; later calls within the same epoch are ignored.
func (s *Session) SetProfile(profile models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile != nil {
		return
	}
	p := profile
	s.profile = &p
}

func (s *Session) Profile() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

func (s *Session) SetAvatarMedia(ref models.MediaRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.avatarMedia = ref
}

func (s *Session) SetActiveRender(ref models.MediaRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeRender = ref
}

// ReplaceWardrobe swaps the catalog wholesale.
func (s *Session) ReplaceWardrobe(items []models.CatalogItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wardrobe = items
}

// WardrobeItem finds a catalog item by identity.
func (s *Session) WardrobeItem(itemID string) (models.CatalogItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.wardrobe {
		if item.ID == itemID {
			return item, true
		}
	}
	return models.CatalogItem{}, false
}

func (s *Session) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}

func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
}

func (s *Session) SetBusy(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = true
	s.busyLabel = label
}

func (s *Session) ClearBusy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.busyLabel = ""
}

// Cart ledger operations, serialized by the session mutex.

func (s *Session) CreateCart(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.CreateCart(name)
}

func (s *Session) AddToCart(item models.CatalogItem, cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.AddToCart(item, cartID)
}

func (s *Session) RemoveFromCart(itemID, cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.RemoveFromCart(itemID, cartID)
}

func (s *Session) CartSubtotal(cartID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Subtotal(cartID)
}

func (s *Session) Carts() []models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Carts()
}

// Dialogue operations.

func (s *Session) ConsultantMode() models.ConsultantMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SeedDialogue switches the consultant mode and replaces the log with a
// single greeting message. Prior history is not preserved.
func (s *Session) SeedDialogue(mode models.ConsultantMode, greeting string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.dialogue = []models.ChatMessage{{
		ID:        uuid.NewString(),
		Role:      models.RoleAssistant,
		Text:      greeting,
		Timestamp: time.Now(),
	}}
}

// AppendMessage appends to the dialogue log and returns the log as it
// stood before the append, for use as chat history.
func (s *Session) AppendMessage(role models.ChatRole, text string) []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior := make([]models.ChatMessage, len(s.dialogue))
	copy(prior, s.dialogue)
	s.dialogue = append(s.dialogue, models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	})
	return prior
}

func (s *Session) Dialogue() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.dialogue))
	copy(out, s.dialogue)
	return out
}

// Epoch and render-generation discipline.

func (s *Session) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// NextRenderGeneration allocates the generation for a new try-on request
// along with the epoch it belongs to.
func (s *Session) NextRenderGeneration() (gen, epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderGen++
	return s.renderGen, s.epoch
}

// ApplyRender installs a completed render only if it is still the latest
// generation of the current epoch. It reports whether it was applied.
func (s *Session) ApplyRender(ref models.MediaRef, gen, epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch || gen != s.renderGen {
		return false
	}
	s.activeRender = ref
	return true
}

// Stale reports whether work dispatched at the given generation and
// epoch has been superseded.
func (s *Session) Stale(gen, epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return epoch != s.epoch || gen != s.renderGen
}

// Reset returns the session to the awaiting-upload phase, discarding the
// avatar, render, wardrobe, profile, source image, and dialogue — but not
// the carts, which carry purchase intent across resets. In-flight work
// from before the reset is orphaned by the epoch bump.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.phase = models.PhaseAwaitingUpload
	s.sourceImage = models.ImageData{}
	s.profile = nil
	s.avatarMedia = ""
	s.activeRender = ""
	s.wardrobe = nil
	s.dialogue = nil
	s.lastError = ""
	s.busy = false
	s.busyLabel = ""
}
