// Package orchestrator sequences the external generative services and
// owns every mutation of the session aggregate. Failures degrade
// per-feature; the pipeline never strands the user on a spinner.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/abjohnson5f/The-Mirror/internal/consultant"
	"github.com/abjohnson5f/The-Mirror/internal/models"
	"github.com/abjohnson5f/The-Mirror/internal/providers"
	"github.com/abjohnson5f/The-Mirror/internal/session"
	"github.com/abjohnson5f/The-Mirror/internal/wardrobe"
	"github.com/google/uuid"
)

// ImageFetcher retrieves product-image bytes for the link resolver.
type ImageFetcher interface {
	Fetch(url string) (models.ImageData, error)
}

// Config wires the orchestrator's collaborators.
type Config struct {
	Probe       providers.CredentialProbe
	Analyzer    providers.ProfileAnalyzer
	Curator     providers.WardrobeCurator
	Synthesizer providers.AvatarSynthesizer
	Renderer    providers.TryOnRenderer
	Describer   providers.LinkDescriber
	Chat        providers.StylistChat
	Fetcher     ImageFetcher
}

// Orchestrator is the top-level state machine over one session.
type Orchestrator struct {
	session *session.Session

	probe       providers.CredentialProbe
	analyzer    providers.ProfileAnalyzer
	curator     providers.WardrobeCurator
	synthesizer providers.AvatarSynthesizer
	renderer    providers.TryOnRenderer
	describer   providers.LinkDescriber
	chat        providers.StylistChat
	fetcher     ImageFetcher
}

// New creates an orchestrator with a fresh session, its dialogue seeded
// with the style consultant's generic greeting.
func New(cfg Config) *Orchestrator {
	o := &Orchestrator{
		session:     session.New(),
		probe:       cfg.Probe,
		analyzer:    cfg.Analyzer,
		curator:     cfg.Curator,
		synthesizer: cfg.Synthesizer,
		renderer:    cfg.Renderer,
		describer:   cfg.Describer,
		chat:        cfg.Chat,
		fetcher:     cfg.Fetcher,
	}
	o.session.SeedDialogue(models.ConsultantStyle, consultant.Greeting(models.ConsultantStyle, nil))
	return o
}

// Session exposes the aggregate for snapshot rendering.
func (o *Orchestrator) Session() *session.Session {
	return o.session
}

// Snapshot returns a self-consistent copy of the visible state.
func (o *Orchestrator) Snapshot() session.Snapshot {
	return o.session.Snapshot()
}

// Start probes for a usable credential. On success the session moves to
// awaiting-upload; otherwise it stays in the credential check, where the
// only affordance is SelectCredential.
func (o *Orchestrator) Start(ctx context.Context) {
	ok, err := o.probe.HasCredential(ctx)
	if err != nil {
		slog.Error("Credential probe failed", "error", err)
		return
	}
	if ok {
		o.session.SetPhase(models.PhaseAwaitingUpload)
	}
}

// SelectCredential runs the interactive credential selection and, on
// success, unblocks the upload phase.
func (o *Orchestrator) SelectCredential(ctx context.Context) error {
	if err := o.probe.SelectCredential(ctx); err != nil {
		o.session.SetError("Failed to select API key. Please try again.")
		return err
	}
	o.session.SetPhase(models.PhaseAwaitingUpload)
	return nil
}

// Upload stores the source image and runs the initialization pipeline to
// completion. It always leaves the session in the ready phase unless a
// reset supersedes it mid-flight.
func (o *Orchestrator) Upload(ctx context.Context, image models.ImageData) error {
	if image.Empty() {
		return fmt.Errorf("no image data provided")
	}
	if phase := o.session.Phase(); phase != models.PhaseAwaitingUpload {
		return fmt.Errorf("upload not allowed in phase %s", phase)
	}

	o.session.BeginUpload(image)
	epoch := o.session.Epoch()
	o.session.SetBusy("Analyzing your style & creating 360° avatar...")
	defer func() {
		// A reset mid-pipeline owns the busy flag from then on.
		if !o.superseded(epoch) {
			o.session.ClearBusy()
		}
	}()

	o.initialize(ctx, image, epoch)
	return nil
}

// initialize is the fixed pipeline: analyze (failure swallowed, default
// substituted), then avatar synthesis and wardrobe curation settled
// together, then ready regardless of outcomes.
func (o *Orchestrator) initialize(ctx context.Context, image models.ImageData, epoch uint64) {
	profile, err := o.analyzer.AnalyzeProfile(ctx, image)
	if err != nil {
		slog.Warn("Profile analysis failed, using default", "error", err)
		profile = models.DefaultProfile()
	}

	if o.superseded(epoch) {
		return
	}
	o.session.SetProfile(profile)
	mode := o.session.ConsultantMode()
	o.session.SeedDialogue(mode, consultant.Greeting(mode, &profile))

	// Settle-all join: both branches are awaited to completion
	// independently; neither failure cancels the other.
	var wg sync.WaitGroup
	var avatarRef models.MediaRef
	var avatarErr error
	var items []models.CatalogItem
	var wardrobeErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		avatarRef, avatarErr = o.synthesizer.SynthesizeAvatar(ctx, image)
	}()
	go func() {
		defer wg.Done()
		items, wardrobeErr = o.curator.CurateWardrobe(ctx, profile)
	}()
	wg.Wait()

	if o.superseded(epoch) {
		return
	}

	if wardrobeErr != nil {
		// Absorbed: the UI shows a "no recommendations" affordance.
		slog.Warn("Wardrobe curation failed", "error", wardrobeErr)
	} else {
		o.session.ReplaceWardrobe(items)
	}

	if avatarErr != nil {
		slog.Error("Avatar synthesis failed", "error", avatarErr)
		o.session.SetError(fmt.Sprintf("Video generation unavailable (%s). Switching to static mode.", avatarErr))
	} else {
		o.session.SetAvatarMedia(avatarRef)
	}

	o.session.SetPhase(models.PhaseReady)
}

// superseded reports whether a reset happened since the work was
// dispatched; superseded work stops listening without touching state.
func (o *Orchestrator) superseded(epoch uint64) bool {
	if o.session.Epoch() != epoch {
		slog.Info("Discarding superseded pipeline result")
		return true
	}
	return false
}

// RequestTryOn renders the user wearing the item and, if this request is
// still the latest, installs the result as the focal render. A no-op
// when no source image exists.
func (o *Orchestrator) RequestTryOn(ctx context.Context, item models.CatalogItem) error {
	image := o.session.SourceImage()
	if image.Empty() {
		return nil
	}

	gen, epoch := o.session.NextRenderGeneration()
	o.session.SetBusy(fmt.Sprintf("Trying on %s %s...", item.Brand, item.Name))

	req := providers.TryOnRequest{
		Subject:     image,
		Description: fmt.Sprintf("%s %s, %s", item.Brand, item.Name, item.Description),
		Reference:   item.ReferenceImage,
	}

	ref, err := o.renderer.RenderTryOn(ctx, req)
	if err != nil {
		if o.session.Stale(gen, epoch) {
			slog.Info("Discarding superseded try-on failure", "generation", gen)
			return nil
		}
		slog.Error("Try-on render failed", "item", item.Name, "error", err)
		o.session.SetError("Failed to try on item. Please try again.")
		o.session.ClearBusy()
		return err
	}

	if !o.session.ApplyRender(ref, gen, epoch) {
		slog.Info("Discarding superseded try-on render", "generation", gen)
		return nil
	}
	o.session.ClearBusy()
	return nil
}

// TryOnWardrobeItem looks up a curated item by identity and tries it on.
func (o *Orchestrator) TryOnWardrobeItem(ctx context.Context, itemID string) error {
	item, ok := o.session.WardrobeItem(itemID)
	if !ok {
		return fmt.Errorf("unknown wardrobe item %q", itemID)
	}
	return o.RequestTryOn(ctx, item)
}

// ResolveProductLink turns a product URL into a catalog item and always
// culminates in a try-on attempt. Only the description step is fatal;
// the image fetch is best-effort.
func (o *Orchestrator) ResolveProductLink(ctx context.Context, productURL string) error {
	desc, err := o.describer.DescribeProduct(ctx, productURL)
	if err != nil {
		slog.Error("Link description failed", "url", productURL, "error", err)
		o.session.SetError("Could not analyze this link. Try another.")
		return err
	}

	var reference models.ImageData
	if desc.ImageURL != "" {
		reference, err = o.fetcher.Fetch(desc.ImageURL)
		if err != nil {
			slog.Warn("Product image fetch failed, falling back to text description", "url", desc.ImageURL, "error", err)
			reference = models.ImageData{}
		}
	}

	gender := models.GenderUnisex
	if profile := o.session.Profile(); profile != nil {
		gender = profile.Gender
	}

	imageURL := desc.ImageURL
	if imageURL == "" {
		imageURL = wardrobe.DefaultImageURL()
	}

	item := models.CatalogItem{
		ID:             "custom-" + uuid.NewString(),
		Brand:          "Custom Link",
		Name:           desc.Name,
		Description:    desc.Description,
		Price:          0,
		Category:       models.CategoryCasual,
		Gender:         gender,
		ImageURL:       imageURL,
		PurchaseURL:    productURL,
		ReferenceImage: reference,
	}

	return o.RequestTryOn(ctx, item)
}

// SendChat runs one consultant exchange. External chat failures are
// absorbed into the conversation as a scripted apology.
func (o *Orchestrator) SendChat(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	profile := o.session.Profile()
	mode := o.session.ConsultantMode()
	prior := o.session.AppendMessage(models.RoleUser, text)

	reply, err := o.chat.Reply(ctx, providers.ChatRequest{
		Mode:    mode,
		Profile: profile,
		History: prior,
		Message: text,
	})
	if err != nil {
		slog.Warn("Consultant chat failed", "error", err)
		o.session.AppendMessage(models.RoleAssistant, consultant.Apology)
		return
	}

	o.session.AppendMessage(models.RoleAssistant, reply)
}

// SwitchConsultant re-seeds the dialogue with the new mode's greeting.
// Prior history is not preserved.
func (o *Orchestrator) SwitchConsultant(mode models.ConsultantMode) {
	o.session.SeedDialogue(mode, consultant.Greeting(mode, o.session.Profile()))
}

// Reset returns to awaiting-upload, preserving cart contents, and
// orphans any in-flight work from before the reset.
func (o *Orchestrator) Reset() {
	o.session.Reset()
	o.session.SeedDialogue(models.ConsultantStyle, consultant.Greeting(models.ConsultantStyle, nil))
}

// DismissError clears the visible error banner.
func (o *Orchestrator) DismissError() {
	o.session.ClearError()
}
