package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/abjohnson5f/The-Mirror/internal/consultant"
	"github.com/abjohnson5f/The-Mirror/internal/models"
	"github.com/abjohnson5f/The-Mirror/internal/providers"
)

type fakeProbe struct {
	has       bool
	hasErr    error
	selectErr error
}

func (p *fakeProbe) HasCredential(ctx context.Context) (bool, error) { return p.has, p.hasErr }
func (p *fakeProbe) SelectCredential(ctx context.Context) error      { return p.selectErr }

type fakeAnalyzer struct {
	profile models.Profile
	err     error
}

func (a *fakeAnalyzer) AnalyzeProfile(ctx context.Context, image models.ImageData) (models.Profile, error) {
	return a.profile, a.err
}

type fakeCurator struct {
	items []models.CatalogItem
	err   error
}

func (c *fakeCurator) CurateWardrobe(ctx context.Context, profile models.Profile) ([]models.CatalogItem, error) {
	return c.items, c.err
}

type fakeSynthesizer struct {
	ref models.MediaRef
	err error

	// Optional rendezvous for tests that need to act mid-synthesis.
	started chan struct{}
	release chan struct{}
}

func (s *fakeSynthesizer) SynthesizeAvatar(ctx context.Context, image models.ImageData) (models.MediaRef, error) {
	if s.started != nil {
		close(s.started)
		<-s.release
	}
	return s.ref, s.err
}

type fakeRenderer struct {
	mu    sync.Mutex
	calls []providers.TryOnRequest
	fn    func(req providers.TryOnRequest) (models.MediaRef, error)
}

func (r *fakeRenderer) RenderTryOn(ctx context.Context, req providers.TryOnRequest) (models.MediaRef, error) {
	r.mu.Lock()
	r.calls = append(r.calls, req)
	r.mu.Unlock()
	if r.fn != nil {
		return r.fn(req)
	}
	return "/static/uploads/render.png", nil
}

func (r *fakeRenderer) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *fakeRenderer) lastCall() providers.TryOnRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[len(r.calls)-1]
}

type fakeDescriber struct {
	desc providers.ProductDescription
	err  error
}

func (d *fakeDescriber) DescribeProduct(ctx context.Context, url string) (providers.ProductDescription, error) {
	return d.desc, d.err
}

type fakeChat struct {
	reply string
	err   error
	last  providers.ChatRequest
}

func (c *fakeChat) Reply(ctx context.Context, req providers.ChatRequest) (string, error) {
	c.last = req
	return c.reply, c.err
}

type fakeFetcher struct {
	image models.ImageData
	err   error
}

func (f *fakeFetcher) Fetch(url string) (models.ImageData, error) { return f.image, f.err }

type fakes struct {
	probe       *fakeProbe
	analyzer    *fakeAnalyzer
	curator     *fakeCurator
	synthesizer *fakeSynthesizer
	renderer    *fakeRenderer
	describer   *fakeDescriber
	chat        *fakeChat
	fetcher     *fakeFetcher
}

func newTestOrchestrator() (*Orchestrator, *fakes) {
	f := &fakes{
		probe:    &fakeProbe{has: true},
		analyzer: &fakeAnalyzer{profile: models.Profile{Gender: models.GenderFemale, StyleProfile: "Minimalist", FitNotes: "Petite"}},
		curator: &fakeCurator{items: []models.CatalogItem{
			{ID: "dynamic-0", Brand: "Everlane", Name: "Wool Coat", Price: 220, Category: models.CategoryWork},
		}},
		synthesizer: &fakeSynthesizer{ref: "/static/uploads/avatar.mp4"},
		renderer:    &fakeRenderer{},
		describer:   &fakeDescriber{desc: providers.ProductDescription{Name: "Linen Shirt", Description: "A breezy white linen shirt.", ImageURL: "https://example.com/shirt.jpg"}},
		chat:        &fakeChat{reply: "A navy blazer would elevate that."},
		fetcher:     &fakeFetcher{image: models.ImageData{Data: []byte("ref"), MimeType: "image/jpeg"}},
	}
	o := New(Config{
		Probe:       f.probe,
		Analyzer:    f.analyzer,
		Curator:     f.curator,
		Synthesizer: f.synthesizer,
		Renderer:    f.renderer,
		Describer:   f.describer,
		Chat:        f.chat,
		Fetcher:     f.fetcher,
	})
	return o, f
}

func testImage() models.ImageData {
	return models.ImageData{Data: []byte("photo"), MimeType: "image/jpeg"}
}

func TestStart(t *testing.T) {
	tests := []struct {
		name      string
		has       bool
		err       error
		wantPhase models.Phase
	}{
		{name: "credential present", has: true, wantPhase: models.PhaseAwaitingUpload},
		{name: "credential missing", has: false, wantPhase: models.PhaseCredentialCheck},
		{name: "probe error", has: true, err: errors.New("env unreadable"), wantPhase: models.PhaseCredentialCheck},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, f := newTestOrchestrator()
			f.probe.has = tt.has
			f.probe.hasErr = tt.err

			o.Start(context.Background())

			if got := o.Snapshot().Phase; got != tt.wantPhase {
				t.Errorf("Expected phase %s, got %s", tt.wantPhase, got)
			}
		})
	}
}

func TestSelectCredential(t *testing.T) {
	o, f := newTestOrchestrator()
	f.probe.selectErr = errors.New("no keys configured")

	if err := o.SelectCredential(context.Background()); err == nil {
		t.Fatal("Expected selection error")
	}
	snap := o.Snapshot()
	if snap.Phase != models.PhaseCredentialCheck {
		t.Errorf("Expected phase unchanged, got %s", snap.Phase)
	}
	if snap.LastError != "Failed to select API key. Please try again." {
		t.Errorf("Unexpected error message: %q", snap.LastError)
	}

	f.probe.selectErr = nil
	if err := o.SelectCredential(context.Background()); err != nil {
		t.Fatalf("Expected selection to succeed, got %v", err)
	}
	if got := o.Snapshot().Phase; got != models.PhaseAwaitingUpload {
		t.Errorf("Expected phase %s, got %s", models.PhaseAwaitingUpload, got)
	}
}

// The initialization pipeline must reach the ready phase for every
// combination of collaborator outcomes.
func TestInitializePipelineSettlesAllOutcomes(t *testing.T) {
	tests := []struct {
		name         string
		analyzeFails bool
		avatarFails  bool
		curateFails  bool
	}{
		{name: "all succeed"},
		{name: "analysis fails", analyzeFails: true},
		{name: "avatar fails", avatarFails: true},
		{name: "curation fails", curateFails: true},
		{name: "analysis and avatar fail", analyzeFails: true, avatarFails: true},
		{name: "analysis and curation fail", analyzeFails: true, curateFails: true},
		{name: "avatar and curation fail", avatarFails: true, curateFails: true},
		{name: "all fail", analyzeFails: true, avatarFails: true, curateFails: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, f := newTestOrchestrator()
			if tt.analyzeFails {
				f.analyzer.err = errors.New("vision model unavailable")
			}
			if tt.avatarFails {
				f.synthesizer.err = errors.New("quota exceeded")
				f.synthesizer.ref = ""
			}
			if tt.curateFails {
				f.curator.err = errors.New("malformed response")
				f.curator.items = nil
			}

			o.Start(context.Background())
			if err := o.Upload(context.Background(), testImage()); err != nil {
				t.Fatalf("Expected upload to succeed, got %v", err)
			}

			snap := o.Snapshot()
			if snap.Phase != models.PhaseReady {
				t.Fatalf("Expected phase %s, got %s", models.PhaseReady, snap.Phase)
			}
			if snap.Busy {
				t.Error("Expected busy flag cleared after pipeline")
			}

			if tt.analyzeFails {
				want := models.DefaultProfile()
				if snap.Profile == nil || *snap.Profile != want {
					t.Errorf("Expected default profile substitution, got %+v", snap.Profile)
				}
			} else if snap.Profile == nil || snap.Profile.StyleProfile != "Minimalist" {
				t.Errorf("Expected analyzed profile, got %+v", snap.Profile)
			}

			if tt.avatarFails {
				if snap.AvatarMedia != "" {
					t.Errorf("Expected no avatar media, got %s", snap.AvatarMedia)
				}
				if !strings.Contains(snap.LastError, "Switching to static mode") {
					t.Errorf("Expected static-mode notice, got %q", snap.LastError)
				}
			} else if snap.AvatarMedia != "/static/uploads/avatar.mp4" {
				t.Errorf("Expected avatar media, got %s", snap.AvatarMedia)
			}

			if tt.curateFails {
				if len(snap.Wardrobe) != 0 {
					t.Errorf("Expected empty wardrobe, got %d items", len(snap.Wardrobe))
				}
				if !tt.avatarFails && snap.LastError != "" {
					t.Errorf("Expected curation failure to be absorbed, got error %q", snap.LastError)
				}
			} else if len(snap.Wardrobe) != 1 {
				t.Errorf("Expected 1 curated item, got %d", len(snap.Wardrobe))
			}
		})
	}
}

func TestUploadGuards(t *testing.T) {
	o, _ := newTestOrchestrator()

	if err := o.Upload(context.Background(), testImage()); err == nil {
		t.Error("Expected upload rejection during credential check")
	}

	o.Start(context.Background())
	if err := o.Upload(context.Background(), models.ImageData{}); err == nil {
		t.Error("Expected rejection of empty image")
	}
}

func TestUploadReseedsGreetingWithProfile(t *testing.T) {
	o, f := newTestOrchestrator()
	o.Start(context.Background())

	if err := o.Upload(context.Background(), testImage()); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	dialogue := o.Snapshot().Dialogue
	if len(dialogue) != 1 {
		t.Fatalf("Expected dialogue re-seeded to 1 message, got %d", len(dialogue))
	}
	want := consultant.Greeting(models.ConsultantStyle, &f.analyzer.profile)
	if dialogue[0].Text != want {
		t.Errorf("Expected profile-aware greeting %q, got %q", want, dialogue[0].Text)
	}
}

func TestResetOrphansInFlightPipeline(t *testing.T) {
	o, f := newTestOrchestrator()
	f.synthesizer.started = make(chan struct{})
	f.synthesizer.release = make(chan struct{})

	o.Start(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = o.Upload(context.Background(), testImage())
	}()

	<-f.synthesizer.started
	o.Reset()
	close(f.synthesizer.release)
	<-done

	snap := o.Snapshot()
	if snap.Phase != models.PhaseAwaitingUpload {
		t.Errorf("Expected phase %s after reset, got %s", models.PhaseAwaitingUpload, snap.Phase)
	}
	if snap.AvatarMedia != "" || len(snap.Wardrobe) != 0 {
		t.Error("Expected orphaned pipeline results to be discarded")
	}
	if snap.Busy {
		t.Error("Expected busy flag to stay cleared after reset")
	}
}

func TestLatestTryOnWins(t *testing.T) {
	o, f := newTestOrchestrator()
	o.Session().BeginUpload(testImage())

	firstStarted := make(chan struct{})
	release := make(chan struct{})
	f.renderer.fn = func(req providers.TryOnRequest) (models.MediaRef, error) {
		if strings.Contains(req.Description, "Slow Coat") {
			close(firstStarted)
			<-release
			return "/static/uploads/slow.png", nil
		}
		return "/static/uploads/fast.png", nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = o.RequestTryOn(context.Background(), models.CatalogItem{ID: "slow", Brand: "Acme", Name: "Slow Coat"})
	}()

	<-firstStarted
	if err := o.RequestTryOn(context.Background(), models.CatalogItem{ID: "fast", Brand: "Acme", Name: "Fast Tee"}); err != nil {
		t.Fatalf("Second try-on failed: %v", err)
	}
	close(release)
	<-done

	snap := o.Snapshot()
	if snap.ActiveRender != "/static/uploads/fast.png" {
		t.Errorf("Expected the later request's render to win, got %s", snap.ActiveRender)
	}
	if snap.Busy {
		t.Error("Expected busy flag cleared")
	}
}

func TestStaleTryOnFailureStaysSilent(t *testing.T) {
	o, f := newTestOrchestrator()
	o.Session().BeginUpload(testImage())

	firstStarted := make(chan struct{})
	release := make(chan struct{})
	f.renderer.fn = func(req providers.TryOnRequest) (models.MediaRef, error) {
		if strings.Contains(req.Description, "Doomed") {
			close(firstStarted)
			<-release
			return "", errors.New("render rejected")
		}
		return "/static/uploads/fresh.png", nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = o.RequestTryOn(context.Background(), models.CatalogItem{ID: "doomed", Name: "Doomed Jacket"})
	}()

	<-firstStarted
	if err := o.RequestTryOn(context.Background(), models.CatalogItem{ID: "fresh", Name: "Fresh Jacket"}); err != nil {
		t.Fatalf("Second try-on failed: %v", err)
	}
	close(release)
	<-done

	snap := o.Snapshot()
	if snap.LastError != "" {
		t.Errorf("Expected stale failure to be discarded silently, got %q", snap.LastError)
	}
	if snap.ActiveRender != "/static/uploads/fresh.png" {
		t.Errorf("Expected fresh render kept, got %s", snap.ActiveRender)
	}
}

func TestTryOnFailureSurfaces(t *testing.T) {
	o, f := newTestOrchestrator()
	o.Session().BeginUpload(testImage())
	f.renderer.fn = func(req providers.TryOnRequest) (models.MediaRef, error) {
		return "", errors.New("safety block")
	}

	if err := o.RequestTryOn(context.Background(), models.CatalogItem{ID: "x", Name: "Jacket"}); err == nil {
		t.Fatal("Expected try-on error")
	}

	snap := o.Snapshot()
	if snap.LastError != "Failed to try on item. Please try again." {
		t.Errorf("Unexpected error message: %q", snap.LastError)
	}
	if snap.Busy {
		t.Error("Expected busy flag cleared after failure")
	}
	if snap.ActiveRender != "" {
		t.Errorf("Expected no render, got %s", snap.ActiveRender)
	}
}

func TestTryOnWithoutSourceImage(t *testing.T) {
	o, f := newTestOrchestrator()

	if err := o.RequestTryOn(context.Background(), models.CatalogItem{ID: "x", Name: "Jacket"}); err != nil {
		t.Fatalf("Expected silent no-op, got %v", err)
	}
	if f.renderer.callCount() != 0 {
		t.Error("Expected renderer to not be invoked")
	}
}

func TestTryOnWardrobeItem(t *testing.T) {
	o, f := newTestOrchestrator()
	o.Start(context.Background())
	if err := o.Upload(context.Background(), testImage()); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if err := o.TryOnWardrobeItem(context.Background(), "missing"); err == nil {
		t.Error("Expected unknown item error")
	}
	if err := o.TryOnWardrobeItem(context.Background(), "dynamic-0"); err != nil {
		t.Fatalf("Expected wardrobe try-on to succeed, got %v", err)
	}
	if !strings.Contains(f.renderer.lastCall().Description, "Wool Coat") {
		t.Errorf("Expected item description passed to renderer, got %q", f.renderer.lastCall().Description)
	}
}

func TestResolveProductLink(t *testing.T) {
	t.Run("description failure is fatal", func(t *testing.T) {
		o, f := newTestOrchestrator()
		o.Session().BeginUpload(testImage())
		f.describer.err = errors.New("model refused")

		if err := o.ResolveProductLink(context.Background(), "https://shop.example.com/p/1"); err == nil {
			t.Fatal("Expected resolution error")
		}
		if got := o.Snapshot().LastError; got != "Could not analyze this link. Try another." {
			t.Errorf("Unexpected error message: %q", got)
		}
		if f.renderer.callCount() != 0 {
			t.Error("Expected no render attempt after fatal description failure")
		}
	})

	t.Run("image fetch failure falls back to text", func(t *testing.T) {
		o, f := newTestOrchestrator()
		o.Session().BeginUpload(testImage())
		f.fetcher.err = errors.New("403 forbidden")
		f.fetcher.image = models.ImageData{}

		if err := o.ResolveProductLink(context.Background(), "https://shop.example.com/p/1"); err != nil {
			t.Fatalf("Expected resolution to proceed, got %v", err)
		}
		req := f.renderer.lastCall()
		if !req.Reference.Empty() {
			t.Error("Expected no reference image after fetch failure")
		}
		if !strings.Contains(req.Description, "Linen Shirt") {
			t.Errorf("Expected described item in render request, got %q", req.Description)
		}
		if got := o.Snapshot().LastError; got != "" {
			t.Errorf("Expected fetch failure absorbed, got error %q", got)
		}
	})

	t.Run("reference image forwarded", func(t *testing.T) {
		o, f := newTestOrchestrator()
		o.Session().BeginUpload(testImage())

		if err := o.ResolveProductLink(context.Background(), "https://shop.example.com/p/1"); err != nil {
			t.Fatalf("Expected resolution to succeed, got %v", err)
		}
		req := f.renderer.lastCall()
		if req.Reference.Empty() {
			t.Error("Expected fetched reference image in render request")
		}
		if got := o.Snapshot().ActiveRender; got != "/static/uploads/render.png" {
			t.Errorf("Expected render applied, got %s", got)
		}
	})
}

func TestSendChat(t *testing.T) {
	t.Run("reply appended", func(t *testing.T) {
		o, f := newTestOrchestrator()
		o.SendChat(context.Background(), "What goes with loafers?")

		dialogue := o.Snapshot().Dialogue
		if len(dialogue) != 3 {
			t.Fatalf("Expected greeting + question + reply, got %d messages", len(dialogue))
		}
		if dialogue[1].Role != models.RoleUser || dialogue[1].Text != "What goes with loafers?" {
			t.Errorf("Unexpected user message: %+v", dialogue[1])
		}
		if dialogue[2].Role != models.RoleAssistant || dialogue[2].Text != f.chat.reply {
			t.Errorf("Unexpected assistant message: %+v", dialogue[2])
		}
		if f.chat.last.Message != "What goes with loafers?" {
			t.Errorf("Expected message forwarded, got %q", f.chat.last.Message)
		}
		if len(f.chat.last.History) != 1 {
			t.Errorf("Expected history to hold only the greeting, got %d messages", len(f.chat.last.History))
		}
	})

	t.Run("failure becomes apology", func(t *testing.T) {
		o, f := newTestOrchestrator()
		f.chat.err = errors.New("stream reset")

		o.SendChat(context.Background(), "Hello?")

		dialogue := o.Snapshot().Dialogue
		if len(dialogue) != 3 {
			t.Fatalf("Expected 3 messages, got %d", len(dialogue))
		}
		if dialogue[2].Text != consultant.Apology {
			t.Errorf("Expected apology, got %q", dialogue[2].Text)
		}
		if got := o.Snapshot().LastError; got != "" {
			t.Errorf("Expected chat failure absorbed, got error %q", got)
		}
	})

	t.Run("blank message ignored", func(t *testing.T) {
		o, _ := newTestOrchestrator()
		o.SendChat(context.Background(), "   ")

		if got := len(o.Snapshot().Dialogue); got != 1 {
			t.Errorf("Expected dialogue untouched, got %d messages", got)
		}
	})
}

func TestSwitchConsultant(t *testing.T) {
	o, _ := newTestOrchestrator()
	o.SendChat(context.Background(), "First question")

	o.SwitchConsultant(models.ConsultantFit)
	o.SwitchConsultant(models.ConsultantStyle)
	o.SwitchConsultant(models.ConsultantFit)

	snap := o.Snapshot()
	if snap.ConsultantMode != models.ConsultantFit {
		t.Errorf("Expected fit mode, got %s", snap.ConsultantMode)
	}
	if len(snap.Dialogue) != 1 {
		t.Fatalf("Expected exactly 1 greeting after switches, got %d messages", len(snap.Dialogue))
	}
	want := consultant.Greeting(models.ConsultantFit, nil)
	if snap.Dialogue[0].Text != want {
		t.Errorf("Expected %q, got %q", want, snap.Dialogue[0].Text)
	}
}

func TestDismissError(t *testing.T) {
	o, _ := newTestOrchestrator()
	o.Session().SetError("boom")

	o.DismissError()

	if got := o.Snapshot().LastError; got != "" {
		t.Errorf("Expected error cleared, got %q", got)
	}
}
