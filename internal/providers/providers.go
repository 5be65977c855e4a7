package providers

import (
	"context"

	"github.com/abjohnson5f/The-Mirror/internal/models"
)

// ProfileAnalyzer derives a styling profile from the uploaded photo.
type ProfileAnalyzer interface {
	AnalyzeProfile(ctx context.Context, image models.ImageData) (models.Profile, error)
}

// WardrobeCurator fetches a personalized catalog of recommended items.
type WardrobeCurator interface {
	CurateWardrobe(ctx context.Context, profile models.Profile) ([]models.CatalogItem, error)
}

// AvatarSynthesizer produces a looping motion rendering of the user.
type AvatarSynthesizer interface {
	SynthesizeAvatar(ctx context.Context, image models.ImageData) (models.MediaRef, error)
}

// TryOnRequest carries everything the renderer needs for one still
// composite. Reference is optional; when present the renderer transplants
// that garment, otherwise it depicts the textual description.
type TryOnRequest struct {
	Subject     models.ImageData
	Description string
	Reference   models.ImageData
}

// TryOnRenderer produces a still composite of the user wearing an item.
type TryOnRenderer interface {
	RenderTryOn(ctx context.Context, req TryOnRequest) (models.MediaRef, error)
}

// ProductDescription is the link describer's view of a product URL.
type ProductDescription struct {
	Name        string
	Description string
	ImageURL    string
}

// LinkDescriber turns an arbitrary product URL into a description and a
// candidate image URL.
type LinkDescriber interface {
	DescribeProduct(ctx context.Context, url string) (ProductDescription, error)
}

// ChatRequest is one consultant exchange: the full prior log plus the
// new user message, framed by the active consultant mode.
type ChatRequest struct {
	Mode    models.ConsultantMode
	Profile *models.Profile
	History []models.ChatMessage
	Message string
}

// StylistChat is the external chat collaborator behind the consultant.
type StylistChat interface {
	Reply(ctx context.Context, req ChatRequest) (string, error)
}

// CredentialProbe reports whether a usable credential is selected and
// can interactively select one. Both are host-environment-provided.
type CredentialProbe interface {
	HasCredential(ctx context.Context) (bool, error)
	SelectCredential(ctx context.Context) error
}
