// Package gemini implements the remote generative collaborators on top
// of Google Gemini: profile analysis, wardrobe curation, product link
// description, consultant chat, and try-on rendering.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/abjohnson5f/The-Mirror/internal/media"
	"github.com/abjohnson5f/The-Mirror/internal/models"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	defaultTextModel  = "gemini-2.5-flash"
	defaultImageModel = "gemini-3-pro-image-preview"
)

// Client talks to Gemini. A fresh API client is created per call so a
// credential selected mid-session takes effect immediately.
type Client struct {
	textModel  string
	imageModel string
	media      *media.Store
}

// New returns a Gemini client storing generated renders in store.
func New(store *media.Store) *Client {
	textModel := os.Getenv("GEMINI_TEXT_MODEL")
	if textModel == "" {
		textModel = defaultTextModel
	}
	imageModel := os.Getenv("GEMINI_IMAGE_MODEL")
	if imageModel == "" {
		imageModel = defaultImageModel
	}
	return &Client{
		textModel:  textModel,
		imageModel: imageModel,
		media:      store,
	}
}

func (c *Client) newClient(ctx context.Context) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}
	return client, nil
}

// AnalyzeProfile derives gender expression, style vibe, and fit notes
// from the uploaded photo.
func (c *Client) AnalyzeProfile(ctx context.Context, image models.ImageData) (models.Profile, error) {
	client, err := c.newClient(ctx)
	if err != nil {
		return models.Profile{}, err
	}
	defer client.Close()

	prompt := `Analyze the person in this image for a personal styling application.
Determine their likely gender expression (male, female, or neutral) to filter clothing options correctly.
Provide a brief 1-sentence description of their current style vibe.
Provide a brief 1-sentence note on their apparent body type for fit advice.`

	model := client.GenerativeModel(c.textModel)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"gender":       {Type: genai.TypeString, Enum: []string{"male", "female", "neutral"}},
			"styleProfile": {Type: genai.TypeString},
			"fitNotes":     {Type: genai.TypeString},
		},
		Required: []string{"gender", "styleProfile", "fitNotes"},
	}

	resp, err := model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.Blob{MIMEType: image.MimeType, Data: image.Data},
	)
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to analyze profile: %w", err)
	}

	text, err := firstText(resp)
	if err != nil {
		return models.Profile{}, err
	}

	return parseProfile(text), nil
}

// parseProfile decodes the analyzer's JSON. Malformed payloads fall back
// to a neutral profile rather than failing the pipeline.
func parseProfile(text string) models.Profile {
	var raw struct {
		Gender       string `json:"gender"`
		StyleProfile string `json:"styleProfile"`
		FitNotes     string `json:"fitNotes"`
	}

	if err := json.Unmarshal([]byte(trimJSONFences(text)), &raw); err != nil {
		return models.Profile{Gender: models.GenderNeutral, StyleProfile: "Unknown", FitNotes: "Standard fit"}
	}

	gender := models.Gender(raw.Gender)
	switch gender {
	case models.GenderMale, models.GenderFemale, models.GenderNeutral:
	default:
		gender = models.GenderNeutral
	}

	return models.Profile{
		Gender:       gender,
		StyleProfile: raw.StyleProfile,
		FitNotes:     raw.FitNotes,
	}
}

// firstText returns the first text part of the first candidate.
func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt), nil
		}
	}

	return "", fmt.Errorf("unexpected response format from Gemini")
}

// trimJSONFences strips markdown code fences models sometimes wrap
// around JSON payloads.
func trimJSONFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
