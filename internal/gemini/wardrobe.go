package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/abjohnson5f/The-Mirror/internal/models"
	"github.com/abjohnson5f/The-Mirror/internal/wardrobe"
	"github.com/google/generative-ai-go/genai"
)

// CurateWardrobe asks Gemini for a "Hot Right Now" catalog personalized
// to the profile.
func (c *Client) CurateWardrobe(ctx context.Context, profile models.Profile) ([]models.CatalogItem, error) {
	client, err := c.newClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	genderTerm := "Unisex fashion"
	switch profile.Gender {
	case models.GenderMale:
		genderTerm = "Menswear"
	case models.GenderFemale:
		genderTerm = "Womenswear"
	}

	availableKeys := strings.Join(wardrobe.ImageKeys(), "', '")

	prompt := fmt.Sprintf(`Act as a high-end fashion buyer and trend forecaster for %s.
Generate a curated list of 9 "Hot Right Now" clothing items for a user with a "%s" vibe.

TARGET AUDIENCE: Gen X and Elder Millennials who want to look stylish and expensive, not like Gen Z.
BRANDS: Use currently trending, high-quality brands (e.g., Aimé Leon Dore, Todd Snyder, Kith, Fear of God Essentials, Drake's, The Row, Khaite, Toteme, Reformation, Anine Bing, Buck Mason).

IMPORTANT - VISUAL MATCHING:
You must select an 'imageKey' for each item from the provided list that BEST visually matches the item you described.

AVAILABLE IMAGE KEYS: ['%s']

REQUIREMENTS:
- Generate 3 items for 'Professional & Work'
- Generate 3 items for 'Date Night & Going Out'
- Generate 3 items for 'Casual & Everyday'
`, genderTerm, profile.StyleProfile, availableKeys)

	model := client.GenerativeModel(c.textModel)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"brand":       {Type: genai.TypeString},
				"name":        {Type: genai.TypeString},
				"description": {Type: genai.TypeString},
				"price":       {Type: genai.TypeNumber},
				"category": {
					Type: genai.TypeString,
					Enum: []string{
						string(models.CategoryWork),
						string(models.CategoryDate),
						string(models.CategoryCasual),
					},
				},
				"imageKey": {Type: genai.TypeString},
			},
			Required: []string{"brand", "name", "description", "price", "category", "imageKey"},
		},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to curate wardrobe: %w", err)
	}

	text, err := firstText(resp)
	if err != nil {
		return nil, err
	}

	items, err := parseCuratedItems(text, profile.Gender)
	if err != nil {
		return nil, err
	}

	slog.Info("Wardrobe curated", "items", len(items), "gender", profile.Gender)
	return items, nil
}

// parseCuratedItems decodes the curator's JSON array into catalog items,
// resolving image keys and synthesizing purchase URLs.
func parseCuratedItems(text string, gender models.Gender) ([]models.CatalogItem, error) {
	var raw []struct {
		Brand       string  `json:"brand"`
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Category    string  `json:"category"`
		ImageKey    string  `json:"imageKey"`
	}

	if err := json.Unmarshal([]byte(trimJSONFences(text)), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse wardrobe response: %w", err)
	}

	items := make([]models.CatalogItem, 0, len(raw))
	for i, r := range raw {
		price := r.Price
		if price < 0 {
			price = 0
		}
		items = append(items, models.CatalogItem{
			ID:          fmt.Sprintf("dynamic-%d", i),
			Brand:       r.Brand,
			Name:        r.Name,
			Description: r.Description,
			Price:       price,
			Category:    models.ParseStyleCategory(r.Category),
			Gender:      gender,
			ImageURL:    wardrobe.ImageURLForKey(r.ImageKey),
			PurchaseURL: purchaseURL(r.Brand, r.Name),
		})
	}

	return items, nil
}

func purchaseURL(brand, name string) string {
	query := url.QueryEscape(brand + " " + name + " buy online")
	return "https://www.google.com/search?q=" + query
}
