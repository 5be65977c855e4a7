package gemini

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/abjohnson5f/The-Mirror/internal/providers"
	"github.com/google/generative-ai-go/genai"
)

var (
	namePattern  = regexp.MustCompile(`(?i)Name:\s*(.+)`)
	descPattern  = regexp.MustCompile(`(?i)Description:\s*(.+)`)
	imagePattern = regexp.MustCompile(`(?i)ImageURL:\s*(.+)`)
)

// DescribeProduct asks Gemini to identify the product behind a link and
// find a candidate image URL for it.
func (c *Client) DescribeProduct(ctx context.Context, productURL string) (providers.ProductDescription, error) {
	client, err := c.newClient(ctx)
	if err != nil {
		return providers.ProductDescription{}, err
	}
	defer client.Close()

	prompt := fmt.Sprintf(`I have a link to a clothing item: %s

Please identify this product from the URL.
1. Identify the Brand and Product Name.
2. Write a detailed visual description of the item (color, fabric texture, fit, neckline, key details).
3. Find the URL of the main product image (high resolution if possible).

Format your response exactly like this:
Name: [Brand & Product Name]
Description: [Visual Description]
ImageURL: [URL of the image]`, productURL)

	model := client.GenerativeModel(c.textModel)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return providers.ProductDescription{}, fmt.Errorf("failed to describe product link: %w", err)
	}

	text, err := firstText(resp)
	if err != nil {
		return providers.ProductDescription{}, err
	}

	return parseProductDescription(text), nil
}

// parseProductDescription extracts the labeled lines from the model's
// reply, substituting generic copy for anything it failed to supply.
func parseProductDescription(text string) providers.ProductDescription {
	desc := providers.ProductDescription{
		Name:        "Custom Item",
		Description: "A stylish clothing item found online.",
	}

	if m := namePattern.FindStringSubmatch(text); m != nil {
		desc.Name = strings.TrimSpace(m[1])
	}
	if m := descPattern.FindStringSubmatch(text); m != nil {
		desc.Description = strings.TrimSpace(m[1])
	}
	if m := imagePattern.FindStringSubmatch(text); m != nil {
		desc.ImageURL = strings.TrimSpace(m[1])
	}

	return desc
}
