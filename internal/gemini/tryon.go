package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abjohnson5f/The-Mirror/internal/models"
	"github.com/abjohnson5f/The-Mirror/internal/providers"
	"github.com/google/generative-ai-go/genai"
)

const referenceTryOnPrompt = `Photorealistic virtual try-on.
Task: Dress the person shown in the FIRST image with the clothing item shown in the SECOND image.

Instructions:
1. Keep the person's identity, pose, and body shape exactly as they appear in the first image.
2. Replace their current outfit with the item from the second image.
3. Ensure the item fits naturally, respecting the person's physique and the fabric's drape.
4. Background: Luxury walk-in closet with dark wood.
5. Output: Full body, high fidelity, 8k resolution.`

// RenderTryOn produces a still composite of the user wearing the item.
// When a reference product image is present it transplants that garment;
// otherwise it depicts the textual description.
func (c *Client) RenderTryOn(ctx context.Context, req providers.TryOnRequest) (models.MediaRef, error) {
	client, err := c.newClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	var parts []genai.Part
	if !req.Reference.Empty() {
		parts = []genai.Part{
			genai.Text(referenceTryOnPrompt),
			genai.Blob{MIMEType: req.Subject.MimeType, Data: req.Subject.Data},
			genai.Blob{MIMEType: req.Reference.MimeType, Data: req.Reference.Data},
		}
	} else {
		prompt := fmt.Sprintf(`Full body wide shot. The person from the reference image wearing: %s.
The person is standing in a luxury walk-in closet with dark wood shelving and warm lighting.
Ensure the entire head and feet are visible. Do not crop.
Photorealistic, 8k resolution.
Preserve facial features exactly.`, req.Description)
		parts = []genai.Part{
			genai.Text(prompt),
			genai.Blob{MIMEType: req.Subject.MimeType, Data: req.Subject.Data},
		}
	}

	model := client.GenerativeModel(c.imageModel)
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate try-on image: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no image generated")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		blob, ok := part.(genai.Blob)
		if !ok {
			continue
		}
		ref, err := c.media.Save(blob.Data, ".png")
		if err != nil {
			return "", err
		}
		slog.Info("Try-on render saved", "ref", string(ref), "bytes", len(blob.Data))
		return ref, nil
	}

	return "", fmt.Errorf("no image generated")
}
