package gemini

import (
	"context"
	"fmt"

	"github.com/abjohnson5f/The-Mirror/internal/consultant"
	"github.com/abjohnson5f/The-Mirror/internal/models"
	"github.com/abjohnson5f/The-Mirror/internal/providers"
	"github.com/google/generative-ai-go/genai"
)

// Reply runs one consultant exchange: the full prior log plus the new
// message, under the active mode's system framing.
func (c *Client) Reply(ctx context.Context, req providers.ChatRequest) (string, error) {
	client, err := c.newClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel(c.textModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(consultant.SystemFraming(req.Mode, req.Profile))},
	}

	cs := model.StartChat()
	cs.History = chatHistory(req.History)

	resp, err := cs.SendMessage(ctx, genai.Text(req.Message))
	if err != nil {
		return "", fmt.Errorf("failed to get consultant response: %w", err)
	}

	text, err := firstText(resp)
	if err != nil || text == "" {
		return "I'm contemplating the look. One moment.", nil
	}
	return text, nil
}

// chatHistory maps dialogue messages to the wire roles Gemini expects.
func chatHistory(history []models.ChatMessage) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := "user"
		if msg.Role == models.RoleAssistant {
			role = "model"
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Text)},
		})
	}
	return out
}
