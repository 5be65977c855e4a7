// Package consultant assembles the persona framings, greetings, and
// fallback copy for the two consultant modes. It is pure text assembly;
// the external chat call lives behind providers.StylistChat.
package consultant

import (
	"fmt"
	"strings"

	"github.com/abjohnson5f/The-Mirror/internal/models"
)

// Apology is appended to the dialogue when the chat collaborator fails.
// Chat failures are absorbed into the conversation, never surfaced as a
// banner.
const Apology = "I apologize, I'm having trouble connecting to my style database momentarily."

// ClientContext describes the client for the system framing, from the
// profile when one exists and a generic line otherwise.
func ClientContext(profile *models.Profile) string {
	ctx := "Gen X / Elder Millennial client."
	if profile != nil {
		ctx += fmt.Sprintf(" Gender: %s. Style Vibe: %s. Fit Notes: %s.",
			profile.Gender, profile.StyleProfile, profile.FitNotes)
	}
	return ctx
}

// SystemFraming builds the mode's system instruction: a fixed persona
// directive plus the client context.
func SystemFraming(mode models.ConsultantMode, profile *models.Profile) string {
	clientContext := ClientContext(profile)

	if mode == models.ConsultantFit {
		return fmt.Sprintf(`You are a technical Fit Consultant. Focus on tailoring, fabric drape, silhouettes, and sizing.
Explain *why* something fits well or poorly based on the visual description.

CLIENT CONTEXT: %s`, clientContext)
	}

	return fmt.Sprintf(`You are a high-end Style Consultant for a Gen X / Elder Millennial client.
Your tone is sophisticated, honest, and encouraging. You avoid Gen Z slang.
Focus on "Timeless", "Chic", "Elevated", "Polished", "Rugged", "Refined".

CLIENT CONTEXT: %s

If the client is male, focus on fit, quality of materials (leather, denim, wool), and classic silhouettes.`, clientContext)
}

// Greeting is the single seed message a dialogue log is re-seeded with
// whenever the consultant mode changes.
func Greeting(mode models.ConsultantMode, profile *models.Profile) string {
	if profile == nil {
		return fmt.Sprintf("Hello. I am your personal %s. How can I assist with your wardrobe today?", mode.DisplayName())
	}
	if mode == models.ConsultantFit {
		return fmt.Sprintf("Hello. Based on your profile, I can help ensure the perfect fit for your %s. What items are you interested in?",
			strings.ToLower(profile.FitNotes))
	}
	return fmt.Sprintf("Hello. I see you have a %s vibe. I've curated some pieces that fit your style. How can I help you refine your look?",
		strings.ToLower(profile.StyleProfile))
}
