// Package credential gates the session on a usable Gemini credential.
package credential

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// EnvProbe checks for a credential in the process environment. Its
// select action re-reads .env so a key dropped in after startup is
// picked up without a restart.
type EnvProbe struct{}

func NewEnvProbe() *EnvProbe {
	return &EnvProbe{}
}

func (p *EnvProbe) HasCredential(ctx context.Context) (bool, error) {
	return os.Getenv("GEMINI_API_KEY") != "", nil
}

func (p *EnvProbe) SelectCredential(ctx context.Context) error {
	// Overload, not Load: a key edited in .env should win over the
	// stale value already in the environment.
	_ = godotenv.Overload()

	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	return nil
}
