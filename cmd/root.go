package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Virtual fitting room with AI-generated avatars and try-ons",
		Long: `Mirror turns one full-body photo into an interactive virtual fitting room:
a synthesized avatar, AI-curated clothing recommendations, photorealistic
try-on renders, and a conversational stylist.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newEvalCmd())

	return cmd
}
