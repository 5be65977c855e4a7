package cmd

import (
	"github.com/abjohnson5f/The-Mirror/internal/evalcmd"
	"github.com/abjohnson5f/The-Mirror/internal/gemini"
	"github.com/abjohnson5f/The-Mirror/internal/media"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Profile analysis evaluation tools",
		Long: `Evaluation tools for measuring the accuracy of AI-derived styling
profiles against labeled photo datasets.`,
	}

	analyzer := gemini.New(media.NewStore("uploads"))
	cmd.AddCommand(evalcmd.NewRunCmd(analyzer))

	return cmd
}
