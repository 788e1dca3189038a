package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <lesson-id>",
	Short: "Open a lesson directly",
	Long: `Check the saved session and open the given lesson.

When the lesson ends you land on the dashboard. Use "promptquest lessons list"
to find lesson ids.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, args[0])
	},
}
