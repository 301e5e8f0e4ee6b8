package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pittsix/cmsctl/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse articles interactively",
	Long: `Open an interactive terminal UI for browsing articles.

Prompts for credentials when no session exists, and returns to the
login screen if the session is invalidated while browsing.`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}

	if !tui.IsInteractive() {
		return cmd.Help()
	}

	return tui.RunBrowse(cmd.Context(), app.Client, app.Sessions, app.Articles())
}
