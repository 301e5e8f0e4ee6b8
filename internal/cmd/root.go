package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cmsctl",
	Short: "Terminal client for the PittSix CMS",
	Long: `cmsctl is a terminal client for the PittSix CMS backend.

It manages your login session and lets authorized users list, create,
edit, and delete articles, users, and organizations, plus maintain
their own profile.

Authenticate once with 'cmsctl auth login'; the session token is kept
in your user config directory until you log out or it expires.`,
	SilenceUsage: true,
}

// ExecuteContext runs the root command with the given context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default is $XDG_CONFIG_HOME/cmsctl/config.yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "CMS backend base URL (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("verbose", false, "shorthand for --log-level debug")
}
