package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/campus/internal/ui"
)

var (
	cfgFile string
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "campus",
	Short: "School administration backend with a live startup status panel",
	Long: `campus runs the school administration HTTP backend and, on a terminal,
draws a live status panel describing the server, its database and cache.

Configuration comes from campus.yaml (optional), .env files and environment
variables such as PORT, DB_DRIVER, DB_HOST and CAMPUS_PANEL.

Examples:
  campus serve
  campus serve --no-panel
  campus status --json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: campus.yaml in the current directory)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
