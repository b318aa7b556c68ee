package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/campus/internal/config"
	"github.com/rileyhilliard/campus/internal/dashboard"
	"github.com/rileyhilliard/campus/internal/errors"
	"github.com/rileyhilliard/campus/internal/logger"
	"github.com/rileyhilliard/campus/internal/ui"
)

var (
	statusJSON  bool
	statusWidth int
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a one-shot status report",
	Long: `Collect one status snapshot and print it as a static panel, or as JSON
with --json. Exits non-zero when the database is unreachable.

Examples:
  campus status
  campus status --json
  campus status --width 100`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		width := statusWidth
		if width == 0 {
			width = cfg.Panel.Width
			if tw, err := dashboard.NewStdTerminal(os.Stdout).Width(); err == nil && tw < width {
				width = tw
			}
		}
		return runStatus(cmd.Context(), cfg, cmd.OutOrStdout(), statusJSON, width)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print the snapshot as JSON")
	statusCmd.Flags().IntVarP(&statusWidth, "width", "w", 0, "panel width (default: configured width, capped at the terminal)")
}

func runStatus(ctx context.Context, cfg *config.Config, w io.Writer, asJSON bool, width int) error {
	if width < config.MinPanelWidth {
		return errors.New(errors.ErrLayout,
			"Panel width too small",
			"Use a width of at least 20 columns")
	}

	a, err := openApp(cfg, logger.Noop())
	if err != nil {
		return err
	}
	defer a.Close()

	rec := dashboard.Redacted(a.collector.Collect(ctx))

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			return err
		}
	} else {
		info := serverInfo(cfg, cfg.Server.Port)
		if err := dashboard.WriteStatic(w, info, rec, width, ui.DefaultTheme()); err != nil {
			return err
		}
	}

	if !rec.Connected {
		return errors.New(errors.ErrDB,
			"Database unreachable",
			"Check DB_HOST, DB_PORT and the credentials, then run 'campus status' again")
	}
	return nil
}
