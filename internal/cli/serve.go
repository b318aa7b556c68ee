package cli

import (
	"context"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/campus/internal/config"
	"github.com/rileyhilliard/campus/internal/dashboard"
	"github.com/rileyhilliard/campus/internal/errors"
	"github.com/rileyhilliard/campus/internal/logger"
	"github.com/rileyhilliard/campus/internal/server"
	"github.com/rileyhilliard/campus/internal/ui"
)

var (
	serveNoPanel bool
	servePort    int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and the live status panel",
	Long: `Start the HTTP server. When stdout is a terminal and the panel is enabled,
a live status panel is drawn showing the server, database and cache state
until the process receives SIGINT or SIGTERM.

Logs go to <log.dir>/app.log while the panel owns the terminal.

Examples:
  campus serve
  campus serve --port 8080
  CAMPUS_PANEL=false campus serve`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveNoPanel {
			cfg.Panel.Enabled = false
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		term := dashboard.NewStdTerminal(os.Stdout)
		return runServe(ctx, cfg, term, term.IsTerminal())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveNoPanel, "no-panel", false, "do not draw the status panel")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "override the listen port")
}

// runServe runs the server until ctx is done or the listener fails, drawing
// the status panel on term when interactive.
func runServe(ctx context.Context, cfg *config.Config, term dashboard.Terminal, interactive bool) error {
	theme := ui.DefaultTheme()
	log := logger.NewEnvLogger("[campus]")
	life := ui.NewLifecycle(term, theme, log)

	logCloser, err := logger.Init(logger.Config{
		Dir:        cfg.Log.Dir,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		life.Error("服务器启动失败", err)
		return err
	}
	defer logCloser.Close()

	a, err := openApp(cfg, logger.NewEnvLogger("[status]"))
	if err != nil {
		life.Error("服务器启动失败", err)
		return err
	}

	info := serverInfo(cfg, cfg.Server.Port)
	srv := server.New(cfg.Server, server.Options{
		Snapshotter: a.collector,
		Info:        info,
		Version:     GetVersion(),
		APIDocs:     cfg.Features.APIDocs,
		RequestLog:  cfg.Features.RequestLog,
		Logger:      logger.NewEnvLogger("[http]"),
	})
	if err := srv.Start(); err != nil {
		_ = a.Close()
		life.Error("服务器启动失败", err)
		return err
	}
	info.Port = boundPort(srv.Addr(), info.Port)
	log.Info("campus %s started (%s, %s)", GetVersion(), cfg.Env, cfg.Database)

	var session *dashboard.Session
	switch {
	case !cfg.Panel.Enabled:
	case interactive:
		ui.StartupAnimation(ctx, term, cfg.Panel.Intro)
		session = dashboard.NewSession(term, a.collector, info, dashboard.Options{
			Width:    cfg.Panel.Width,
			Interval: cfg.Panel.Interval,
			Redraw:   cfg.Panel.Redraw,
			Theme:    &theme,
			Logger:   logger.NewEnvLogger("[panel]"),
		})
		err := session.Start(ctx)
		if err == nil || ctx.Err() != nil {
			break
		}
		log.Warn("status panel unavailable: %s", errors.Brief(err))
		if errors.IsCode(err, errors.ErrLayout) {
			writeStaticReport(ctx, term, a, info, cfg.Panel.Width, theme, log)
		}
	default:
		writeStaticReport(ctx, term, a, info, cfg.Panel.Width, theme, log)
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case err, ok := <-srv.Errors():
		if ok {
			serveErr = errors.WrapWithCode(err, errors.ErrServer, "HTTP server stopped unexpectedly", "")
		}
	}

	if session != nil {
		session.Stop()
	}
	life.ShutdownStarted()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		life.ShutdownFailed(err)
		return err
	}
	life.ShutdownSucceeded()
	return serveErr
}

// writeStaticReport prints one snapshot without animation or screen control.
func writeStaticReport(ctx context.Context, w io.Writer, a *app, info dashboard.ServerInfo, width int, theme ui.Theme, log logger.Logger) {
	rec := a.collector.Collect(ctx)
	if err := dashboard.WriteStatic(w, info, rec, width, theme); err != nil {
		log.Warn("static status report: %s", errors.Brief(err))
	}
}

// boundPort extracts the port from a listener address.
func boundPort(addr string, fallback int) int {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return fallback
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return fallback
	}
	return port
}
