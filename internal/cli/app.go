package cli

import (
	"os"
	"runtime"
	"time"

	"github.com/rileyhilliard/campus/internal/config"
	"github.com/rileyhilliard/campus/internal/dashboard"
	"github.com/rileyhilliard/campus/internal/errors"
	"github.com/rileyhilliard/campus/internal/logger"
	"github.com/rileyhilliard/campus/internal/store"
)

// loadConfig reads .env files, then the config file and environment, and
// validates the result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app holds the data store handles shared by serve and status.
type app struct {
	source    *store.Source
	cache     *store.Cache
	collector *dashboard.Collector
}

func openApp(cfg *config.Config, log logger.Logger) (*app, error) {
	src, err := store.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	opts := []dashboard.CollectorOption{
		dashboard.WithTimeout(cfg.Database.Timeout),
		dashboard.WithLogger(log),
	}
	cache := store.OpenCache(cfg.Cache)
	if cache != nil {
		opts = append(opts, dashboard.WithCache(cache))
	}

	return &app{
		source:    src,
		cache:     cache,
		collector: dashboard.NewCollector(src, opts...),
	}, nil
}

// Close releases the database pool and the cache client.
func (a *app) Close() error {
	var first error
	if err := a.source.Close(); err != nil {
		first = errors.WrapWithCode(err, errors.ErrDB, "Failed to close database connections", "")
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil && first == nil {
			first = errors.WrapWithCode(err, errors.ErrCache, "Failed to close Redis client", "")
		}
	}
	return first
}

// serverInfo describes this process for the panel and the API docs.
func serverInfo(cfg *config.Config, port int) dashboard.ServerInfo {
	return dashboard.ServerInfo{
		Env:         cfg.Env,
		Host:        cfg.Server.Host,
		Port:        port,
		PID:         os.Getpid(),
		StartedAt:   time.Now(),
		GoVersion:   runtime.Version(),
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
		DocsEnabled: cfg.Features.APIDocs,
		RequestLog:  cfg.Features.RequestLog,
		SyncMode:    cfg.Database.SyncMode(),
	}
}
