package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/campus/internal/errors"
)

// Panel limits. Anything narrower cannot fit a label and value.
const (
	MinPanelWidth    = 20
	MinPanelInterval = 20 * time.Millisecond
)

var knownDrivers = map[string]bool{
	"postgres": true,
	"sqlite":   true,
}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig, "No configuration loaded", "This is a bug; please report it")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but campus only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade campus or lower the version field")
	}

	switch cfg.Env {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown environment '%s'", cfg.Env),
			"Set NODE_ENV to development, test or production")
	}

	if err := validateServer(cfg.Server); err != nil {
		return err
	}
	if err := validateDatabase(cfg.Env, cfg.Database); err != nil {
		return err
	}
	if cfg.Cache.Enabled() {
		if err := validatePort("REDIS_PORT", cfg.Cache.Port); err != nil {
			return err
		}
	}
	return validatePanel(cfg.Panel)
}

func validateServer(s ServerConfig) error {
	if err := validatePort("PORT", s.Port); err != nil {
		return err
	}
	if s.ShutdownTimeout <= 0 {
		return errors.New(errors.ErrConfig,
			"server.shutdown_timeout must be positive",
			"Try something like: shutdown_timeout: 10s")
	}
	return nil
}

func validateDatabase(env string, d DatabaseConfig) error {
	if !knownDrivers[d.Driver] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unsupported database driver '%s'", d.Driver),
			"Set DB_DRIVER to postgres or sqlite")
	}

	if d.DSN == "" {
		if strings.TrimSpace(d.Name) == "" {
			return errors.New(errors.ErrConfig,
				"Database name is empty",
				"Set DB_NAME")
		}
		if d.Driver == "postgres" {
			if err := validatePort("DB_PORT", d.Port); err != nil {
				return err
			}
		}
		if env == EnvProduction && d.Driver == "postgres" {
			var missing []string
			if d.User == "" {
				missing = append(missing, "DB_USER")
			}
			if d.Password == "" {
				missing = append(missing, "DB_PASSWORD")
			}
			if len(missing) > 0 {
				return errors.New(errors.ErrConfig,
					"Production database credentials are missing: "+strings.Join(missing, ", "),
					"Set them in the environment or .env.production")
			}
		}
	}

	if d.MaxOpenConns < 0 || d.MaxIdleConns < 0 {
		return errors.New(errors.ErrConfig,
			"Connection pool sizes can't be negative",
			"Check DB_POOL_MAX and DB_POOL_MIN")
	}
	if d.MaxOpenConns > 0 && d.MaxIdleConns > d.MaxOpenConns {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("DB_POOL_MIN (%d) is larger than DB_POOL_MAX (%d)", d.MaxIdleConns, d.MaxOpenConns),
			"Lower DB_POOL_MIN or raise DB_POOL_MAX")
	}
	if d.Timeout <= 0 {
		return errors.New(errors.ErrConfig,
			"database.timeout must be positive",
			"Try something like: timeout: 5s")
	}
	return nil
}

func validatePanel(p PanelConfig) error {
	if !p.Enabled {
		return nil
	}
	if p.Width < MinPanelWidth {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Panel width %d is too narrow (minimum %d)", p.Width, MinPanelWidth),
			"Raise panel.width or CAMPUS_PANEL_WIDTH")
	}
	if p.Interval < MinPanelInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Panel interval %s is too short (minimum %s)", p.Interval, MinPanelInterval),
			"Try something like: interval: 80ms")
	}
	switch p.Redraw {
	case RedrawInPlace, RedrawClear:
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown redraw mode '%s'", p.Redraw),
			"Use 'inplace' or 'clear'")
	}
	if p.Intro < 0 {
		return errors.New(errors.ErrConfig,
			"panel.intro can't be negative",
			"Use 0 to skip the startup animation")
	}
	return nil
}

func validatePort(name string, port int) error {
	if port < 1 || port > 65535 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("%s %d is out of range", name, port),
			"Use a port between 1 and 65535")
	}
	return nil
}
