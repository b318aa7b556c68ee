package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rileyhilliard/campus/internal/errors"
	"github.com/spf13/viper"
)

// ConfigFileName is the default config file name.
const ConfigFileName = "campus.yaml"

// envBindings maps config keys to the environment variables that override
// them. Earlier names win.
var envBindings = []struct {
	key  string
	envs []string
}{
	{"env", []string{"CAMPUS_ENV", "NODE_ENV"}},
	{"server.host", []string{"HOST"}},
	{"server.port", []string{"PORT"}},
	{"server.shutdown_timeout", []string{"SHUTDOWN_TIMEOUT"}},
	{"database.driver", []string{"DB_DRIVER"}},
	{"database.host", []string{"DB_HOST"}},
	{"database.port", []string{"DB_PORT"}},
	{"database.user", []string{"DB_USER"}},
	{"database.password", []string{"DB_PASSWORD"}},
	{"database.name", []string{"DB_NAME"}},
	{"database.dsn", []string{"DB_DSN"}},
	{"database.tables", []string{"DB_TABLES"}},
	{"database.max_open_conns", []string{"DB_POOL_MAX"}},
	{"database.max_idle_conns", []string{"DB_POOL_MIN"}},
	{"database.sync_alter", []string{"DB_SYNC_ALTER"}},
	{"database.sync_force", []string{"DB_SYNC_FORCE"}},
	{"database.timeout", []string{"DB_TIMEOUT"}},
	{"cache.host", []string{"REDIS_HOST"}},
	{"cache.port", []string{"REDIS_PORT"}},
	{"cache.password", []string{"REDIS_PASSWORD"}},
	{"cache.db", []string{"REDIS_DB"}},
	{"panel.enabled", []string{"CAMPUS_PANEL"}},
	{"panel.width", []string{"CAMPUS_PANEL_WIDTH"}},
	{"panel.interval", []string{"CAMPUS_PANEL_INTERVAL"}},
	{"panel.redraw", []string{"CAMPUS_PANEL_REDRAW"}},
	{"panel.intro", []string{"CAMPUS_PANEL_INTRO"}},
	{"features.api_docs", []string{"ENABLE_API_DOCS"}},
	{"features.request_log", []string{"ENABLE_REQUEST_LOG"}},
	{"log.dir", []string{"LOG_DIR"}},
	{"log.level", []string{"LOG_LEVEL"}},
}

// Load reads config from the specified path, layered over defaults and
// overridden by environment variables. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	for _, b := range envBindings {
		args := append([]string{b.key}, b.envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to bind environment variable for "+b.key,
				"This is a bug; please report it")
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found",
					"Create "+ConfigFileName+" or specify one with --config")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax and environment variable values")
	}

	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultPort(cfg.Database.Driver)
	}

	return cfg, nil
}

// setDefaults registers every default so environment-only keys unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("env", d.Env)

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.user", d.Database.User)
	v.SetDefault("database.password", d.Database.Password)
	v.SetDefault("database.name", d.Database.Name)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.tables", d.Database.Tables)
	v.SetDefault("database.max_open_conns", d.Database.MaxOpenConns)
	v.SetDefault("database.max_idle_conns", d.Database.MaxIdleConns)
	v.SetDefault("database.sync_alter", d.Database.SyncAlter)
	v.SetDefault("database.sync_force", d.Database.SyncForce)
	v.SetDefault("database.timeout", d.Database.Timeout)

	v.SetDefault("cache.host", d.Cache.Host)
	v.SetDefault("cache.port", d.Cache.Port)
	v.SetDefault("cache.password", d.Cache.Password)
	v.SetDefault("cache.db", d.Cache.DB)

	v.SetDefault("panel.enabled", d.Panel.Enabled)
	v.SetDefault("panel.width", d.Panel.Width)
	v.SetDefault("panel.interval", d.Panel.Interval)
	v.SetDefault("panel.redraw", d.Panel.Redraw)
	v.SetDefault("panel.intro", d.Panel.Intro)

	v.SetDefault("features.api_docs", d.Features.APIDocs)
	v.SetDefault("features.request_log", d.Features.RequestLog)

	v.SetDefault("log.dir", d.Log.Dir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
}

// LoadEnvFiles loads .env.<env> and then .env from dir into the process
// environment. Variables already set are never overwritten, so the
// environment-specific file wins over the generic one.
func LoadEnvFiles(dir string) error {
	env := os.Getenv("CAMPUS_ENV")
	if env == "" {
		env = os.Getenv("NODE_ENV")
	}
	if env == "" {
		env = EnvDevelopment
	}

	for _, name := range []string{".env." + env, ".env"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to parse "+name,
				"Check the file uses KEY=value lines")
		}
	}
	return nil
}

// Find locates the config file:
// 1. Explicit path (from --config flag)
// 2. campus.yaml in the current directory
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	local := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}
	return "", nil
}

// LoadOrDefault loads .env files, finds the config file and loads it,
// falling back to defaults plus environment when there is none.
func LoadOrDefault(explicit string) (*Config, error) {
	cwd, err := os.Getwd()
	if err == nil {
		if err := LoadEnvFiles(cwd); err != nil {
			return nil, err
		}
	}

	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}
	return Load(path)
}
