package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Environment names.
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Redraw modes for the status panel.
const (
	RedrawInPlace = "inplace"
	RedrawClear   = "clear"
)

// Config represents the complete campus configuration.
type Config struct {
	Version  int            `yaml:"version" mapstructure:"version"`
	Env      string         `yaml:"env" mapstructure:"env"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Panel    PanelConfig    `yaml:"panel" mapstructure:"panel"`
	Features FeatureConfig  `yaml:"features" mapstructure:"features"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`

	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DatabaseConfig describes the data store the panel reports on.
type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver   string `yaml:"driver" mapstructure:"driver"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Name     string `yaml:"name" mapstructure:"name"`

	// DSN overrides the individual connection fields when set.
	DSN string `yaml:"dsn" mapstructure:"dsn"`

	// Tables lists the entities to count. Empty means discover them.
	Tables []string `yaml:"tables" mapstructure:"tables"`

	MaxOpenConns int `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`

	// SyncAlter and SyncForce mirror the schema-sync switches shown in the
	// development section of the panel.
	SyncAlter bool `yaml:"sync_alter" mapstructure:"sync_alter"`
	SyncForce bool `yaml:"sync_force" mapstructure:"sync_force"`

	// Timeout bounds each status query.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SyncMode returns "alter", "force" or "" for display.
func (d DatabaseConfig) SyncMode() string {
	switch {
	case d.SyncAlter:
		return "alter"
	case d.SyncForce:
		return "force"
	default:
		return ""
	}
}

// CacheConfig describes the optional Redis cache.
type CacheConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// Enabled reports whether a cache host is configured.
func (c CacheConfig) Enabled() bool {
	return c.Host != ""
}

// Addr returns host:port for the Redis client.
func (c CacheConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// PanelConfig controls the startup status panel.
type PanelConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Width is the total panel width in columns, borders included.
	Width int `yaml:"width" mapstructure:"width"`

	// Interval between animation frames.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Redraw is "inplace" (cursor-up overwrite) or "clear" (full clear every frame).
	Redraw string `yaml:"redraw" mapstructure:"redraw"`

	// Intro is how long the boot progress bar shows before the panel.
	Intro time.Duration `yaml:"intro" mapstructure:"intro"`
}

// FeatureConfig holds switches shown in the development section.
type FeatureConfig struct {
	APIDocs    bool `yaml:"api_docs" mapstructure:"api_docs"`
	RequestLog bool `yaml:"request_log" mapstructure:"request_log"`
}

// LogConfig controls where logs are written.
type LogConfig struct {
	Dir        string `yaml:"dir" mapstructure:"dir"`
	Level      string `yaml:"level" mapstructure:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Env:     EnvDevelopment,
		Server: ServerConfig{
			Host:            "localhost",
			Port:            3000,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       "sqlite",
			Host:         "localhost",
			Name:         "school_admin.db",
			MaxOpenConns: 10,
			MaxIdleConns: 2,
			Timeout:      5 * time.Second,
		},
		Cache: CacheConfig{
			Port: 6379,
		},
		Panel: PanelConfig{
			Enabled:  true,
			Width:    78,
			Interval: 80 * time.Millisecond,
			Redraw:   RedrawInPlace,
			Intro:    2 * time.Second,
		},
		Features: FeatureConfig{
			APIDocs:    true,
			RequestLog: true,
		},
		Log: LogConfig{
			Dir:        "logs",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 10,
		},
	}
}

// DefaultPort returns the conventional port for a database driver.
func DefaultPort(driver string) int {
	switch driver {
	case "postgres":
		return 5432
	default:
		return 0
	}
}

// String summarises the data store for logs without credentials.
func (d DatabaseConfig) String() string {
	if d.Driver == "sqlite" {
		return fmt.Sprintf("sqlite:%s", d.Name)
	}
	return fmt.Sprintf("%s://%s:%d/%s", d.Driver, d.Host, d.Port, d.Name)
}
