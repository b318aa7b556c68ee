// Package store provides the data store and cache the status panel reports
// on. Source implements dashboard.DataSource over any database/sql driver
// through sqlx; PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite) are
// registered here.
package store

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/rileyhilliard/campus/internal/config"
	"github.com/rileyhilliard/campus/internal/dashboard"
	"github.com/rileyhilliard/campus/internal/errors"
)

// Driver names as registered with database/sql.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	listSQLiteTables = `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`

	listPostgresTables = `SELECT table_name FROM information_schema.tables
WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
ORDER BY table_name`
)

// Source reports connectivity and record counts for one database.
type Source struct {
	db  *sqlx.DB
	cfg config.DatabaseConfig
}

// Open creates a connection pool for cfg. It does not connect; an
// unreachable database shows up in Connectivity instead.
func Open(cfg config.DatabaseConfig) (*Source, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDB,
			"Cannot open "+cfg.String(),
			"Check DB_DRIVER and the connection settings")
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	return New(db, cfg), nil
}

// New wraps an existing pool.
func New(db *sqlx.DB, cfg config.DatabaseConfig) *Source {
	return &Source{db: db, cfg: cfg}
}

// DSN builds the driver connection string for cfg. An explicit DSN wins.
func DSN(cfg config.DatabaseConfig) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	switch cfg.Driver {
	case DriverPostgres:
		u := &url.URL{
			Scheme:   "postgres",
			Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Path:     "/" + cfg.Name,
			RawQuery: "sslmode=disable",
		}
		if cfg.User != "" {
			if cfg.Password != "" {
				u.User = url.UserPassword(cfg.User, cfg.Password)
			} else {
				u.User = url.User(cfg.User)
			}
		}
		if cfg.Timeout > 0 {
			u.RawQuery += "&connect_timeout=" + strconv.Itoa(max(1, int(cfg.Timeout.Seconds())))
		}
		return u.String(), nil
	case DriverSQLite:
		return fmt.Sprintf("%s?_pragma=busy_timeout(%d)", cfg.Name, cfg.Timeout.Milliseconds()), nil
	default:
		return "", errors.New(errors.ErrDB,
			fmt.Sprintf("Unsupported database driver '%s'", cfg.Driver),
			"Set DB_DRIVER to postgres or sqlite")
	}
}

// Connectivity pings the database.
func (s *Source) Connectivity(ctx context.Context) dashboard.Connectivity {
	c := dashboard.Connectivity{Host: s.host(), Database: s.cfg.Name}
	if err := s.db.PingContext(ctx); err != nil {
		c.Err = err
		return c
	}
	c.Connected = true
	return c
}

func (s *Source) host() string {
	if s.cfg.Driver == DriverSQLite {
		return "local"
	}
	return s.cfg.Host
}

// Entities returns the configured tables, or every table in the database
// when none are configured.
func (s *Source) Entities(ctx context.Context) ([]string, error) {
	if len(s.cfg.Tables) > 0 {
		return append([]string(nil), s.cfg.Tables...), nil
	}

	query := listPostgresTables
	if s.cfg.Driver == DriverSQLite {
		query = listSQLiteTables
	}

	var names []string
	if err := s.db.SelectContext(ctx, &names, query); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDB,
			"Cannot list tables",
			"Set DB_TABLES to the tables to count")
	}
	return names, nil
}

// Count returns the number of rows in one table.
func (s *Source) Count(ctx context.Context, name string) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+QuoteIdent(name)); err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrDB,
			"Cannot count "+name, "")
	}
	return n, nil
}

// DB exposes the pool for the HTTP health check.
func (s *Source) DB() *sqlx.DB {
	return s.db
}

// Close closes the pool.
func (s *Source) Close() error {
	return s.db.Close()
}

// QuoteIdent double-quotes an identifier for PostgreSQL and SQLite.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
