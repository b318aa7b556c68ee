package cli

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rileyhilliard/campus/internal/config"
	"github.com/rileyhilliard/campus/internal/store"
	"github.com/stretchr/testify/require"
)

// bufferTerminal is a fixed-width terminal that records output.
type bufferTerminal struct {
	mu    sync.Mutex
	buf   strings.Builder
	width int
}

func (b *bufferTerminal) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *bufferTerminal) Width() (int, error) {
	return b.width, nil
}

func (b *bufferTerminal) Resized() (<-chan struct{}, func()) {
	return nil, func() {}
}

func (b *bufferTerminal) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testConfig returns a config over a fresh SQLite file with quiet,
// fast panel settings and an ephemeral port.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 2 * time.Second
	cfg.Database.Name = filepath.Join(t.TempDir(), "school_admin.db")
	cfg.Database.Timeout = 2 * time.Second
	cfg.Panel.Width = 60
	cfg.Panel.Interval = 20 * time.Millisecond
	cfg.Panel.Intro = 0
	cfg.Features.RequestLog = false
	cfg.Log.Dir = ""
	return cfg
}

// seed creates tables in the config's SQLite database.
func seed(t *testing.T, cfg *config.Config, users int) {
	t.Helper()
	src, err := store.Open(cfg.Database)
	require.NoError(t, err)
	defer src.Close()

	ctx := context.Background()
	src.DB().MustExecContext(ctx, `CREATE TABLE "Users" (id INTEGER PRIMARY KEY, name TEXT)`)
	for i := 0; i < users; i++ {
		src.DB().MustExecContext(ctx, `INSERT INTO "Users" (name) VALUES (?)`, "user")
	}
}
