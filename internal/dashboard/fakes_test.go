package dashboard

import (
	"context"
	"strings"
	"sync"
)

type fakeSource struct {
	conn        Connectivity
	entities    []string
	entitiesErr error
	counts      map[string]int64
	countErrs   map[string]error
	countFn     func(ctx context.Context, name string) (int64, error)

	mu         sync.Mutex
	countCalls int
}

func (f *fakeSource) Connectivity(context.Context) Connectivity {
	return f.conn
}

func (f *fakeSource) Entities(context.Context) ([]string, error) {
	return f.entities, f.entitiesErr
}

func (f *fakeSource) Count(ctx context.Context, name string) (int64, error) {
	f.mu.Lock()
	f.countCalls++
	f.mu.Unlock()
	if f.countFn != nil {
		return f.countFn(ctx, name)
	}
	if err := f.countErrs[name]; err != nil {
		return 0, err
	}
	return f.counts[name], nil
}

func (f *fakeSource) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countCalls
}

type fakeCache struct {
	addr string
	err  error
}

func (c fakeCache) Addr() string                 { return c.addr }
func (c fakeCache) Ping(context.Context) error { return c.err }

// stalledCache never answers; Ping returns only when ctx is done.
type stalledCache struct{}

func (stalledCache) Addr() string { return "blackhole:6379" }
func (stalledCache) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// ctxSource is connected while its ctx is still live.
type ctxSource struct{}

func (ctxSource) Connectivity(ctx context.Context) Connectivity {
	if err := ctx.Err(); err != nil {
		return Connectivity{Host: "localhost", Database: "school_admin", Err: err}
	}
	return Connectivity{Connected: true, Host: "localhost", Database: "school_admin"}
}

func (ctxSource) Entities(ctx context.Context) ([]string, error) {
	return []string{"Users"}, ctx.Err()
}

func (ctxSource) Count(ctx context.Context, _ string) (int64, error) {
	return 7, ctx.Err()
}

// staticSnap returns the same record every time.
type staticSnap struct {
	rec StatusRecord

	mu    sync.Mutex
	calls int
}

func (s *staticSnap) Collect(context.Context) StatusRecord {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.rec
}

func (s *staticSnap) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// gatedSnap blocks Collect until released.
type gatedSnap struct {
	rec     StatusRecord
	entered chan struct{}
	release chan struct{}
}

func newGatedSnap(rec StatusRecord) *gatedSnap {
	return &gatedSnap{rec: rec, entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedSnap) Collect(context.Context) StatusRecord {
	close(g.entered)
	<-g.release
	return g.rec
}

// fakeTerminal records everything written to it.
type fakeTerminal struct {
	mu           sync.Mutex
	buf          strings.Builder
	chunks       []string
	width        int
	widthErr     error
	events       chan struct{}
	unsubscribed int
}

func newFakeTerminal(width int) *fakeTerminal {
	return &fakeTerminal{width: width, events: make(chan struct{}, 1)}
}

func (t *fakeTerminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.Write(p)
	t.chunks = append(t.chunks, string(p))
	return len(p), nil
}

func (t *fakeTerminal) Width() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.widthErr
}

func (t *fakeTerminal) setWidth(w int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.width = w
}

func (t *fakeTerminal) Resized() (<-chan struct{}, func()) {
	return t.events, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.unsubscribed++
	}
}

func (t *fakeTerminal) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.String()
}

func (t *fakeTerminal) Writes() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.chunks...)
}

func (t *fakeTerminal) Unsubscribed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unsubscribed
}
