// Package server is the campus HTTP surface: health, a fresh status
// snapshot as JSON, API docs and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/rileyhilliard/campus/internal/config"
	"github.com/rileyhilliard/campus/internal/dashboard"
	"github.com/rileyhilliard/campus/internal/errors"
	"github.com/rileyhilliard/campus/internal/logger"
)

// Options wires the server to the rest of campus.
type Options struct {
	Snapshotter dashboard.Snapshotter
	Info        dashboard.ServerInfo
	Version     string
	APIDocs     bool
	RequestLog  bool
	Logger      logger.Logger
}

// Server serves the HTTP routes.
type Server struct {
	cfg    config.ServerConfig
	opts   Options
	log    logger.Logger
	router chi.Router
	http   *http.Server

	mu      sync.Mutex
	ln      net.Listener
	serveCh chan error
}

// New builds the router. Nothing listens until Start.
func New(cfg config.ServerConfig, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	s := &Server{cfg: cfg, opts: opts, log: log}
	s.router = s.routes()
	s.http = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	if s.opts.RequestLog {
		r.Use(s.logRequests)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/v1/status", s.handleStatus)
	r.Method(http.MethodGet, "/metrics", MetricsHandler())
	if s.opts.APIDocs {
		r.Get("/api-docs.json", s.handleDocs)
		r.Get("/api-docs", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/api-docs.json", http.StatusFound)
		})
	}
	return r
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrServer,
			"Cannot listen on "+s.cfg.Addr(),
			"Choose another PORT or stop whatever is using it")
	}

	s.mu.Lock()
	s.ln = ln
	s.serveCh = make(chan error, 1)
	ch := s.serveCh
	s.mu.Unlock()

	go func() {
		err := s.http.Serve(ln)
		if err != nil && err != http.ErrServerClosed {
			s.log.Error("http server stopped: %v", err)
			ch <- err
		}
		close(ch)
	}()

	s.log.Info("listening on %s", ln.Addr())
	return nil
}

// Addr returns the bound address, which differs from the configured one
// when the port was 0.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return s.cfg.Addr()
	}
	return s.ln.Addr().String()
}

// Errors delivers an error if the server stops serving on its own. It is
// closed after a clean shutdown.
func (s *Server) Errors() <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serveCh
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return errors.WrapWithCode(err, errors.ErrServer,
			"HTTP server did not shut down cleanly",
			"Raise server.shutdown_timeout if requests need longer to finish")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	started := s.opts.Info.StartedAt
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": strings.TrimSpace(humanize.RelTime(started, time.Now(), "", "")),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.opts.Snapshotter == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "status unavailable"})
		return
	}

	start := time.Now()
	rec := s.opts.Snapshotter.Collect(r.Context())
	ObserveSnapshot(rec, time.Since(start))

	rec = dashboard.Redacted(rec)
	status := http.StatusOK
	if !rec.Connected {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, rec)
}

func (s *Server) handleDocs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newAPIDoc(s.docsInfo().BaseURL(), s.opts.Version))
}

// docsInfo is the configured server info with the port the listener
// actually bound, which differs when the configured port was 0.
func (s *Server) docsInfo() dashboard.ServerInfo {
	info := s.opts.Info
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		if addr, ok := s.ln.Addr().(*net.TCPAddr); ok {
			info.Port = addr.Port
		}
	}
	return info
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.log.Info("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
