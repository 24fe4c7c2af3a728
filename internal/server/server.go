// Package server exposes the layout engine over HTTP.
//
// Routes:
//
//	POST /v1/layout   lay out a graph document
//	GET  /healthz     liveness and build version
//	GET  /metrics     Prometheus metrics (when enabled)
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/strata/pkg/layout"
	"github.com/matzehuels/strata/pkg/pipeline"
)

// Default limits.
const (
	DefaultLayoutTimeout = 30 * time.Second
	DefaultMaxBodyBytes  = 8 << 20
)

// Config configures a [Server].
type Config struct {
	Addr string
	// Defaults fills the layout fields a request leaves out.
	Defaults layout.Config
	// LayoutTimeout bounds a single layout request.
	LayoutTimeout time.Duration
	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64
	Version      string

	Runner *pipeline.Runner
	Logger *log.Logger
	// Metrics enables /metrics. It is not installed as hooks by the server.
	Metrics *Metrics
}

// Server is the HTTP front end of the layout engine.
type Server struct {
	cfg    Config
	router chi.Router
	logger *log.Logger
}

// New builds a server and its routes.
func New(cfg Config) *Server {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.LayoutTimeout <= 0 {
		cfg.LayoutTimeout = DefaultLayoutTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Defaults == (layout.Config{}) {
		cfg.Defaults = layout.DefaultConfig()
	}

	s := &Server{cfg: cfg, logger: cfg.Logger}
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/layout", s.handleLayout)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener. Requests in flight when ctx is
// cancelled run to completion within the shutdown grace period; their
// contexts carry ctx's values but not its cancellation.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	base := context.WithoutCancel(ctx)
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
