// Package server exposes the seeding pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz         liveness probe
//	POST /v1/runs         run the pipeline on an event JSON body
//	GET  /v1/runs         list recent runs (?limit=N)
//	GET  /v1/runs/{id}    fetch a stored run
//	GET  /metrics         Prometheus metrics, when a metrics handler is set
//
// POST /v1/runs accepts the overrides ?min_hits=N, ?triplets=true and
// ?refresh=true on top of the server's default options.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tricktrack/pkg/pipeline"
	"github.com/matzehuels/tricktrack/pkg/store"
)

const (
	// DefaultMaxBodyBytes bounds the size of a submitted event.
	DefaultMaxBodyBytes = 32 << 20

	// MaxListLimit bounds ?limit on GET /v1/runs.
	MaxListLimit = 100

	shutdownTimeout = 10 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	defaults pipeline.Options
	logger   *log.Logger

	metrics      http.Handler
	maxBodyBytes int64
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBodyBytes = n }
}

// New creates a server. Every run starts from a copy of defaults.
func New(runner *pipeline.Runner, st store.Store, defaults pipeline.Options, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:       runner,
		store:        st,
		defaults:     defaults.Clone(),
		logger:       logger,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/v1/runs", func(r chi.Router) {
		r.Post("/", s.handleCreateRun)
		r.Get("/", s.handleListRuns)
		r.Get("/{id}", s.handleGetRun)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
