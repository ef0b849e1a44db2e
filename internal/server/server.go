// Package server exposes the playback pipeline as an HTTP API.
//
// The API mirrors the CLI: POST /v1/simulate runs the full
// build → layout → run → export pipeline, POST /v1/layout computes
// positions only, and GET /v1/runs serves the archive of completed runs.
// Archived runs are kept in MongoDB or local JSON files when configured,
// otherwise in memory.
//
// # Endpoints
//
//   - POST /v1/simulate: run a sequence, archive and return the snapshot
//   - POST /v1/layout: compute node positions for a graph
//   - GET /v1/runs: list archived runs, newest first
//   - GET /v1/runs/{id}: fetch one archived run
//   - GET /healthz: liveness probe
//   - GET /metrics: prometheus exposition
//
// # Usage
//
//	runner := playback.NewRunner(cache, nil, logger)
//	srv := server.New(server.DefaultConfig(), runner, server.NewMemoryStore(), logger)
//	err := srv.ListenAndServe(ctx)
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pulsegraph/pkg/playback"
)

// shutdownTimeout bounds how long a graceful shutdown may take.
const shutdownTimeout = 10 * time.Second

// Server wires the playback runner, the run archive, and the metrics
// collectors behind a chi router.
type Server struct {
	cfg     Config
	runner  *playback.Runner
	runs    RunStore
	logger  *log.Logger
	metrics *Metrics
}

// New creates a server. A nil runner gets an uncached default, a nil
// store falls back to memory, and a nil logger falls back to the default.
func New(cfg Config, runner *playback.Runner, runs RunStore, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = playback.NewRunner(nil, nil, logger)
	}
	if runs == nil {
		runs = NewMemoryStore()
	}
	return &Server{
		cfg:     cfg,
		runner:  runner,
		runs:    runs,
		logger:  logger,
		metrics: NewMetrics(),
	}
}

// Metrics returns the server's prometheus collectors, for hook
// registration by the serve path.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Router builds the HTTP handler with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/simulate", s.handleSimulate)
		r.Post("/layout", s.handleLayout)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})

	return r
}

// ListenAndServe runs the server until the context is cancelled, then
// shuts down gracefully. A clean shutdown returns nil.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	s.logger.Info("listening", "addr", s.cfg.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errc // always http.ErrServerClosed after Shutdown
	return nil
}
