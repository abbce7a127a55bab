// Package api serves the synthesis engine over HTTP: one-shot
// synthesis and part list extraction from posted project files, plus a
// store-backed project library.
//
// # Routes
//
//	POST   /api/synthesize       project file in, model JSON out
//	POST   /api/partlist         project file in, aggregated parts out
//	GET    /api/projects         saved project index, newest first
//	POST   /api/projects         save under a fresh id
//	PUT    /api/projects/{id}    save under a known id
//	GET    /api/projects/{id}    load a saved project
//	DELETE /api/projects/{id}
//	GET    /healthz
//
// Project files post as TOML (the native format) or JSON when the
// Content-Type says so. Validation failures map to 400, missing records
// to 404, everything else to 500, always as a structured error body.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/baleframe/baleframe/pkg/cache"
	"github.com/baleframe/baleframe/pkg/construct"
	"github.com/baleframe/baleframe/pkg/errors"
	"github.com/baleframe/baleframe/pkg/store"
)

// DefaultAddr is the listen address when the config leaves it empty.
const DefaultAddr = ":8080"

// Config wires the server's collaborators. Zero values get working
// defaults: an in-memory project store, no model cache, the standard
// logger.
type Config struct {
	// Addr is the listen address, host:port.
	Addr string

	// Store persists saved projects.
	Store store.Store

	// Cache backs the synthesis model cache across requests.
	Cache cache.Cache

	// Logger receives request and synthesis logs.
	Logger *log.Logger
}

// Server is the HTTP front end of the engine. Create one with [New];
// the zero value is unusable.
type Server struct {
	addr    string
	store   store.Store
	builder *construct.Builder
	logger  *log.Logger
}

// New builds a server from the config, applying defaults for unset
// collaborators.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Server{
		addr:    cfg.Addr,
		store:   cfg.Store,
		builder: construct.NewBuilder(cfg.Cache, nil, cfg.Logger),
		logger:  cfg.Logger,
	}
}

// Handler returns the routed handler with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logRequests(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/synthesize", s.handleSynthesize)
		r.Post("/partlist", s.handlePartList)
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.handleListProjects)
			r.Post("/", s.handleCreateProject)
			r.Put("/{id}", s.handlePutProject)
			r.Get("/{id}", s.handleGetProject)
			r.Delete("/{id}", s.handleDeleteProject)
		})
	})
	return r
}

// Serve listens on the configured address until ctx is canceled, then
// drains in-flight requests before returning.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("api listening", "addr", s.addr)

	select {
	case err := <-errc:
		return errors.Wrap(errors.ErrCodeInternal, err, "serve api")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "shutdown api")
	}
	s.logger.Info("api stopped")
	return nil
}
