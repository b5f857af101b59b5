// Package web serves the MoodTunes JSON API.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/justestif/moodtunes/internal/artwork"
	"github.com/justestif/moodtunes/internal/catalog"
	"github.com/justestif/moodtunes/internal/eras"
	"github.com/justestif/moodtunes/internal/metrics"
	"github.com/justestif/moodtunes/internal/store"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

// ServerConfig holds server configuration and collaborators.
type ServerConfig struct {
	Addr    string
	Store   *store.Store
	Catalog *catalog.Service
	Artwork *artwork.Loader
	Eras    *eras.Service
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// Server is the HTTP server for the API.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Store == nil || cfg.Catalog == nil || cfg.Eras == nil {
		return nil, errors.New("store, catalog and eras are required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Artwork == nil {
		cfg.Artwork = artwork.New(artwork.WithLogger(cfg.Logger), artwork.WithMetrics(cfg.Metrics))
	}

	router := chi.NewRouter()

	s := &Server{
		router:   router,
		handlers: NewHandlers(cfg.Store, cfg.Catalog, cfg.Artwork, cfg.Eras, cfg.Logger),
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	// Request contexts derive from base so open log streams end on shutdown.
	// WriteTimeout stays unset for the same streams.
	base, cancel := context.WithCancel(context.Background())
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
	s.server.RegisterOnShutdown(cancel)

	return s, nil
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger, s.metrics))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes() {
	h := s.handlers

	s.router.Get("/healthz", h.Health)
	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/moods", h.Moods)
		r.Get("/moods/{mood}/tracks", h.Tracks)

		r.Route("/logs", func(r chi.Router) {
			r.Get("/", h.ListLogs)
			r.Post("/", h.CreateLog)
			r.Get("/stream", h.StreamLogs)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetLog)
				r.Patch("/", h.UpdateNote)
				r.Delete("/", h.DeleteLog)
				r.Post("/favorite", h.ToggleFavorite)
				r.Get("/cover", h.Cover)
			})
		})

		r.Get("/stats", h.Stats)
		r.Get("/analysis", h.Analysis)
		r.Get("/eras", h.Eras)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("url", "http://"+s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and shuts it down gracefully when ctx is done or an
// interrupt signal arrives.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
