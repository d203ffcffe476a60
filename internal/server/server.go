// Package server exposes the metadata resolver and the bundle store over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/aleister1102/urlist/internal/config"
	"github.com/aleister1102/urlist/internal/datastore"
	"github.com/aleister1102/urlist/internal/health"
	"github.com/aleister1102/urlist/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// MetadataResolver fetches Open Graph metadata for a URL.
type MetadataResolver interface {
	Resolve(ctx context.Context, rawURL string) (models.OpenGraphMetadata, error)
}

// BundleStore persists bundles and their links.
type BundleStore interface {
	CreateBundle(ctx context.Context, in datastore.NewBundle) (*models.Bundle, error)
	GetBundleByVanity(ctx context.Context, vanity string) (*models.Bundle, error)
	ListBundlesByUser(ctx context.Context, userID string) ([]models.Bundle, error)
	UpdateBundle(ctx context.Context, id string, upd datastore.BundleUpdate) (*models.Bundle, error)
	DeleteBundle(ctx context.Context, id string) error
	AddLink(ctx context.Context, bundleID string, in models.LinkInput) (*models.Link, error)
	UpdateLink(ctx context.Context, bundleID, linkID string, upd datastore.LinkUpdate) (*models.Link, error)
	DeleteLink(ctx context.Context, bundleID, linkID string) error
	IsVanityAvailable(ctx context.Context, vanity, excludeID string) (bool, error)
}

// Server is the HTTP front end.
type Server struct {
	cfg        config.ServerConfig
	vanityCfg  config.VanityConfig
	resolver   MetadataResolver
	store      BundleStore
	monitor    *health.Monitor
	registry   *prometheus.Registry
	metrics    *httpMetrics
	validate   *validator.Validate
	router     chi.Router
	logger     zerolog.Logger

	mu         sync.Mutex
	httpServer *http.Server
}

// Option customizes a Server
type Option func(*Server)

// WithRegistry serves /metrics from reg and records HTTP metrics on it.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithVanityConfig sets how generated vanity URLs look.
func WithVanityConfig(cfg config.VanityConfig) Option {
	return func(s *Server) { s.vanityCfg = cfg }
}

// New wires the routes for resolver and store.
func New(cfg config.ServerConfig, resolver MetadataResolver, store BundleStore, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		cfg:       cfg,
		vanityCfg: config.NewDefaultVanityConfig(),
		resolver:  resolver,
		store:     store,
		monitor:   health.NewMonitor(),
		validate:  validator.New(),
		logger:    logger.With().Str("component", "HTTPServer").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	if s.cfg.UserHeader == "" {
		s.cfg.UserHeader = config.DefaultServerUserHeader
	}
	if s.cfg.MaxBodyBytes <= 0 {
		s.cfg.MaxBodyBytes = config.DefaultServerMaxBodyBytes
	}
	s.metrics = newHTTPMetrics(s.registry)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/oginfo", s.handleOGInfo)
		r.Get("/opengraph", s.handleOpenGraph)
		r.Get("/vanity/{vanity}/available", s.handleVanityAvailable)

		r.Route("/bundles", func(r chi.Router) {
			r.Get("/{vanity}", s.handleGetBundle)

			r.Group(func(r chi.Router) {
				r.Use(s.requireUser)
				r.Post("/", s.handleCreateBundle)
				r.Get("/", s.handleListBundles)
				r.Put("/{vanity}", s.handleUpdateBundle)
				r.Delete("/{vanity}", s.handleDeleteBundle)
				r.Post("/{vanity}/links", s.handleAddLink)
				r.Put("/{vanity}/links/{linkID}", s.handleUpdateLink)
				r.Delete("/{vanity}/links/{linkID}", s.handleDeleteLink)
			})
		})
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln.
func (s *Server) Serve(ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout(),
		WriteTimeout: s.cfg.WriteTimeout(),
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.logger.Info().Msg("Shutting down HTTP server")
	return srv.Shutdown(ctx)
}
