package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alanyoungcy/sportsarb/internal/catalog"
	"github.com/alanyoungcy/sportsarb/internal/domain"
	"github.com/alanyoungcy/sportsarb/internal/server/handler"
	"github.com/alanyoungcy/sportsarb/internal/server/middleware"
	"github.com/alanyoungcy/sportsarb/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host           string
	Port           int
	CORSOrigins    []string
	APIKey         string // empty disables authentication
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
}

// Deps are the read-side collaborators behind the API.
type Deps struct {
	Latest   handler.SnapshotReader
	Store    domain.OpportunityStore // optional
	Catalogs *catalog.Registry
	Hub      *ws.Hub // optional
	Checks   map[string]handler.Pinger
}

// Server is the read-only HTTP and WebSocket API for scan results.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer builds the router and the underlying http.Server.
func NewServer(cfg Config, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           NewRouter(cfg, deps, logger),
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger.With(slog.String("component", "server")),
	}
}

// NewRouter registers every route on a chi router.
func NewRouter(cfg Config, deps Deps, logger *slog.Logger) http.Handler {
	health := handler.NewHealthHandler(deps.Checks, logger)
	opps := handler.NewOpportunityHandler(deps.Latest, deps.Store, logger)
	cats := handler.NewCatalogHandler(deps.Catalogs, logger)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	r.Use(middleware.Auth(cfg.APIKey, "/api/health", "/metrics"))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(timeout))
		r.Get("/health", health.HealthCheck)
		r.Get("/opportunities", opps.Latest)
		r.Get("/opportunities/recent", opps.Recent)
		r.Get("/catalog", cats.ListSports)
		r.Get("/catalog/{sport}", cats.GetCatalog)
	})

	if deps.Hub != nil {
		r.Get("/ws", deps.Hub.HandleWS)
	}

	return r
}

// Start listens until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the ctx deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
