// internal/server/server.go

package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/maithilyrajpure/trend-decline-gen/internal/config"
	"github.com/maithilyrajpure/trend-decline-gen/internal/server/handlers"
)

// Deps are the services the HTTP API is built on. Catalog, History, Events
// and Watchlist are optional; their routes are only mounted when set.
type Deps struct {
	Reporter  handlers.Reporter
	Catalog   handlers.Catalog
	History   handlers.History
	Events    handlers.Subscriber
	Watchlist handlers.Watchlist
	Logger    *slog.Logger
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewRouter builds the API routes
func NewRouter(cfg config.ServerConfig, deps Deps) *chi.Mux {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	trendHandler := handlers.NewTrendHandler(deps.Reporter, deps.Catalog, deps.History, deps.Logger)
	trendHandler.Watchlist = deps.Watchlist

	router.Group(func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
		}

		r.Get("/health", trendHandler.Health)
		r.Get("/platforms", trendHandler.GetPlatforms)
		r.Post("/analyze-trend", trendHandler.AnalyzeTrend)
		r.Get("/trends", trendHandler.GetTrends)

		if deps.History != nil {
			r.Get("/analyses", trendHandler.GetAnalyses)
		}
		if deps.Watchlist != nil {
			r.Get("/watchlist", trendHandler.GetWatchlist)
		}
	})

	// WebSocket endpoint for live analysis events
	if deps.Events != nil {
		router.Get("/ws/analyses", handlers.AnalysisStreamHandler(deps.Events, deps.Logger))
	}

	return router
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	router := NewRouter(cfg, deps)

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
