package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Ctsong73/fathom-microservice/internal/cache"
	"github.com/Ctsong73/fathom-microservice/internal/momentum"
	"github.com/Ctsong73/fathom-microservice/internal/pipeline"
	"github.com/Ctsong73/fathom-microservice/internal/store"
)

// Server exposes the fetch and momentum pipeline over HTTP.
type Server struct {
	orchestrator *pipeline.Orchestrator
	calculator   *momentum.Calculator
	cache        *cache.ResultCache
	store        store.Store
	httpServer   *http.Server
}

// New creates the HTTP server with all routes registered.
func New(port int, o *pipeline.Orchestrator, calc *momentum.Calculator, c *cache.ResultCache, st store.Store) *Server {
	s := &Server{
		orchestrator: o,
		calculator:   calc,
		cache:        c,
		store:        st,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/stocks/{symbol}/momentum", s.handleMomentum)
		r.Get("/fetch/all", s.handleFetchAll(false))
		r.Get("/fetch/refresh/all", s.handleFetchAll(true))
		r.Get("/fetch/refresh/{symbol}", s.handleFetch(true))
		r.Get("/fetch/{symbol}", s.handleFetch(false))
		r.Get("/cache/stats", s.handleCacheStats)
		r.Get("/cache/clear/all", s.handleCacheClearAll)
		r.Get("/cache/clear/{symbol}", s.handleCacheClear)
	})
	r.Get("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}
	return s
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	log.Printf("[INFO] http server listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
