// Package api exposes a read-only HTTP inspection surface over a Bron v2
// container: record listing, per-record JSON views and the container
// version marker. The API never writes the container.
package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gwdata/bron2/pkg/hstore"
)

// Server holds the API server state
type Server struct {
	store   *hstore.Store
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server
func NewServer(store *hstore.Store, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		store:   store,
		config:  config,
		metrics: metrics,
	}
}

// Router builds the chi router with all routes configured
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey))

		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))
		r.Get("/version", s.metrics.InstrumentHandler("GET", "/api/v1/version", s.handleVersion))
		r.Get("/wells", s.metrics.InstrumentHandler("GET", "/api/v1/wells", s.handleListWells))
		r.Get("/wells/{key}", s.metrics.InstrumentHandler("GET", "/api/v1/wells/{key}", s.handleGetWell))
	})

	return r
}

// StartServer starts the HTTP server with all routes configured
func StartServer(store *hstore.Store, config ServerConfig) error {
	metrics := NewMetrics()
	server := NewServer(store, config, metrics)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	log.Printf("bron2 API listening on %s", addr)
	return http.ListenAndServe(addr, server.Router())
}
