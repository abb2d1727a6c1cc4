package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Minute))

	r.Get("/metrics", promhttp.Handler().(http.HandlerFunc))
	r.Get("/api/health", s.handleHealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/scrape", s.handleScrape)
		r.Post("/scrape", s.handleScheduleScrape)
		r.Get("/price-comparison", s.handlePriceComparison)
		r.Post("/price-comparison", s.handleSchedulePriceComparison)
		r.Get("/jobs/{id}", s.handleJobStatus)
	})

	return r
}
