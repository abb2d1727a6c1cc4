package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pricewatch/internal/domain"
	"pricewatch/internal/scraper"
)

type scheduleRequest struct {
	Store    string `json:"store"`
	Category string `json:"category"`
}

// handleScrape runs a synchronous scrape for one store or all of them.
// A faulting store leaves its product list empty; the caller still gets
// everything the crawl gathered, with success reporting the overall
// clean/faulted state.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	store := r.URL.Query().Get("store")
	if store == "" {
		store = "all"
	}
	category := r.URL.Query().Get("category")
	if category == "" {
		category = s.config.DefaultCategory
	}

	if store == "all" {
		all, err := s.scraper.ScrapeAll(r.Context(), category)
		if err != nil {
			s.respondWithError(w, http.StatusInternalServerError, "Scraping failed: "+err.Error())
			return
		}
		count := 0
		for _, products := range all {
			count += len(products)
		}
		s.respondWithJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"store":        store,
			"category":     category,
			"productCount": count,
			"products":     all,
			"scrapedAt":    time.Now().UTC(),
		})
		return
	}

	products, err := s.scraper.ScrapeStore(r.Context(), store, category)
	if err != nil && errors.Is(err, domain.ErrUnknownStore) {
		s.respondWithError(w, http.StatusBadRequest, "Unknown store: "+store)
		return
	}
	if products == nil {
		products = []domain.NormalizedProduct{}
	}
	s.respondWithJSON(w, http.StatusOK, map[string]any{
		"success":      err == nil,
		"store":        store,
		"category":     category,
		"productCount": len(products),
		"products":     products,
		"scrapedAt":    time.Now().UTC(),
	})
}

// handleScheduleScrape accepts a fire-and-forget scrape. The response is
// only the acknowledgement; outcome lands in the sink and the job record.
func (s *Server) handleScheduleScrape(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Store == "" {
		s.respondWithError(w, http.StatusBadRequest, "Store is required")
		return
	}
	if req.Store != "all" {
		if _, err := s.scraper.Registry().Lookup(req.Store); err != nil {
			s.respondWithError(w, http.StatusBadRequest, "Unknown store: "+req.Store)
			return
		}
	}

	status, err := s.scraper.Submit(scraper.Job{
		Kind:     domain.JobKindScrape,
		Store:    req.Store,
		Category: req.Category,
	})
	if err != nil {
		s.respondWithError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusAccepted, map[string]any{
		"success":     true,
		"message":     "Scraping started for " + req.Store,
		"jobId":       status.ID,
		"scheduledAt": status.SubmittedAt,
	})
}

// handlePriceComparison scrapes every store and returns the cross-store
// comparisons, optionally filtered by product name and brand substrings.
func (s *Server) handlePriceComparison(w http.ResponseWriter, r *http.Request) {
	product := r.URL.Query().Get("product")
	brand := r.URL.Query().Get("brand")

	comparisons, err := s.scraper.CompareAll(r.Context(), s.config.DefaultCategory, product, brand)
	if err != nil {
		s.logger.Error("price comparison failed", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Price comparison failed")
		return
	}
	if comparisons == nil {
		comparisons = []domain.PriceComparison{}
	}

	s.respondWithJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"comparisons":      comparisons,
		"totalComparisons": len(comparisons),
		"scrapedAt":        time.Now().UTC(),
	})
}

func (s *Server) handleSchedulePriceComparison(w http.ResponseWriter, r *http.Request) {
	status, err := s.scraper.Submit(scraper.Job{Kind: domain.JobKindCompare, Store: "all"})
	if err != nil {
		s.respondWithError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusAccepted, map[string]any{
		"success":     true,
		"message":     "Price comparison started",
		"jobId":       status.ID,
		"scheduledAt": status.SubmittedAt,
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status, err := s.scraper.JobStatus(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			s.respondWithError(w, http.StatusNotFound, "Job not found")
			return
		}
		s.logger.Error("failed to read job status", zap.String("job_id", id), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not retrieve job status")
		return
	}
	s.respondWithJSON(w, http.StatusOK, status)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	healthStatus := map[string]string{"redis": "healthy"}
	if err := s.redisStore.Ping(ctx); err != nil {
		healthStatus["redis"] = "unhealthy"
		s.logger.Error("health check failed for redis", zap.Error(err))
		s.respondWithJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}

	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

// --- Helper Functions ---

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
