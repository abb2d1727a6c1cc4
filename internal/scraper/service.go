// Package scraper orchestrates the multi-store pipeline: one store crawl
// at a time through the pager, normalization, comparison generation, and
// sink writes, plus a background job queue for fire-and-forget runs.
package scraper

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"pricewatch/internal/compare"
	"pricewatch/internal/config"
	"pricewatch/internal/domain"
	"pricewatch/internal/monitoring"
	"pricewatch/internal/normalize"
	"pricewatch/internal/registry"
	"pricewatch/internal/scrape"
)

// DocumentStore persists one named JSON document per call.
type DocumentStore interface {
	Put(ctx context.Context, name string, v any) error
}

// JobStore records the status of background jobs.
type JobStore interface {
	SetJob(ctx context.Context, status *domain.JobStatus, ttl time.Duration) error
	GetJob(ctx context.Context, id string) (*domain.JobStatus, error)
}

// Session is one store's browser session. Satisfied by *fetch.Session.
type Session interface {
	scrape.Fetcher
	Close()
}

// SessionFactory opens a fresh browser session for a store crawl.
type SessionFactory func() (Session, error)

// Job is one background scrape or compare submission.
type Job struct {
	ID       string
	Kind     string
	Store    string // store id or "all"
	Category string
}

// ErrQueueFull is returned by Submit when the job queue has no room.
var ErrQueueFull = errors.New("job queue full")

// Service runs the scrape pipeline. Stores are crawled strictly one at a
// time with an inter-store delay; each crawl exclusively owns its browser
// session and releases it on every path.
type Service struct {
	cfg        *config.Config
	registry   *registry.Registry
	newSession SessionFactory
	docs       []DocumentStore
	jobs       JobStore
	metrics    *monitoring.Metrics
	logger     *zap.Logger

	jobQueue chan Job
	stopChan chan struct{}
	baseCtx  context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewService(cfg *config.Config, reg *registry.Registry, sessions SessionFactory, docs []DocumentStore, jobs JobStore, m *monitoring.Metrics, l *zap.Logger) *Service {
	baseCtx, cancel := context.WithCancel(context.Background())
	return &Service{
		cfg:        cfg,
		registry:   reg,
		newSession: sessions,
		docs:       docs,
		jobs:       jobs,
		metrics:    m,
		logger:     l,
		jobQueue:   make(chan Job, cfg.JobQueueSize),
		stopChan:   make(chan struct{}),
		baseCtx:    baseCtx,
		cancel:     cancel,
	}
}

// Start launches the single background worker. One worker keeps the
// sequential one-store-at-a-time policy for queued jobs too.
func (s *Service) Start() {
	s.wg.Add(1)
	go s.worker()
}

// Stop cancels any in-flight crawl and waits for the worker to drain.
func (s *Service) Stop() {
	close(s.stopChan)
	s.cancel()
	s.wg.Wait()
}

// Registry exposes the store table for request validation.
func (s *Service) Registry() *registry.Registry {
	return s.registry
}

// ScrapeStore crawls one store synchronously and returns its normalized
// products. A fetch fault partway through still returns the pages already
// gathered, alongside the fault.
func (s *Service) ScrapeStore(ctx context.Context, storeID, category string) ([]domain.NormalizedProduct, error) {
	store, err := s.registry.Lookup(storeID)
	if err != nil {
		return nil, err
	}
	if category == "" {
		category = s.cfg.DefaultCategory
	}

	sess, err := s.newSession()
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	s.logger.Info("starting store crawl",
		zap.String("store", storeID), zap.String("category", category))
	start := time.Now()

	pager := scrape.NewPager(sess, store, scrape.PagerOptions{
		PageDelay:  s.cfg.PageDelay(),
		MaxRetries: s.cfg.MaxRetries,
		Metrics:    s.metrics,
		Logger:     s.logger,
	})
	raws, crawlErr := pager.Crawl(ctx, category)
	products := s.normalizeAll(storeID, raws)

	s.metrics.ObserveScrapeDuration(storeID, time.Since(start).Seconds())
	s.logger.Info("store crawl finished",
		zap.String("store", storeID),
		zap.Int("products", len(products)),
		zap.Bool("clean", crawlErr == nil))

	return products, crawlErr
}

// ScrapeAll crawls every configured store in registry order. A faulting
// store contributes an empty product list and never aborts the run; only
// cancellation stops it early.
func (s *Service) ScrapeAll(ctx context.Context, category string) (map[string][]domain.NormalizedProduct, error) {
	ids := s.registry.StoreIDs()
	all := make(map[string][]domain.NormalizedProduct, len(ids))

	for i, storeID := range ids {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		if i > 0 {
			if err := sleepCtx(ctx, s.cfg.StoreDelay()); err != nil {
				return all, err
			}
		}
		products, err := s.ScrapeStore(ctx, storeID, category)
		if err != nil {
			if ctx.Err() != nil {
				all[storeID] = []domain.NormalizedProduct{}
				return all, ctx.Err()
			}
			s.logger.Warn("store crawl failed, continuing with remaining stores",
				zap.String("store", storeID), zap.Error(err))
			all[storeID] = []domain.NormalizedProduct{}
			continue
		}
		all[storeID] = products
	}
	return all, nil
}

// CompareAll scrapes every store and builds the cross-store comparisons,
// optionally filtered by case-insensitive name and brand substrings.
func (s *Service) CompareAll(ctx context.Context, category, nameFilter, brandFilter string) ([]domain.PriceComparison, error) {
	all, err := s.ScrapeAll(ctx, category)
	if err != nil {
		return nil, err
	}
	comparisons := compare.Comparisons(all, compare.Options{
		OperatorStore: s.cfg.OperatorStore,
		StoreOrder:    s.registry.StoreIDs(),
	})
	s.metrics.AddComparisonsGenerated(len(comparisons))
	return compare.Filter(comparisons, nameFilter, brandFilter), nil
}

func (s *Service) normalizeAll(storeID string, raws []domain.RawProduct) []domain.NormalizedProduct {
	products := make([]domain.NormalizedProduct, 0, len(raws))
	for _, raw := range raws {
		product, err := normalize.Product(raw)
		if err != nil {
			s.metrics.IncNormalizationRejects(storeID)
			s.logger.Debug("dropped record with unparsable price",
				zap.String("store", storeID),
				zap.String("name", raw.Name),
				zap.String("price_text", raw.PriceText))
			continue
		}
		products = append(products, product)
	}
	return products
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func newJobID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
