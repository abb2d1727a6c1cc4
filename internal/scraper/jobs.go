package scraper

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pricewatch/internal/domain"
)

// Submit queues a background job and records it as queued. The caller
// gets the acknowledgement immediately; outcome goes to the sink and the
// job status record, never back to the caller.
func (s *Service) Submit(job Job) (*domain.JobStatus, error) {
	if job.ID == "" {
		job.ID = newJobID()
	}
	if job.Category == "" {
		job.Category = s.cfg.DefaultCategory
	}

	status := &domain.JobStatus{
		ID:          job.ID,
		Kind:        job.Kind,
		Store:       job.Store,
		Category:    job.Category,
		State:       domain.JobQueued,
		SubmittedAt: time.Now().UTC(),
	}
	s.setJobStatus(status)

	select {
	case s.jobQueue <- job:
		return status, nil
	default:
		status.State = domain.JobFailed
		status.Error = ErrQueueFull.Error()
		s.setJobStatus(status)
		return nil, ErrQueueFull
	}
}

// JobStatus looks up a background job's status record.
func (s *Service) JobStatus(ctx context.Context, id string) (*domain.JobStatus, error) {
	if s.jobs == nil {
		return nil, domain.ErrJobNotFound
	}
	return s.jobs.GetJob(ctx, id)
}

func (s *Service) worker() {
	defer s.wg.Done()
	for {
		select {
		case job := <-s.jobQueue:
			s.runJob(job)
		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) runJob(job Job) {
	logger := s.logger.With(
		zap.String("job_id", job.ID),
		zap.String("kind", job.Kind),
		zap.String("store", job.Store))
	logger.Info("background job started")

	status := &domain.JobStatus{
		ID:          job.ID,
		Kind:        job.Kind,
		Store:       job.Store,
		Category:    job.Category,
		State:       domain.JobRunning,
		SubmittedAt: time.Now().UTC(),
	}
	s.setJobStatus(status)

	documents, err := s.execute(s.baseCtx, job)

	now := time.Now().UTC()
	status.CompletedAt = &now
	status.Documents = documents
	if err != nil {
		status.State = domain.JobFailed
		status.Error = err.Error()
		logger.Warn("background job failed", zap.Error(err))
	} else {
		status.State = domain.JobCompleted
		logger.Info("background job completed", zap.Strings("documents", documents))
	}
	s.setJobStatus(status)
}

func (s *Service) execute(ctx context.Context, job Job) ([]string, error) {
	switch job.Kind {
	case domain.JobKindCompare:
		return s.runCompareJob(ctx, job)
	default:
		return s.runScrapeJob(ctx, job)
	}
}

func (s *Service) runScrapeJob(ctx context.Context, job Job) ([]string, error) {
	if job.Store == "all" {
		all, err := s.ScrapeAll(ctx, job.Category)
		if err != nil {
			return nil, err
		}
		var written []string
		for storeID, products := range all {
			name := productsDocName(storeID, job.Category)
			if err := s.writeDocument(ctx, name, products); err != nil {
				return written, err
			}
			written = append(written, name)
		}
		if err := s.writeDocument(ctx, allProductsDoc, all); err != nil {
			return written, err
		}
		return append(written, allProductsDoc), nil
	}

	products, err := s.ScrapeStore(ctx, job.Store, job.Category)
	if err != nil {
		return nil, err
	}
	name := productsDocName(job.Store, job.Category)
	if err := s.writeDocument(ctx, name, products); err != nil {
		return nil, err
	}
	return []string{name}, nil
}

func (s *Service) runCompareJob(ctx context.Context, job Job) ([]string, error) {
	comparisons, err := s.CompareAll(ctx, job.Category, "", "")
	if err != nil {
		return nil, err
	}
	if err := s.writeDocument(ctx, comparisonsDoc, comparisons); err != nil {
		return nil, err
	}
	return []string{comparisonsDoc}, nil
}

// Well-known sink document names; the external consumer reads these.
const (
	allProductsDoc = "all_products"
	comparisonsDoc = "price_comparisons"
)

func productsDocName(storeID, category string) string {
	return fmt.Sprintf("%s_%s_products", storeID, category)
}

// writeDocument fans the document out to every configured sink. A sink
// failure is fatal for the cycle's persistence step but the computed
// results stay valid in memory.
func (s *Service) writeDocument(ctx context.Context, name string, v any) error {
	for _, store := range s.docs {
		if err := store.Put(ctx, name, v); err != nil {
			return fmt.Errorf("sink write %s: %w", name, err)
		}
	}
	return nil
}

func (s *Service) setJobStatus(status *domain.JobStatus) {
	if s.jobs == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.jobs.SetJob(ctx, status, s.cfg.JobStatusTTL()); err != nil {
		s.logger.Warn("failed to record job status",
			zap.String("job_id", status.ID), zap.Error(err))
	}
}
