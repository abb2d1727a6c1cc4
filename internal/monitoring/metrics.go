package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	PagesFetched         *prometheus.CounterVec
	ProductsExtracted    *prometheus.CounterVec
	ExtractionSkips      *prometheus.CounterVec
	NormalizationRejects *prometheus.CounterVec
	FetchErrors          *prometheus.CounterVec
	ScrapeDuration       *prometheus.HistogramVec
	ComparisonsGenerated prometheus.Counter
}

// NewMetrics registers the metric set with reg. Tests pass their own
// registry to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PagesFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pricewatch_pages_fetched_total",
			Help: "The total number of listing pages fetched",
		}, []string{"store"}),
		ProductsExtracted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pricewatch_products_extracted_total",
			Help: "The total number of raw products extracted",
		}, []string{"store"}),
		ExtractionSkips: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pricewatch_extraction_skips_total",
			Help: "Product nodes skipped for missing name or price",
		}, []string{"store"}),
		NormalizationRejects: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pricewatch_normalization_rejects_total",
			Help: "Raw products rejected for an unparsable price",
		}, []string{"store"}),
		FetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pricewatch_fetch_errors_total",
			Help: "The total number of page fetch failures",
		}, []string{"store", "type"}), // e.g. 'navigation_timeout', 'selector_timeout'
		ScrapeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pricewatch_scrape_duration_seconds",
			Help:    "Duration of a full store crawl",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"store"}),
		ComparisonsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "pricewatch_comparisons_generated_total",
			Help: "The total number of price comparisons produced",
		}),
	}
}

func (m *Metrics) IncPagesFetched(store string) {
	if m == nil {
		return
	}
	m.PagesFetched.WithLabelValues(store).Inc()
}

func (m *Metrics) AddProductsExtracted(store string, n int) {
	if m == nil {
		return
	}
	m.ProductsExtracted.WithLabelValues(store).Add(float64(n))
}

func (m *Metrics) AddExtractionSkips(store string, n int) {
	if m == nil {
		return
	}
	m.ExtractionSkips.WithLabelValues(store).Add(float64(n))
}

func (m *Metrics) IncNormalizationRejects(store string) {
	if m == nil {
		return
	}
	m.NormalizationRejects.WithLabelValues(store).Inc()
}

func (m *Metrics) IncFetchErrors(store, errorType string) {
	if m == nil {
		return
	}
	m.FetchErrors.WithLabelValues(store, errorType).Inc()
}

func (m *Metrics) ObserveScrapeDuration(store string, seconds float64) {
	if m == nil {
		return
	}
	m.ScrapeDuration.WithLabelValues(store).Observe(seconds)
}

func (m *Metrics) AddComparisonsGenerated(n int) {
	if m == nil {
		return
	}
	m.ComparisonsGenerated.Add(float64(n))
}
