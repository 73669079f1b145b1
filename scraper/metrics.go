package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for a catalog run.
type Metrics struct {
	Registry               *prometheus.Registry
	RequestsTotal          *prometheus.CounterVec
	RequestDuration        prometheus.Histogram
	CacheHitsTotal         prometheus.Counter
	CategoriesTotal        prometheus.Counter
	ProductsExtractedTotal prometheus.Counter
	ErrorsTotal            *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bestsellers_requests_total",
			Help: "Total page fetches by outcome.",
		},
		[]string{"phase"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bestsellers_request_duration_seconds",
			Help:    "Latency of page fetches.",
			Buckets: prometheus.DefBuckets,
		},
	)
	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bestsellers_fetch_cache_hits_total",
			Help: "Page fetches served from the in-memory cache.",
		},
	)
	categories := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bestsellers_categories_total",
			Help: "Categories appended to the catalog.",
		},
	)
	products := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bestsellers_products_extracted_total",
			Help: "Product records extracted from listing pages.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bestsellers_errors_total",
			Help: "Fetch and parse failures by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(requests, requestDuration, cacheHits, categories, products, errorsTotal)

	return &Metrics{
		Registry:               registry,
		RequestsTotal:          requests,
		RequestDuration:        requestDuration,
		CacheHitsTotal:         cacheHits,
		CategoriesTotal:        categories,
		ProductsExtractedTotal: products,
		ErrorsTotal:            errorsTotal,
	}
}

// IncRequest increments the requests counter for a phase.
func (m *Metrics) IncRequest(phase string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(phase).Inc()
}

// ObserveDuration records a fetch duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncCacheHit counts a fetch answered from the cache.
func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

// IncCategory counts a category appended to the catalog.
func (m *Metrics) IncCategory() {
	if m == nil {
		return
	}
	m.CategoriesTotal.Inc()
}

// AddProducts adds n extracted records.
func (m *Metrics) AddProducts(n int) {
	if m == nil {
		return
	}
	m.ProductsExtractedTotal.Add(float64(n))
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
