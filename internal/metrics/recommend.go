package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recommendation and catalog metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "recommendation_searches_total",
			Help:      "Total recommendation searches by purpose",
		},
		[]string{"purpose"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "recommendation_results",
			Help:      "Number of laptops returned per search",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		},
		[]string{"purpose"},
	)

	CatalogLaptops = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "catalog_laptops",
			Help:      "Laptops in the active catalog snapshot",
		},
	)

	CatalogReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "catalog_reloads_total",
			Help:      "Catalog load attempts",
		},
		[]string{"success"},
	)

	CatalogLoadedTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "catalog_loaded_timestamp_seconds",
			Help:      "Unix time of the last successful catalog load",
		},
	)
)

var registerRecommendOnce sync.Once

// RegisterRecommendMetrics registers recommendation and catalog metrics. Safe to call more than once.
func RegisterRecommendMetrics() {
	registerRecommendOnce.Do(func() {
		prometheus.MustRegister(
			SearchesTotal,
			SearchResults,
			CatalogLaptops,
			CatalogReloadsTotal,
			CatalogLoadedTimestamp,
		)
	})
}

// SearchRecorder feeds search outcomes into Prometheus.
type SearchRecorder struct{}

// RecordSearch counts a search and observes its result size.
func (SearchRecorder) RecordSearch(purpose string, results int) {
	SearchesTotal.WithLabelValues(purpose).Inc()
	SearchResults.WithLabelValues(purpose).Observe(float64(results))
}

// CatalogObserver feeds catalog load outcomes into Prometheus.
type CatalogObserver struct{}

// CatalogLoaded records a load attempt. size is ignored on failure.
func (CatalogObserver) CatalogLoaded(size int, err error) {
	CatalogReloadsTotal.WithLabelValues(strconv.FormatBool(err == nil)).Inc()
	if err != nil {
		return
	}
	CatalogLaptops.Set(float64(size))
	CatalogLoadedTimestamp.Set(float64(time.Now().Unix()))
}
