package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Text and speech generation metrics.
var (
	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "generation_requests_total",
			Help:      "Total number of generation requests",
		},
		[]string{"provider", "model", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "generation_request_duration_seconds",
			Help:      "Generation request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"provider", "model"},
	)

	GenerationTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "generation_tokens_total",
			Help:      "Total generation tokens consumed",
		},
		[]string{"provider", "model", "type"}, // type: prompt / completion
	)

	GenerationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "generation_errors_total",
			Help:      "Total generation errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	GenerationBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "generation_budget_tokens_remaining",
			Help:      "Remaining token budget",
		},
		[]string{"provider", "period"},
	)

	GenerationCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "generation_cache_total",
			Help:      "Generation cache hits and misses",
		},
		[]string{"prompt", "result"}, // result: hit / miss
	)

	GenerationBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "generation_breaker_state",
			Help:      "Provider circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"provider"},
	)
)

var registerGenerationOnce sync.Once

// RegisterGenerationMetrics registers generation metrics. Safe to call more than once.
func RegisterGenerationMetrics() {
	registerGenerationOnce.Do(func() {
		prometheus.MustRegister(
			GenerationRequestsTotal,
			GenerationRequestDuration,
			GenerationTokensTotal,
			GenerationErrorsTotal,
			GenerationBudgetTokensRemaining,
			GenerationCacheTotal,
			GenerationBreakerState,
		)
	})
}
