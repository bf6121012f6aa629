package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	generationOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "generation_outcomes_total",
		Help: "Bounded generation calls by operation and outcome",
	}, []string{"operation", "outcome"})

	generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "generation_duration_seconds",
		Help:    "Time spent waiting on bounded generation calls",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 12, 15, 20},
	}, []string{"operation", "outcome"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guidance_cache_total",
		Help: "Guidance cache lookups by operation and result",
	}, []string{"operation", "result"})
)

// ObserveHTTP records one finished request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveGeneration records the outcome of a bounded generation call.
func ObserveGeneration(operation, outcome string, elapsed time.Duration) {
	generationOutcomes.WithLabelValues(operation, outcome).Inc()
	generationDuration.WithLabelValues(operation, outcome).Observe(elapsed.Seconds())
}

// ObserveCache records a cache hit, miss or error.
func ObserveCache(operation, result string) {
	cacheLookups.WithLabelValues(operation, result).Inc()
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
