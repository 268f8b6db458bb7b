package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	evaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_evaluations_total",
			Help: "Total number of completed evaluations by outcome",
		},
		[]string{"outcome"},
	)

	evaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "audit_evaluation_duration_seconds",
			Help:    "End-to-end evaluation pipeline duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	decodeFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artifact_decode_failures_total",
			Help: "Total number of artifact decode failures by reason",
		},
		[]string{"reason"},
	)

	recordsStoredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "procedure_records_stored_total",
			Help: "Total number of procedure records persisted",
		},
	)
)

// Middleware records request counts and latencies for every route.
func Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		// Capture before the handler runs; fiber reuses context objects.
		method := c.Method()
		path := c.Path()

		err := c.Next()

		status := strconv.Itoa(c.Response().StatusCode())
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the prometheus registry for scraping.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

// EvaluationCompleted records one finished evaluation pipeline run.
func EvaluationCompleted(outcome string, d time.Duration) {
	evaluationsTotal.WithLabelValues(outcome).Inc()
	evaluationDuration.Observe(d.Seconds())
}

// DecodeFailed records one artifact decode failure.
func DecodeFailed(reason string) {
	decodeFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordStored records one persisted procedure record.
func RecordStored() {
	recordsStoredTotal.Inc()
}
