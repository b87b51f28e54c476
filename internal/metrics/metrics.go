package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "learning_trails"

// Metrics holds Prometheus metrics for the service
type Metrics struct {
	RequestCounter     *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	RequestsInFlight   prometheus.Gauge
	QuizSubmissions    *prometheus.CounterVec
	ProgressUpdates    *prometheus.CounterVec
	ContentCompletions *prometheus.CounterVec
}

// NewMetrics registers every collector on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		QuizSubmissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quiz_submissions_total",
				Help:      "Graded quiz submissions by outcome",
			},
			[]string{"outcome"}, // passed, failed
		),
		ProgressUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "progress_updates_total",
				Help:      "Recorded progress ticks by content type",
			},
			[]string{"content_type"},
		),
		ContentCompletions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "content_completions_total",
				Help:      "Content items that transitioned to completed",
			},
			[]string{"content_type"},
		),
	}
}

// ObserveQuiz counts one graded submission. Safe on a nil receiver.
func (m *Metrics) ObserveQuiz(passed bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	m.QuizSubmissions.WithLabelValues(outcome).Inc()
}

// ObserveProgress counts one progress tick, and the completion it caused if any.
// Safe on a nil receiver.
func (m *Metrics) ObserveProgress(contentType string, completed bool) {
	if m == nil {
		return
	}
	m.ProgressUpdates.WithLabelValues(contentType).Inc()
	if completed {
		m.ContentCompletions.WithLabelValues(contentType).Inc()
	}
}

// GinMiddleware records count, latency and in-flight requests per route template
func GinMiddleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.RequestsInFlight.Inc()
		defer metrics.RequestsInFlight.Dec()

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
		metrics.RequestCounter.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
