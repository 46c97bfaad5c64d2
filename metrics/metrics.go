package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the service exports.
type Metrics struct {
	registry prometheus.Gatherer

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Translation metrics
	TranslationPairs *prometheus.CounterVec
	TranslationJobs  *prometheus.CounterVec

	// LLM provider metrics
	LLMCallDuration *prometheus.HistogramVec

	StorageOperations *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg uses a fresh registry.
func New(prefix string, reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		TranslationPairs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_translation_pairs_total",
				Help: "Translation unit and language pairs processed, by content kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		TranslationJobs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_translation_jobs_total",
				Help: "Translation batch jobs by final status",
			},
			[]string{"status"},
		),
		LLMCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_llm_call_duration_seconds",
				Help:    "Duration of language model calls in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
			},
			[]string{"operation", "outcome"},
		),
		StorageOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_storage_operations_total",
				Help: "Object storage operations by kind and outcome",
			},
			[]string{"operation", "outcome"},
		),
	}
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// ObservePair counts one settled translation pair.
func (m *Metrics) ObservePair(kind string, ok bool) {
	m.TranslationPairs.WithLabelValues(kind, outcome(ok)).Inc()
}

func (m *Metrics) ObserveJob(status string) {
	m.TranslationJobs.WithLabelValues(status).Inc()
}

// TrackLLMCall returns a function that records the duration of a model call
func (m *Metrics) TrackLLMCall(operation string) func(err error) {
	start := time.Now()
	return func(err error) {
		m.LLMCallDuration.WithLabelValues(operation, outcome(err == nil)).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) ObserveStorage(operation string, err error) {
	m.StorageOperations.WithLabelValues(operation, outcome(err == nil)).Inc()
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}
