// Package metrics exposes Prometheus collectors for the llms.txt service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Page results recorded by ObservePage.
const (
	PageExtracted = "extracted"
	PageEmpty     = "empty"
	PageFailed    = "failed"
)

var (
	jobsTotal                  *prometheus.CounterVec
	pagesTotal                 *prometheus.CounterVec
	discoveredPages            prometheus.Histogram
	llmRequestDurationSeconds  *prometheus.HistogramVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	robotsFallbackTotal        prometheus.Counter
	activeJobs                 prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		jobsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llmstxt_jobs_total",
				Help: "Total number of generation jobs finished, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		pagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llmstxt_pages_total",
				Help: "Total number of pages processed during extraction, labeled by result.",
			},
			[]string{"result"},
		)

		discoveredPages = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "llmstxt_discovered_pages",
				Help:    "Histogram of the number of URLs discovered per job.",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
			},
		)

		llmRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llmstxt_llm_request_duration_seconds",
				Help:    "Histogram of language model request latencies, labeled by outcome.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"outcome"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)

		robotsFallbackTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "llmstxt_robots_fallback_total",
				Help: "Total robots.txt fetches that failed transiently and were treated as allow-all.",
			},
		)

		activeJobs = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "llmstxt_active_jobs",
				Help: "Number of generation jobs currently running.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}

// ObserveJob increments the job counter for the given outcome.
func ObserveJob(outcome string) {
	Init()
	jobsTotal.WithLabelValues(outcome).Inc()
}

// ObservePage increments the page counter for an extraction result.
func ObservePage(result string) {
	Init()
	pagesTotal.WithLabelValues(result).Inc()
}

// ObserveDiscovered records how many URLs discovery produced for a job.
func ObserveDiscovered(count int) {
	Init()
	discoveredPages.Observe(float64(count))
}

// ObserveLLMRequest records the latency of one language model call.
func ObserveLLMRequest(outcome string, duration time.Duration) {
	Init()
	llmRequestDurationSeconds.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveRobotsFallback counts a robots.txt fetch treated as allow-all.
func ObserveRobotsFallback() {
	Init()
	robotsFallbackTotal.Inc()
}

// IncActiveJobs increments the running job gauge.
func IncActiveJobs() {
	Init()
	activeJobs.Inc()
}

// DecActiveJobs decrements the running job gauge.
func DecActiveJobs() {
	Init()
	activeJobs.Dec()
}
