// internal/metrics/metrics.go
//
// Prometheus counters for play activity, exposed on GET /metrics.
// Registered once per process on the default registry.

package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the game server.
type Metrics struct {
	GamesStarted   *prometheus.CounterVec
	GamesCompleted *prometheus.CounterVec
	Prompts        *prometheus.CounterVec
	PromptWords    prometheus.Histogram
	HolesClosed    *prometheus.CounterVec
	TrapHits       *prometheus.CounterVec
	LiveGames      prometheus.Gauge

	HTTPRequestsTotal *prometheus.CounterVec
	RateLimited       prometheus.Counter
}

var (
	metricsOnce   sync.Once
	sharedMetrics *Metrics
)

// New creates and registers all metrics. Later calls return the same set.
func New() *Metrics {
	metricsOnce.Do(func() {
		sharedMetrics = &Metrics{
			GamesStarted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "gollmf_games_started_total",
					Help: "Games begun, by course",
				},
				[]string{"course"},
			),
			GamesCompleted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "gollmf_games_completed_total",
					Help: "Games that closed every hole, by course",
				},
				[]string{"course"},
			),
			Prompts: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "gollmf_prompts_total",
					Help: "Prompts submitted, by course",
				},
				[]string{"course"},
			),
			PromptWords: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "gollmf_prompt_words",
					Help:    "Words per submitted prompt",
					Buckets: prometheus.ExponentialBuckets(1, 2, 7), // 1 to 64 words
				},
			),
			HolesClosed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "gollmf_holes_closed_total",
					Help: "Holes closed, by course and outcome",
				},
				[]string{"course", "won"},
			),
			TrapHits: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "gollmf_trap_hits_total",
					Help: "Trap word occurrences in closed holes, by course",
				},
				[]string{"course"},
			),
			LiveGames: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "gollmf_live_games",
					Help: "Games held in memory",
				},
			),
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "gollmf_http_requests_total",
					Help: "HTTP requests, by method and status",
				},
				[]string{"method", "status"},
			),
			RateLimited: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "gollmf_http_rate_limited_total",
					Help: "Requests rejected by the per-client rate limiter",
				},
			),
		}
	})
	return sharedMetrics
}

// Handler serves the default registry.
func (m *Metrics) Handler() http.Handler { return promhttp.Handler() }

// RecordPrompt counts one submitted prompt of n words.
func (m *Metrics) RecordPrompt(course string, n int) {
	m.Prompts.WithLabelValues(course).Inc()
	m.PromptWords.Observe(float64(n))
}

// RecordHole counts one closed hole.
func (m *Metrics) RecordHole(course string, won bool, trapHits int) {
	m.HolesClosed.WithLabelValues(course, strconv.FormatBool(won)).Inc()
	if trapHits > 0 {
		m.TrapHits.WithLabelValues(course).Add(float64(trapHits))
	}
}

// RecordRequest counts one served HTTP request.
func (m *Metrics) RecordRequest(method string, status int) {
	m.HTTPRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
