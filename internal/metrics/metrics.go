// Package metrics provides Prometheus instrumentation for the schedule
// pipeline and its HTTP surface.
//
// Metrics exposed:
//
//	radioinfo_fetches_total                 counter: upstream requests by endpoint/result
//	radioinfo_fetch_duration_seconds        histogram: upstream latency by endpoint
//	radioinfo_runs_total                    counter: pipeline runs by result
//	radioinfo_run_duration_seconds          histogram: full update latency
//	radioinfo_skipped_episodes_total        counter: episodes dropped while parsing
//	radioinfo_programs                      gauge: programs in the current snapshot
//	radioinfo_not_found_channels            gauge: channels with a missing day
//	radioinfo_last_success_timestamp_seconds gauge: unix time of the last good update
//	radioinfo_http_requests_total           counter: HTTP requests by path/status
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch results.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Run results.
const (
	RunSuccess = "success"
	RunFailure = "failure"
	RunSkipped = "skipped"
)

// Metrics groups every collector the service updates.
type Metrics struct {
	Fetches          *prometheus.CounterVec
	FetchDuration    *prometheus.HistogramVec
	Runs             *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	SkippedEpisodes  prometheus.Counter
	Programs         prometheus.Gauge
	NotFoundChannels prometheus.Gauge
	LastSuccess      prometheus.Gauge
	HTTPRequests     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radioinfo_fetches_total",
			Help: "Upstream API requests by endpoint and result.",
		}, []string{"endpoint", "result"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "radioinfo_fetch_duration_seconds",
			Help:    "Upstream API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radioinfo_runs_total",
			Help: "Schedule update runs by result.",
		}, []string{"result"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "radioinfo_run_duration_seconds",
			Help:    "Duration of a full schedule update in seconds.",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		SkippedEpisodes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radioinfo_skipped_episodes_total",
			Help: "Episodes dropped because a mandatory field was missing or malformed.",
		}),
		Programs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "radioinfo_programs",
			Help: "Programs held in the current snapshot.",
		}),
		NotFoundChannels: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "radioinfo_not_found_channels",
			Help: "Channels for which at least one queried day returned no content.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "radioinfo_last_success_timestamp_seconds",
			Help: "Unix time of the last successful schedule update.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radioinfo_http_requests_total",
			Help: "HTTP requests handled by path and status code.",
		}, []string{"path", "status"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Fetches,
			m.FetchDuration,
			m.Runs,
			m.RunDuration,
			m.SkippedEpisodes,
			m.Programs,
			m.NotFoundChannels,
			m.LastSuccess,
			m.HTTPRequests,
		)
	}

	return m
}

// ObserveFetch records one upstream request.
func (m *Metrics) ObserveFetch(endpoint, result string, elapsed time.Duration) {
	m.Fetches.WithLabelValues(endpoint, result).Inc()
	m.FetchDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveRun records the outcome of a pipeline run.
func (m *Metrics) ObserveRun(result string, elapsed time.Duration) {
	m.Runs.WithLabelValues(result).Inc()
	if result != RunSkipped {
		m.RunDuration.Observe(elapsed.Seconds())
	}
}

// ObserveSnapshot updates the gauges describing the current snapshot.
func (m *Metrics) ObserveSnapshot(programs, notFound int, at time.Time) {
	m.Programs.Set(float64(programs))
	m.NotFoundChannels.Set(float64(notFound))
	m.LastSuccess.Set(float64(at.Unix()))
}

// ObserveHTTP counts one handled HTTP request.
func (m *Metrics) ObserveHTTP(path string, status int) {
	m.HTTPRequests.WithLabelValues(path, strconv.Itoa(status)).Inc()
}

// Handler returns the scrape endpoint for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
