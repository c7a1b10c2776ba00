// Package metrics owns the process prometheus registry and the shared collectors
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "otnanalyzer"

// Registry is the process registry served on /metrics
var Registry = prometheus.NewRegistry()

var HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "requests_total",
}, []string{"method", "status"})

var HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Buckets:   prometheus.DefBuckets,
}, []string{"method"})

// ScanCount counts scans by outcome: ok, invalid, canceled, error
var ScanCount = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "scanner",
	Name:      "scans_total",
}, []string{"result"})

// ScanGaps counts classified gaps by kind: expected, unexpected
var ScanGaps = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "scanner",
	Name:      "gaps_total",
}, []string{"kind"})

var ScanDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "scanner",
	Name:      "scan_duration_seconds",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
}, []string{"matcher"})

var StreamDigits = prometheus.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "scanner",
	Name:      "stream_digits",
	Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
})

// CacheLookups counts result cache lookups by result: hit, miss
var CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "scanner",
	Name:      "cache_lookups_total",
}, []string{"result"})

// LaneState is 1 for the lane's current frame state and 0 otherwise
var LaneState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "lanes",
	Name:      "frame_state",
}, []string{"lane", "state"})

var LaneRefreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "lanes",
	Name:      "refreshes_total",
}, []string{"result"})

var LanePatterns = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "lanes",
	Name:      "pattern_count",
}, []string{"lane"})

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequests, HTTPDuration,
		ScanCount, ScanGaps, ScanDuration, StreamDigits, CacheLookups,
		LaneState, LaneRefreshes, LanePatterns,
	)
}

// Handler serves the registry in the prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// ObserveHTTP records one finished request
func ObserveHTTP(method string, status int, seconds float64) {
	HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method).Observe(seconds)
}

// SetLaneState flips the lane's frame gauge so exactly one state reads 1
func SetLaneState(lane int, state string, states ...string) {
	id := strconv.Itoa(lane)
	for _, s := range states {
		v := 0.0
		if s == state {
			v = 1
		}
		LaneState.WithLabelValues(id, s).Set(v)
	}
}
