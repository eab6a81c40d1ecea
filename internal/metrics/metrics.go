package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "club_portal"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	entryWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "entry_writes_total",
			Help:      "Drawing entries written, by action.",
		},
		[]string{"action"},
	)

	validationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "validation_failures_total",
			Help:      "Entries rejected before reaching the ledger, by field.",
		},
		[]string{"field"},
	)

	rebuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "rebuild_duration_seconds",
			Help:      "Time spent rebuilding a game view from its entries.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		},
	)

	rebuildEntries = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "rebuild_entries",
			Help:      "Number of entries folded per rebuild.",
			Buckets:   prometheus.LinearBuckets(0, 10, 12),
		},
	)

	gamesClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "games",
			Name:      "closed_total",
			Help:      "Games closed, by reason.",
		},
		[]string{"reason"},
	)

	boardResets = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "games",
			Name:      "board_resets_total",
			Help:      "Board resets observed when an entry was recorded.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		entryWrites,
		validationFailures,
		rebuildDuration,
		rebuildEntries,
		gamesClosed,
		boardResets,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted marks an HTTP request as in flight and returns the function that records
// its outcome. path should be the route template, not the raw URL.
func RequestStarted(method, path string) func(status int) {
	start := time.Now()
	httpInFlight.Inc()
	return func(status int) {
		httpInFlight.Dec()
		httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordEntryWrite counts a created, updated, deleted or imported entry.
func RecordEntryWrite(action string, n int) {
	entryWrites.WithLabelValues(action).Add(float64(n))
}

// RecordValidationFailure counts an entry rejected on the given field.
func RecordValidationFailure(field string) {
	validationFailures.WithLabelValues(field).Inc()
}

// ObserveRebuild records one full recomputation of a game view.
func ObserveRebuild(d time.Duration, entries int) {
	rebuildDuration.Observe(d.Seconds())
	rebuildEntries.Observe(float64(entries))
}

// RecordGameClosed counts a game closing; reason is "queen", "manual" or "superseded".
func RecordGameClosed(reason string) {
	gamesClosed.WithLabelValues(reason).Inc()
}

// RecordBoardReset counts a two-joker reset.
func RecordBoardReset() {
	boardResets.Inc()
}
