package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WriteBatchTotal counts write_batch calls by the path they took.
	WriteBatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dynakv_write_batch_total",
			Help: "Total number of write_batch calls by path (fastpath or journaled)",
		},
		[]string{"path"},
	)

	// JournalBlocksWritten counts persisted journal block entries.
	JournalBlocksWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dynakv_journal_blocks_written_total",
			Help: "Total number of journal block entries written",
		},
	)

	// JournalReplayStepsTotal counts completed reverse-drain replay steps.
	JournalReplayStepsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dynakv_journal_replay_steps_total",
			Help: "Total number of journal replay steps committed",
		},
	)

	// JournalRecoveryFailuresTotal counts replay attempts that found a
	// header pointing to a missing block entry.
	JournalRecoveryFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dynakv_journal_recovery_failures_total",
			Help: "Total number of journal recoveries that failed due to a missing block entry",
		},
	)

	// BackendCallDuration times each backend RPC the adapter issues.
	BackendCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dynakv_backend_call_duration_seconds",
			Help:    "Backend call duration in seconds by operation",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// CacheHitsTotal and CacheMissesTotal track the LRU read-through cache.
	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dynakv_cache_hits_total",
			Help: "Total number of cache hits on point reads",
		},
	)

	CacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dynakv_cache_misses_total",
			Help: "Total number of cache misses on point reads",
		},
	)
)

func init() {
	prometheus.MustRegister(WriteBatchTotal)
	prometheus.MustRegister(JournalBlocksWritten)
	prometheus.MustRegister(JournalReplayStepsTotal)
	prometheus.MustRegister(JournalRecoveryFailuresTotal)
	prometheus.MustRegister(BackendCallDuration)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
}

// Handler returns the Prometheus HTTP handler, for wiring into the CLI's
// serve-metrics command.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing a single backend call.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDurationVec records the elapsed time to a histogram vec.
func (t *Timer) ObserveDurationVec(histogram *prometheus.HistogramVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}
