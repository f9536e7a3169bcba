// Package metrics exposes Prometheus instrumentation for the tracker.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Ingestion paths.
const (
	PathBulk   = "bulk"
	PathLive   = "live"
	PathManual = "manual"
)

type Recorder interface {
	IncEntriesAppended(path string, n int)
	IncScanFailures(channelID string)
	IncPersistenceFailures(document string)
	ObserveCycle(duration time.Duration)
}

type PrometheusRecorder struct {
	entriesAppended     *prometheus.CounterVec
	scanFailures        *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
	cycles              prometheus.Counter
	cycleDuration       prometheus.Histogram
}

// NewPrometheusRecorder registers the tracker collectors on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		entriesAppended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_entries_appended_total",
			Help: "Giveaway entries appended to the store, by ingestion path",
		}, []string{"path"}),
		scanFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_scan_failures_total",
			Help: "Tracked channels that could not be fetched during a rescan",
		}, []string{"channel"}),
		persistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_persistence_failures_total",
			Help: "Failed durable writes, by document",
		}, []string{"document"}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_scan_cycles_total",
			Help: "Completed rescan and refresh cycles",
		}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracker_scan_cycle_duration_seconds",
			Help:    "Duration of rescan and refresh cycles",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(r.entriesAppended, r.scanFailures, r.persistenceFailures, r.cycles, r.cycleDuration)
	return r
}

func (r *PrometheusRecorder) IncEntriesAppended(path string, n int) {
	r.entriesAppended.WithLabelValues(path).Add(float64(n))
}

func (r *PrometheusRecorder) IncScanFailures(channelID string) {
	r.scanFailures.WithLabelValues(channelID).Inc()
}

func (r *PrometheusRecorder) IncPersistenceFailures(document string) {
	r.persistenceFailures.WithLabelValues(document).Inc()
}

func (r *PrometheusRecorder) ObserveCycle(duration time.Duration) {
	r.cycles.Inc()
	r.cycleDuration.Observe(duration.Seconds())
}

type noopRecorder struct{}

// Noop returns a Recorder that discards everything.
func Noop() Recorder { return noopRecorder{} }

func (noopRecorder) IncEntriesAppended(string, int) {}
func (noopRecorder) IncScanFailures(string)         {}
func (noopRecorder) IncPersistenceFailures(string)  {}
func (noopRecorder) ObserveCycle(time.Duration)     {}
