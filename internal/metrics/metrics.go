// Package metrics records run statistics in a Prometheus registry that is written
// out as a node_exporter textfile when a run completes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lifecycle"

// Metrics implements usecase.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	issuesExtracted   *prometheus.CounterVec
	issuesFailed      *prometheus.CounterVec
	repositories      *prometheus.CounterVec
	extractDuration   prometheus.Histogram
	commitsCounted    *prometheus.GaugeVec
	counterErrors     prometheus.Counter
	sampleCandidates  prometheus.Gauge
	sampleSelected    prometheus.Gauge
	lastCompletedTime prometheus.Gauge
}

// New creates a Metrics backed by its own registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.issuesExtracted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "issues_extracted_total",
		Help:      "Issues whose lifecycle was extracted",
	}, []string{"repository", "kind"})
	m.issuesFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "issues_failed_total",
		Help:      "Issues skipped because their lifecycle could not be classified",
	}, []string{"repository"})
	m.repositories = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "repositories_total",
		Help:      "Repositories processed, by result",
	}, []string{"result"})
	m.extractDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "repository_extract_duration_seconds",
		Help:      "Time spent extracting one repository",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})
	m.commitsCounted = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "recent_commits",
		Help:      "Commits in the trailing activity window",
	}, []string{"repository"})
	m.counterErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commit_count_errors_total",
		Help:      "Commit counts that failed and were recorded as zero",
	})
	m.sampleCandidates = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sample_candidates",
		Help:      "Repositories considered for the active sample",
	})
	m.sampleSelected = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sample_selected",
		Help:      "Repositories selected in the active sample",
	})
	m.lastCompletedTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_completed_timestamp_seconds",
		Help:      "Unix time the last run completed",
	})

	m.registry.MustRegister(
		m.issuesExtracted,
		m.issuesFailed,
		m.repositories,
		m.extractDuration,
		m.commitsCounted,
		m.counterErrors,
		m.sampleCandidates,
		m.sampleSelected,
		m.lastCompletedTime,
	)
	return m
}

func (m *Metrics) IssueExtracted(repo string, isPull bool) {
	kind := "issue"
	if isPull {
		kind = "pull"
	}
	m.issuesExtracted.WithLabelValues(repo, kind).Inc()
}

func (m *Metrics) IssueFailed(repo string) {
	m.issuesFailed.WithLabelValues(repo).Inc()
}

func (m *Metrics) RepositoryExtracted(_ string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	m.repositories.WithLabelValues(result).Inc()
	m.extractDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) CommitsCounted(repo string, count int, err error) {
	if err != nil {
		m.counterErrors.Inc()
	}
	m.commitsCounted.WithLabelValues(repo).Set(float64(count))
}

func (m *Metrics) SampleSelected(candidates, selected int) {
	m.sampleCandidates.Set(float64(candidates))
	m.sampleSelected.Set(float64(selected))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile stamps the completion time and writes all metrics to path.
func (m *Metrics) WriteTextfile(path string) error {
	m.lastCompletedTime.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, m.registry)
}
