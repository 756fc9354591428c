// Package metrics provides Prometheus metrics for the scoutcalc service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultRefreshInterval = 10 * time.Second

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Pipeline
	pipelineRuns        *prometheus.CounterVec
	pipelineDuration    prometheus.Histogram
	recordsScored       prometheus.Counter
	teamsAggregated     prometheus.Gauge
	dataQualityIssues   *prometheus.CounterVec
	snapshotLastUnix    prometheus.Gauge
	snapshotRecordCount prometheus.Gauge

	// Storage
	sqlPublishLatency prometheus.Histogram
	sqlQueryLatency   prometheus.Histogram

	// Ingest and refresh scheduling
	submissionsAccepted  prometheus.Counter
	submissionsDuplicate prometheus.Counter
	refreshRequests      *prometheus.CounterVec
	refreshQueueSize     prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry without default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scoutcalc",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.pipelineRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "runs_total",
		Help:        "Pipeline runs by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.pipelineDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_duration_milliseconds",
		Help:        "Wall time of a full refresh (fetch, score, aggregate, publish)",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.recordsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_scored_total",
		Help:        "Raw match records scored",
		ConstLabels: labels,
	})

	m.teamsAggregated = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "teams",
		Help:        "Teams present in the latest aggregate table",
		ConstLabels: labels,
	})

	m.dataQualityIssues = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "data_quality_issues_total",
		Help:        "Recovered data-quality anomalies by kind",
		ConstLabels: labels,
	}, []string{"kind"})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_last_unix",
		Help:        "Unix timestamp of the last published snapshot",
		ConstLabels: labels,
	})

	m.snapshotRecordCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_records",
		Help:        "Scored records in the latest published snapshot",
		ConstLabels: labels,
	})

	m.sqlPublishLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sql_publish_latency_milliseconds",
		Help:        "Latency of the table replacement transaction",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.sqlQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sql_query_latency_milliseconds",
		Help:        "Latency of raw record reads and writes",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.submissionsAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "submissions_accepted_total",
		Help:        "Scouting submissions stored",
		ConstLabels: labels,
	})

	m.submissionsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "submissions_duplicate_total",
		Help:        "Scouting submissions rejected as already seen",
		ConstLabels: labels,
	})

	m.refreshRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "refresh_requests_total",
		Help:        "Refresh requests by result (queued, coalesced)",
		ConstLabels: labels,
	}, []string{"result"})

	m.refreshQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "refresh_queue_size",
		Help:        "Pending refresh requests",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "HTTP requests by endpoint, method and status",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Errors by component and type",
		ConstLabels: labels,
	}, []string{"component", "error_type"})
}

// RecordPipelineRun counts a finished refresh with outcome "ok" or "error".
func RecordPipelineRun(outcome string) {
	globalManager.pipelineRuns.WithLabelValues(outcome).Inc()
}

// RecordPipelineDuration observes a refresh duration in milliseconds.
func RecordPipelineDuration(ms float64) {
	globalManager.pipelineDuration.Observe(ms)
}

// RecordRecordsScored adds n to the scored-records counter.
func RecordRecordsScored(n int) {
	globalManager.recordsScored.Add(float64(n))
}

// UpdateTeamsAggregated sets the team count of the latest aggregate table.
func UpdateTeamsAggregated(n int) {
	globalManager.teamsAggregated.Set(float64(n))
}

// RecordDataQualityIssue counts one recovered anomaly of the given kind.
func RecordDataQualityIssue(kind string) {
	globalManager.dataQualityIssues.WithLabelValues(kind).Inc()
}

// UpdateSnapshot records publication time and size of a snapshot.
func UpdateSnapshot(publishedAt time.Time, records int) {
	globalManager.snapshotLastUnix.Set(float64(publishedAt.Unix()))
	globalManager.snapshotRecordCount.Set(float64(records))
}

// RecordSQLPublishLatency observes the table replacement latency.
func RecordSQLPublishLatency(ms float64) {
	globalManager.sqlPublishLatency.Observe(ms)
}

// RecordSQLQueryLatency observes a raw record read or write.
func RecordSQLQueryLatency(ms float64) {
	globalManager.sqlQueryLatency.Observe(ms)
}

// RecordSubmissionAccepted counts a stored submission.
func RecordSubmissionAccepted() {
	globalManager.submissionsAccepted.Inc()
}

// RecordSubmissionDuplicate counts a submission rejected by dedupe.
func RecordSubmissionDuplicate() {
	globalManager.submissionsDuplicate.Inc()
}

// RecordRefreshRequest counts a refresh request by result.
func RecordRefreshRequest(result string) {
	globalManager.refreshRequests.WithLabelValues(result).Inc()
}

// UpdateRefreshQueueSize sets the pending refresh count.
func UpdateRefreshQueueSize(n int) {
	globalManager.refreshQueueSize.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
