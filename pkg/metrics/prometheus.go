// Package metrics provides Prometheus metrics for the rankings dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the dashboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Dataset metrics
	datasetRecords       prometheus.Gauge
	datasetLoads         *prometheus.CounterVec
	datasetLoadDuration  prometheus.Histogram
	datasetDuplicates    prometheus.Counter
	datasetRejectedRows  prometheus.Counter
	normalizeFallbacks   *prometheus.CounterVec
	snapshotVersion      prometheus.Gauge
	snapshotLastLoadUnix prometheus.Gauge

	// Chart metrics
	chartBuilds        *prometheus.CounterVec
	chartBuildDuration *prometheus.HistogramVec
	chartRenders       *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry without default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "unirank",
		subsystem:        "dashboard",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.customLabels, Buckets: buckets,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.datasetRecords = auto.NewGauge(m.gaugeOpts("dataset_records",
		"Number of records in the published dataset snapshot"))
	m.datasetLoads = auto.NewCounterVec(m.counterOpts("dataset_loads_total",
		"Dataset load attempts by outcome"), []string{"outcome"})
	m.datasetLoadDuration = auto.NewHistogram(m.histogramOpts("dataset_load_duration_milliseconds",
		"Dataset load and normalization time in milliseconds", m.histogramBuckets))
	m.datasetDuplicates = auto.NewCounter(m.counterOpts("dataset_duplicates_total",
		"Rows dropped because their (university, year) was already loaded"))
	m.datasetRejectedRows = auto.NewCounter(m.counterOpts("dataset_rejected_rows_total",
		"Rows rejected for a missing university or an unparseable year"))
	m.normalizeFallbacks = auto.NewCounterVec(m.counterOpts("normalization_fallbacks_total",
		"Raw values that failed to parse and received the field's fallback"), []string{"field"})
	m.snapshotVersion = auto.NewGauge(m.gaugeOpts("snapshot_version",
		"Version of the published dataset snapshot"))
	m.snapshotLastLoadUnix = auto.NewGauge(m.gaugeOpts("snapshot_last_load_unix",
		"Unix time of the last published dataset snapshot"))

	m.chartBuilds = auto.NewCounterVec(m.counterOpts("chart_builds_total",
		"Chart specifications built by page, chart and outcome"), []string{"page", "chart", "outcome"})
	m.chartBuildDuration = auto.NewHistogramVec(m.histogramOpts("chart_build_duration_milliseconds",
		"Time to filter, aggregate and lay out one chart", m.histogramBuckets), []string{"page"})
	m.chartRenders = auto.NewCounterVec(m.counterOpts("chart_renders_total",
		"PNG renderings by chart kind and outcome"), []string{"kind", "outcome"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Errors by component and type"), []string{"component", "error_type"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"HTTP errors by endpoint, method and type"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Dataset Metrics Functions.

// UpdateDatasetRecords sets the number of records in the published snapshot.
func UpdateDatasetRecords(count int) {
	globalManager.datasetRecords.Set(float64(count))
}

// RecordDatasetLoad counts a dataset load attempt with outcome "ok" or "error".
func RecordDatasetLoad(outcome string) {
	globalManager.datasetLoads.WithLabelValues(outcome).Inc()
}

// RecordDatasetLoadDuration records load time in milliseconds.
func RecordDatasetLoadDuration(latencyMs float64) {
	globalManager.datasetLoadDuration.Observe(latencyMs)
}

// AddDatasetDuplicates counts dropped duplicate rows.
func AddDatasetDuplicates(n int) {
	globalManager.datasetDuplicates.Add(float64(n))
}

// AddDatasetRejectedRows counts rejected rows.
func AddDatasetRejectedRows(n int) {
	globalManager.datasetRejectedRows.Add(float64(n))
}

// AddNormalizationFallbacks counts parse fallbacks for field.
func AddNormalizationFallbacks(field string, n int) {
	globalManager.normalizeFallbacks.WithLabelValues(field).Add(float64(n))
}

// UpdateSnapshot records the version and publish time of a snapshot.
func UpdateSnapshot(version uint64, unix int64) {
	globalManager.snapshotVersion.Set(float64(version))
	globalManager.snapshotLastLoadUnix.Set(float64(unix))
}

// Chart Metrics Functions.

// RecordChartBuild counts one chart build; outcome is "ok", "no_data" or "error".
func RecordChartBuild(page, chart, outcome string) {
	globalManager.chartBuilds.WithLabelValues(page, chart, outcome).Inc()
}

// RecordChartBuildDuration records build time in milliseconds.
func RecordChartBuildDuration(page string, latencyMs float64) {
	globalManager.chartBuildDuration.WithLabelValues(page).Observe(latencyMs)
}

// RecordChartRender counts a PNG rendering.
func RecordChartRender(kind, outcome string) {
	globalManager.chartRenders.WithLabelValues(kind, outcome).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an HTTP error with endpoint, method and type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
