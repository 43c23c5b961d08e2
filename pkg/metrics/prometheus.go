// Package metrics provides Prometheus metrics for the rally score service.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          atomic.Bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Score derivation
	scoreQueries     *prometheus.CounterVec
	replayLatency    prometheus.Histogram
	pointsExtracted  prometheus.Counter
	defaultedWinners prometheus.Counter
	gamesSegmented   prometheus.Counter

	// Manual editor
	manualTransitions *prometheus.CounterVec

	// Section store
	matchesStored  prometheus.Gauge
	sectionsStored prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rally",
		subsystem:        "score",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50},
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	m.enabled.Store(true)
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// Enabled reports whether recording is switched on.
func (m *Manager) Enabled() bool { return m.enabled.Load() }

// RefreshInterval is how often gauges fed by background updaters refresh.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.customLabels}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.scoreQueries = auto.NewCounterVec(
		m.counterOpts("queries_total", "Score derivations by operation and result"),
		[]string{"operation", "result"},
	)
	m.replayLatency = auto.NewHistogram(
		m.histogramOpts("replay_latency_milliseconds", "Time to extract, segment and replay a section list", m.histogramBuckets),
	)
	m.pointsExtracted = auto.NewCounter(
		m.counterOpts("points_extracted_total", "Point events produced from sections"),
	)
	m.defaultedWinners = auto.NewCounter(
		m.counterOpts("defaulted_winners_total", "Point events attributed by the tie-break policy (data quality)"),
	)
	m.gamesSegmented = auto.NewCounter(
		m.counterOpts("games_segmented_total", "Games produced by segmentation"),
	)
	m.manualTransitions = auto.NewCounterVec(
		m.counterOpts("manual_transitions_total", "Manual score editor moves by direction and kind"),
		[]string{"direction", "kind"},
	)
	m.matchesStored = auto.NewGauge(m.gaugeOpts("matches_stored", "Matches held by the section store"))
	m.sectionsStored = auto.NewGauge(m.gaugeOpts("sections_stored", "Sections held by the section store"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", prometheus.DefBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordScoreQuery counts one derivation. result is "ok" or an error kind.
func RecordScoreQuery(operation, result string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.scoreQueries.WithLabelValues(operation, result).Inc()
}

// RecordReplayLatency records derivation latency in milliseconds.
func RecordReplayLatency(latencyMs float64) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.replayLatency.Observe(latencyMs)
}

// RecordPointsExtracted adds extracted and tie-break attributed point counts.
func RecordPointsExtracted(total, defaulted int) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.pointsExtracted.Add(float64(total))
	globalManager.defaultedWinners.Add(float64(defaulted))
}

// RecordGamesSegmented adds n segmented games.
func RecordGamesSegmented(n int) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.gamesSegmented.Add(float64(n))
}

// RecordManualTransition counts one editor move.
func RecordManualTransition(direction, kind string) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.manualTransitions.WithLabelValues(direction, kind).Inc()
}

// UpdateStoreSize sets the section store gauges.
func UpdateStoreSize(matches, sections int) {
	globalManager.matchesStored.Set(float64(matches))
	globalManager.sectionsStored.Set(float64(sections))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

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

// SetEnabled switches recording of domain metrics on or off.
func SetEnabled(enabled bool) {
	globalManager.enabled.Store(enabled)
}

// Default returns the process-wide manager behind the package recorders.
func Default() *Manager {
	return globalManager
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
