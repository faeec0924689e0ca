// Package metrics provides Prometheus metrics for the footprint service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Business metrics
	submissionsAccepted *prometheus.CounterVec
	submissionsDup      prometheus.Counter
	calculationLatency  prometheus.Histogram
	footprintsRecorded  prometheus.Counter
	forecastsGenerated  *prometheus.CounterVec
	calculationErrors   prometheus.Counter

	// Operational health
	queueSize        prometheus.Gauge
	workerCount      prometheus.Gauge
	trackedEmployees prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Store
	storeErrors        prometheus.Counter
	storeRecordsTotal  prometheus.Gauge
	storeUpdateLatency prometheus.Histogram
	storeQueryLatency  prometheus.Histogram

	// Queue
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueued          prometheus.Counter
	queueDequeued          prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Workers
	workerActiveCount       prometheus.Gauge
	workerMessagesPerSecond prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByType      *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec
	errorLatency      *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level recorders

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // exposed through GetRegistry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "footprint",
		subsystem:        "tracker",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(auto promauto.Factory, name, help string) prometheus.Counter {
	return auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(auto promauto.Factory, name, help string, labels ...string) *prometheus.CounterVec {
	return auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(auto promauto.Factory, name, help string) prometheus.Gauge {
	return auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(auto promauto.Factory, name, help string, buckets []float64) prometheus.Histogram {
	return auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	})
}

func (m *Manager) histogramVec(auto promauto.Factory, name, help string, labels ...string) *prometheus.HistogramVec {
	return auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	b := m.histogramBuckets

	m.submissionsAccepted = m.counterVec(auto, "submissions_accepted_total",
		"Activity submissions accepted for calculation", "form_type")
	m.submissionsDup = m.counter(auto, "submissions_duplicate_total",
		"Activity submissions rejected as duplicates")
	m.calculationLatency = m.histogram(auto, "calculation_latency_milliseconds",
		"Footprint calculation latency in milliseconds", b)
	m.footprintsRecorded = m.counter(auto, "footprints_recorded_total",
		"Footprint records persisted to the store")
	m.forecastsGenerated = m.counterVec(auto, "forecasts_generated_total",
		"Forecasts computed, by kind (individual, company, scenarios)", "kind")
	m.calculationErrors = m.counter(auto, "calculation_errors_total",
		"Submissions that could not be turned into a footprint")

	m.queueSize = m.gauge(auto, "queue_size", "Current number of queued submissions")
	m.workerCount = m.gauge(auto, "worker_count", "Configured number of calculation workers")
	m.trackedEmployees = m.gauge(auto, "tracked_employees", "Employees with at least one footprint record")

	m.httpRequests = m.counterVec(auto, "http_requests_total",
		"HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec(auto, "http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.storeErrors = m.counter(auto, "store_errors_total", "Footprint store write failures")
	m.storeRecordsTotal = m.gauge(auto, "store_records_total", "Footprint records held in the store")
	m.storeUpdateLatency = m.histogram(auto, "store_update_latency_milliseconds",
		"Footprint store write latency in milliseconds", b)
	m.storeQueryLatency = m.histogram(auto, "store_query_latency_milliseconds",
		"Footprint store query latency in milliseconds", b)

	m.queueCapacity = m.gauge(auto, "queue_capacity", "Maximum queue capacity")
	m.queueUtilization = m.gauge(auto, "queue_utilization_ratio", "Queue size divided by capacity")
	m.queueEnqueued = m.counter(auto, "queue_enqueue_total", "Submissions enqueued")
	m.queueDequeued = m.counter(auto, "queue_dequeue_total", "Submissions dequeued")
	m.queueEnqueueErrors = m.counter(auto, "queue_enqueue_errors_total", "Rejected enqueue attempts")
	m.queueProcessingLatency = m.histogram(auto, "queue_processing_latency_milliseconds",
		"Time spent in Enqueue in milliseconds", b)

	m.workerActiveCount = m.gauge(auto, "worker_active_count", "Running workers")
	m.workerMessagesPerSecond = m.gauge(auto, "worker_messages_per_second",
		"Submissions processed per second across the pool")
	m.workerProcessingLatency = m.histogram(auto, "worker_processing_latency_milliseconds",
		"End-to-end submission processing latency in milliseconds", b)
	m.workerErrors = m.counter(auto, "worker_errors_total", "Worker processing failures")

	m.errorsByComponent = m.counterVec(auto, "errors_by_component_total",
		"Errors by component", "component", "error_type")
	m.errorsByType = m.counterVec(auto, "errors_by_type_total",
		"Errors by type and severity", "error_type", "severity")
	m.errorsByEndpoint = m.counterVec(auto, "errors_by_endpoint_total",
		"Errors by HTTP endpoint", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec(auto, "error_latency_milliseconds",
		"Latency of operations that ended in an error", "component", "error_type")

	m.systemMemoryUsage = m.gauge(auto, "system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge(auto, "system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram(auto, "system_gc_pause_time_milliseconds", "Average GC pause in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordSubmissionAccepted counts an accepted submission of the given form type.
func RecordSubmissionAccepted(formType string) {
	globalManager.submissionsAccepted.WithLabelValues(formType).Inc()
}

// RecordSubmissionDuplicate counts a duplicate submission.
func RecordSubmissionDuplicate() { globalManager.submissionsDup.Inc() }

// RecordCalculationLatency records calculation latency in milliseconds.
func RecordCalculationLatency(latencyMs float64) { globalManager.calculationLatency.Observe(latencyMs) }

// RecordFootprintRecorded counts a persisted footprint.
func RecordFootprintRecorded() { globalManager.footprintsRecorded.Inc() }

// RecordForecastGenerated counts a computed forecast of the given kind.
func RecordForecastGenerated(kind string) { globalManager.forecastsGenerated.WithLabelValues(kind).Inc() }

// RecordCalculationError counts a failed calculation.
func RecordCalculationError() { globalManager.calculationErrors.Inc() }

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// UpdateTrackedEmployees sets the number of employees with data.
func UpdateTrackedEmployees(count int) { globalManager.trackedEmployees.Set(float64(count)) }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordStoreError counts a failed store write.
func RecordStoreError() { globalManager.storeErrors.Inc() }

// UpdateStoreRecordsTotal sets the number of records held by the store.
func UpdateStoreRecordsTotal(count int) { globalManager.storeRecordsTotal.Set(float64(count)) }

// RecordStoreUpdateLatency records store write latency.
func RecordStoreUpdateLatency(latencyMs float64) { globalManager.storeUpdateLatency.Observe(latencyMs) }

// RecordStoreQueryLatency records store query latency.
func RecordStoreQueryLatency(latencyMs float64) { globalManager.storeQueryLatency.Observe(latencyMs) }

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) { globalManager.queueUtilization.Set(utilization) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { globalManager.queueEnqueued.Inc() }

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() { globalManager.queueDequeued.Inc() }

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// RecordQueueProcessingLatency records time spent enqueuing.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) { globalManager.workerActiveCount.Set(float64(count)) }

// UpdateWorkerMessagesPerSecond sets pool throughput.
func UpdateWorkerMessagesPerSecond(rate float64) { globalManager.workerMessagesPerSecond.Set(rate) }

// RecordWorkerProcessingLatency records per-submission processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.systemGCPauseTime.Observe(pauseMs) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
