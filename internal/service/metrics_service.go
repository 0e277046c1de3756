package service

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry and every counter the
// engine emits. All record methods are nil-safe so services can run
// without metrics in tests.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	sectionToggles     prometheus.Counter
	coursesSelected    prometheus.Counter
	projectionDuration prometheus.Histogram
	snapshotSaves      prometheus.Counter
	snapshotDiscards   prometheus.Counter
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	telemetryFailures  prometheus.Counter
}

// NewMetricsService builds and registers all collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route.",
		}, []string{"method", "route", "status"}),
		sectionToggles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedule_section_toggles_total",
			Help: "Section toggle operations processed.",
		}),
		coursesSelected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedule_courses_selected_total",
			Help: "Courses transitioning from unselected to selected.",
		}),
		projectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "schedule_projection_duration_seconds",
			Help:    "Time spent rebuilding the weekly calendar projection.",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1},
		}),
		snapshotSaves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedule_snapshot_saves_total",
			Help: "Snapshot writes to the persistence gateway.",
		}),
		snapshotDiscards: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedule_snapshot_discards_total",
			Help: "Calendar snapshots discarded during fail-safe rehydration.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Catalog search responses served from cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Catalog searches that went to the database.",
		}),
		telemetryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "telemetry_delivery_failures_total",
			Help: "Telemetry events that could not be delivered.",
		}),
	}

	registry.MustRegister(
		s.requestDuration, s.requestTotal,
		s.sectionToggles, s.coursesSelected, s.projectionDuration,
		s.snapshotSaves, s.snapshotDiscards,
		s.cacheHits, s.cacheMisses, s.telemetryFailures,
	)
	s.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return s
}

// Handler exposes the scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveRequest records one completed HTTP request.
func (s *MetricsService) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if s == nil {
		return
	}
	s.requestDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
	s.requestTotal.WithLabelValues(method, route, status).Inc()
}

// RecordToggle counts one toggle operation.
func (s *MetricsService) RecordToggle() {
	if s != nil {
		s.sectionToggles.Inc()
	}
}

// RecordCourseSelected counts a course's first selection.
func (s *MetricsService) RecordCourseSelected() {
	if s != nil {
		s.coursesSelected.Inc()
	}
}

// ObserveProjection records one projection rebuild.
func (s *MetricsService) ObserveProjection(elapsed time.Duration) {
	if s != nil {
		s.projectionDuration.Observe(elapsed.Seconds())
	}
}

// RecordSnapshotSave counts one gateway write.
func (s *MetricsService) RecordSnapshotSave() {
	if s != nil {
		s.snapshotSaves.Inc()
	}
}

// RecordSnapshotDiscard counts one fail-safe discard.
func (s *MetricsService) RecordSnapshotDiscard() {
	if s != nil {
		s.snapshotDiscards.Inc()
	}
}

// RecordCacheLookup counts a catalog cache hit or miss.
func (s *MetricsService) RecordCacheLookup(hit bool) {
	if s == nil {
		return
	}
	if hit {
		s.cacheHits.Inc()
	} else {
		s.cacheMisses.Inc()
	}
}

// RecordTelemetryFailure counts one undeliverable event.
func (s *MetricsService) RecordTelemetryFailure() {
	if s != nil {
		s.telemetryFailures.Inc()
	}
}
