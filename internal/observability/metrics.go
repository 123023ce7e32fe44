package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	roadmapImportsTotal   *prometheus.CounterVec
	importedRowsTotal     *prometheus.CounterVec
	taskTogglesTotal      *prometheus.CounterVec
	dashboardCacheTotal   *prometheus.CounterVec
	accountDeletionsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studypath_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studypath_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studypath_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		roadmapImportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studypath_roadmap_imports_total",
			Help: "Roadmap imports by source and outcome.",
		}, []string{"source", "outcome"})

		importedRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studypath_imported_rows_total",
			Help: "Rows written by roadmap imports, by table.",
		}, []string{"table"})

		taskTogglesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studypath_task_toggles_total",
			Help: "Task completion toggles by resulting state.",
		}, []string{"state"})

		dashboardCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studypath_dashboard_cache_total",
			Help: "Dashboard cache lookups by result.",
		}, []string{"result"})

		accountDeletionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studypath_account_deletions_total",
			Help: "Account deletions by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			roadmapImportsTotal,
			importedRowsTotal,
			taskTogglesTotal,
			dashboardCacheTotal,
			accountDeletionsTotal,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the error response counter.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// RoadmapImports counts imports; source is json, builder, goal or catalog.
func RoadmapImports() *prometheus.CounterVec {
	RegisterMetrics()
	return roadmapImportsTotal
}

// ImportedRows counts rows created by imports.
func ImportedRows() *prometheus.CounterVec {
	RegisterMetrics()
	return importedRowsTotal
}

// TaskToggles counts completion changes.
func TaskToggles() *prometheus.CounterVec {
	RegisterMetrics()
	return taskTogglesTotal
}

// DashboardCache counts cache hits and misses.
func DashboardCache() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardCacheTotal
}

// AccountDeletions counts account deletions.
func AccountDeletions() *prometheus.CounterVec {
	RegisterMetrics()
	return accountDeletionsTotal
}
