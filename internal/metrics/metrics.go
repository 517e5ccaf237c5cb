// Package metrics wires Prometheus collectors for HTTP traffic and VRP
// solver activity, on a dedicated registry rather than the default one.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for this service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// SolveDuration tracks solver wall-clock time by algorithm and outcome.
	SolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "vrp_solve_seconds", Help: "VRP solve duration in seconds by algorithm.", Buckets: prometheus.DefBuckets},
		[]string{"algorithm", "outcome"},
	)
	// OSMParseDuration tracks OSM extract decode time.
	OSMParseDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "vrp_osm_parse_seconds", Help: "OSM extract parse duration in seconds.", Buckets: prometheus.DefBuckets},
	)
	// MatrixBuildDuration tracks distance-matrix construction time.
	MatrixBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "vrp_matrix_build_seconds", Help: "Distance matrix build duration in seconds.", Buckets: prometheus.DefBuckets},
	)
	// Sessions reports current session-store entity counts by kind.
	Sessions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "vrp_sessions_total", Help: "Current session store entity counts by kind."},
		[]string{"kind"},
	)
)

var regOnce sync.Once

// RegisterDefault registers every collector exactly once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(OSMParseDuration)
		Registry.MustRegister(MatrixBuildDuration)
		Registry.MustRegister(Sessions)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
