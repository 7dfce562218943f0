package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostdesk_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hostdesk_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	seatOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostdesk_seat_operations_total",
		Help: "Count of table state operations by action and result",
	}, []string{"action", "result"})

	liveSnapshots = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostdesk_live_snapshots_total",
		Help: "Count of live floor snapshots served, by source",
	}, []string{"source"})

	occupiedTables = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hostdesk_occupied_tables",
		Help: "Number of tables with an active booking",
	})

	bookingSweeps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostdesk_booking_sweeps_total",
		Help: "Count of booking expiry sweep outcomes",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveSeatOperation records a seat/available/maintenance action outcome.
func ObserveSeatOperation(action, result string) {
	seatOperations.WithLabelValues(action, result).Inc()
}

// ObserveLiveSnapshot counts a served live snapshot. Source is "cache"
// or "store".
func ObserveLiveSnapshot(source string) {
	liveSnapshots.WithLabelValues(source).Inc()
}

// SetOccupied sets the occupied-tables gauge.
func SetOccupied(n int) {
	occupiedTables.Set(float64(n))
}

// ObserveSweep increments the booking sweep counter for the given result.
func ObserveSweep(result string) {
	bookingSweeps.WithLabelValues(result).Inc()
}
