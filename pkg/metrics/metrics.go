package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Guard rejection reasons.
const (
	ReasonInvalidFormat = "invalid_format"
	ReasonDuplicateNID  = "duplicate_nid"
	ReasonDuplicateName = "duplicate_name"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	RecordsCreatedTotal   prometheus.Counter
	RecordsDeletedTotal   prometheus.Counter
	GuardRejectionsTotal  *prometheus.CounterVec
	StorageConflictsTotal prometheus.Counter
	RateLimitedTotal      prometheus.Counter

	DBQueryDuration *prometheus.HistogramVec
	DBConnections   prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewCollector registers every metric on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func NewCollector(serviceName string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	c := &Collector{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		RecordsCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "records",
			Name:      "created_total",
			Help:      "Total number of patient records created.",
		}),

		RecordsDeletedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "records",
			Name:      "deleted_total",
			Help:      "Total number of patient records deleted, single and bulk.",
		}),

		GuardRejectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "records",
			Name:      "guard_rejections_total",
			Help:      "Writes rejected by a validator or uniqueness guard, by reason.",
		}, []string{"reason"}),

		StorageConflictsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "records",
			Name:      "storage_conflicts_total",
			Help:      "Unique constraint violations that passed the guards. Non-zero means concurrent duplicate writes.",
		}),

		RateLimitedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-client rate limiter.",
		}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query latency distribution.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}, []string{"operation", "table"}),

		DBConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "db",
			Name:      "open_connections",
			Help:      "Current number of open database connections.",
		}),
	}

	if g, ok := reg.(prometheus.Gatherer); ok {
		c.gatherer = g
	} else {
		c.gatherer = prometheus.DefaultGatherer
	}

	return c
}

// ObserveGuardRejection is nil-safe so services can run without metrics.
func (c *Collector) ObserveGuardRejection(reason string) {
	if c == nil {
		return
	}
	c.GuardRejectionsTotal.WithLabelValues(reason).Inc()
}

func (c *Collector) ObserveRecordsCreated() {
	if c == nil {
		return
	}
	c.RecordsCreatedTotal.Inc()
}

func (c *Collector) ObserveRecordsDeleted(n int64) {
	if c == nil || n <= 0 {
		return
	}
	c.RecordsDeletedTotal.Add(float64(n))
}

func (c *Collector) ObserveStorageConflict() {
	if c == nil {
		return
	}
	c.StorageConflictsTotal.Inc()
}

// Handler serves the metrics registered on this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
