// Package metrics provides Prometheus metrics for paginated reads and the
// rank snapshot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	paging "github.com/nrfta/ladder-paging"
)

// Collector records paginator and rank snapshot metrics.
// A nil *Collector is valid and records nothing.
type Collector struct {
	namespace      string
	latencyBuckets []float64
	registry       prometheus.Registerer

	fetches        *prometheus.CounterVec
	fetchErrors    *prometheus.CounterVec
	fetchDuration  *prometheus.HistogramVec
	rowsFetched    *prometheus.HistogramVec
	fillIterations *prometheus.HistogramVec
	snapshotAge    prometheus.Gauge
}

// NewCollector creates a Collector. Without WithPrometheusRegistry the
// metrics are registered on prometheus.DefaultRegisterer.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		namespace:      "ladder",
		latencyBuckets: prometheus.DefBuckets,
		registry:       prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.initializeMetrics()

	return c
}

func (c *Collector) initializeMetrics() {
	auto := promauto.With(c.registry)

	c.fetches = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: c.namespace,
			Subsystem: "paging",
			Name:      "fetch_total",
			Help:      "Total number of page fetches by sort key and direction",
		},
		[]string{"key", "direction"},
	)

	c.fetchErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: c.namespace,
			Subsystem: "paging",
			Name:      "fetch_errors_total",
			Help:      "Total number of failed page fetches by sort key and error kind",
		},
		[]string{"key", "kind"},
	)

	c.fetchDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: c.namespace,
			Subsystem: "paging",
			Name:      "fetch_duration_seconds",
			Help:      "Page fetch duration in seconds, including all row source calls",
			Buckets:   c.latencyBuckets,
		},
		[]string{"key"},
	)

	c.rowsFetched = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: c.namespace,
			Subsystem: "paging",
			Name:      "rows_fetched",
			Help:      "Raw rows read from the row source per page",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"key"},
	)

	c.fillIterations = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: c.namespace,
			Subsystem: "paging",
			Name:      "fill_iterations",
			Help:      "Row source calls needed to complete a grouped page",
			Buckets:   prometheus.LinearBuckets(1, 1, 8),
		},
		[]string{"key"},
	)

	c.snapshotAge = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: c.namespace,
		Subsystem: "rank",
		Name:      "snapshot_age_seconds",
		Help:      "Age of the rank snapshot currently served",
	})
}

// ObserveFetch records one successful page fetch.
func (c *Collector) ObserveFetch(key string, dir paging.Direction, rows int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.fetches.WithLabelValues(key, dir.String()).Inc()
	c.fetchDuration.WithLabelValues(key).Observe(elapsed.Seconds())
	c.rowsFetched.WithLabelValues(key).Observe(float64(rows))
}

// ObserveFill records how many row source calls a grouped page needed.
func (c *Collector) ObserveFill(key string, iterations int) {
	if c == nil {
		return
	}
	c.fillIterations.WithLabelValues(key).Observe(float64(iterations))
}

// ObserveError records a failed page fetch, labelled by paging.ErrorKind.
func (c *Collector) ObserveError(key string, err error) {
	if c == nil || err == nil {
		return
	}
	c.fetchErrors.WithLabelValues(key, paging.ErrorKind(err)).Inc()
}

// ObserveSnapshot records the age of the snapshot being served.
func (c *Collector) ObserveSnapshot(age time.Duration) {
	if c == nil {
		return
	}
	c.snapshotAge.Set(age.Seconds())
}
