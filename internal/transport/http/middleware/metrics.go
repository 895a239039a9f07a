package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetricsOptions configures the HTTP metrics middleware. Zero values
// select the chp/http namespace, the default registerer, and the default
// latency buckets.
type HTTPMetricsOptions struct {
	Registerer prometheus.Registerer
	Namespace  string
	Subsystem  string
	Buckets    []float64
}

// HTTPMetrics exposes Prometheus collectors for request instrumentation.
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTPMetrics builds and registers the request collectors. Registration
// tolerates collectors already registered by a previous instance, so the
// constructor is safe to call more than once per process.
func NewHTTPMetrics(opts HTTPMetricsOptions) (*HTTPMetrics, error) {
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "chp"
	}
	subsystem := opts.Subsystem
	if subsystem == "" {
		subsystem = "http"
	}
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	buckets := opts.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	m := &HTTPMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests partitioned by method, route, and status code.",
		}, []string{"method", "route", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Histogram of HTTP request latencies in seconds partitioned by method, route, and status code.",
			Buckets:   buckets,
		}, []string{"method", "route", "status"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
	}

	requests, err := registerOrReuse(reg, m.Requests)
	if err != nil {
		return nil, fmt.Errorf("register requests collector: %w", err)
	}
	var ok bool
	if m.Requests, ok = requests.(*prometheus.CounterVec); !ok {
		return nil, fmt.Errorf("existing requests collector has unexpected type %T", requests)
	}

	duration, err := registerOrReuse(reg, m.Duration)
	if err != nil {
		return nil, fmt.Errorf("register duration collector: %w", err)
	}
	if m.Duration, ok = duration.(*prometheus.HistogramVec); !ok {
		return nil, fmt.Errorf("existing duration collector has unexpected type %T", duration)
	}

	inFlight, err := registerOrReuse(reg, m.InFlight)
	if err != nil {
		return nil, fmt.Errorf("register inflight collector: %w", err)
	}
	if m.InFlight, ok = inFlight.(prometheus.Gauge); !ok {
		return nil, fmt.Errorf("existing inflight collector has unexpected type %T", inFlight)
	}

	return m, nil
}

func registerOrReuse(reg prometheus.Registerer, c prometheus.Collector) (prometheus.Collector, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		return already.ExistingCollector, nil
	}
	return c, nil
}

// Handler returns a gin middleware recording counts, latency, and in-flight
// requests. A nil receiver degrades to a pass-through.
func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		c.Next()

		// Unmatched paths would explode label cardinality, so fall back to
		// the raw path only when gin has no route template.
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		labels := prometheus.Labels{
			"method": c.Request.Method,
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		m.Requests.With(labels).Inc()
		m.Duration.With(labels).Observe(time.Since(start).Seconds())
	}
}
