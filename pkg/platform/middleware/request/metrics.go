package request

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP latency histogram shared by every route.
type Metrics struct {
	EndpointLatency *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		EndpointLatency: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "carehub_endpoint_latency_seconds",
			Help:    "HTTP request latency by route pattern, method and status code.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"endpoint", "method", "code"}),
	}
}

func (m *Metrics) Observe(endpoint, method string, status int, elapsed time.Duration) {
	m.EndpointLatency.WithLabelValues(endpoint, method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
