package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Medication operation labels.
const (
	OpList   = "list"
	OpAdd    = "add"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Metrics holds application-wide Prometheus metrics that do not belong to a single module.
type Metrics struct {
	MedicationOps    *prometheus.CounterVec
	MedicationErrors *prometheus.CounterVec
	StoreHealthy     *prometheus.GaugeVec
}

// NewRegistry returns a registry carrying the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New creates and registers the metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		MedicationOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "carehub_medication_operations_total",
			Help: "Total number of medication operations, by operation",
		}, []string{"op"}),
		MedicationErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "carehub_medication_errors_total",
			Help: "Total number of failed medication operations, by operation and code",
		}, []string{"op", "code"}),
		StoreHealthy: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "carehub_store_healthy",
			Help: "1 when the last health check of the store succeeded, 0 otherwise",
		}, []string{"backend"}),
	}
}

func (m *Metrics) IncMedicationOp(op string) {
	m.MedicationOps.WithLabelValues(op).Inc()
}

func (m *Metrics) IncMedicationError(op, code string) {
	m.MedicationErrors.WithLabelValues(op, code).Inc()
}

func (m *Metrics) SetStoreHealthy(backend string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1
	}
	m.StoreHealthy.WithLabelValues(backend).Set(v)
}
