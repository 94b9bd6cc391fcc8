package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Login outcome labels.
const (
	LoginSuccess  = "success"
	LoginNotFound = "not_found"
	LoginMismatch = "mismatch"
	LoginError    = "error"
)

// Metrics holds Prometheus collectors for auth operations.
type Metrics struct {
	UsersRegistered    prometheus.Counter
	RegisterRejections *prometheus.CounterVec
	Logins             *prometheus.CounterVec
	GateRejections     *prometheus.CounterVec
	HashDurationMs     prometheus.Histogram
}

// New registers and returns auth metrics collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UsersRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "carehub_users_registered_total",
			Help: "Total number of users registered",
		}),
		RegisterRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "carehub_register_rejections_total",
			Help: "Total number of rejected registrations, by domain error code",
		}, []string{"code"}),
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "carehub_logins_total",
			Help: "Total number of login attempts, by result",
		}, []string{"result"}),
		GateRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "carehub_gate_rejections_total",
			Help: "Total number of requests rejected by the authentication gate, by reason",
		}, []string{"reason"}),
		HashDurationMs: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "carehub_password_hash_duration_ms",
			Help:    "Duration of password hashing in milliseconds",
			Buckets: []float64{50, 100, 200, 300, 500, 750, 1000, 2000},
		}),
	}
}

func (m *Metrics) IncUserRegistered() {
	m.UsersRegistered.Inc()
}

func (m *Metrics) IncRegisterRejection(code string) {
	m.RegisterRejections.WithLabelValues(code).Inc()
}

func (m *Metrics) IncLogin(result string) {
	m.Logins.WithLabelValues(result).Inc()
}

// IncGateRejection satisfies the gate's RejectionRecorder.
func (m *Metrics) IncGateRejection(reason string) {
	m.GateRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveHashDuration(durationMs float64) {
	m.HashDurationMs.Observe(durationMs)
}
