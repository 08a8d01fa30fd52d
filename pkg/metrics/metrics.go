package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics ledger collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	submissions *prometheus.CounterVec
	fittings    *prometheus.CounterVec
	attendance  *prometheus.CounterVec
	txDuration  *prometheus.HistogramVec
	alerts      *prometheus.GaugeVec
}

// New registers the ledger collectors plus Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "daily_entry_submissions_total",
				Help: "Daily entry submissions by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		fittings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitting_transitions_total",
				Help: "Item fit and remove transitions",
			},
			[]string{"transition"},
		),
		attendance: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "attendance_upserts_total",
				Help: "Attendance rows written by mode",
			},
			[]string{"mode"},
		),
		txDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "daily_entry_tx_duration_seconds",
				Help:    "Wall time of daily entry transactions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		alerts: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "maintenance_alerts",
				Help: "Maintenance alerts from the last fleet scan by severity",
			},
			[]string{"severity"},
		),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.submissions, m.fittings, m.attendance, m.txDuration, m.alerts,
	)
	return m
}

// ObserveSubmission counts a create/update outcome and its transaction time.
func (m *Metrics) ObserveSubmission(operation, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(operation, outcome).Inc()
	m.txDuration.WithLabelValues(operation).Observe(took.Seconds())
}

// IncFitting counts a "fit" or "remove" transition.
func (m *Metrics) IncFitting(transition string) {
	if m == nil {
		return
	}
	m.fittings.WithLabelValues(transition).Inc()
}

// AddAttendance counts rows written in "single", "batch" or "entry" mode.
func (m *Metrics) AddAttendance(mode string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.attendance.WithLabelValues(mode).Add(float64(n))
}

// SetAlerts publishes the alert count of each severity.
func (m *Metrics) SetAlerts(counts map[string]int) {
	if m == nil {
		return
	}
	for severity, n := range counts {
		m.alerts.WithLabelValues(severity).Set(float64(n))
	}
}
