package metrics

import "github.com/prometheus/client_golang/prometheus"

// Notification kinds.
const (
	KindConfirmation  = "confirmation"
	KindPasswordReset = "password_reset"
)

// Notification outcomes.
const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// LifecycleMetrics exposes counters for notification dispatch and the
// read-time completion sweep.
type LifecycleMetrics struct {
	notificationsTotal *prometheus.CounterVec
	sweepCompleted     prometheus.Counter
	sweepFailures      prometheus.Counter
}

func NewLifecycleMetrics(reg prometheus.Registerer) *LifecycleMetrics {
	m := &LifecycleMetrics{
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hospital",
			Subsystem: "appointments",
			Name:      "notifications_total",
			Help:      "Notification attempts by kind and outcome",
		}, []string{"kind", "outcome"}),
		sweepCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hospital",
			Subsystem: "appointments",
			Name:      "sweep_completed_total",
			Help:      "Past appointments moved to COMPLETED while listing",
		}),
		sweepFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hospital",
			Subsystem: "appointments",
			Name:      "sweep_failures_total",
			Help:      "Completion updates that could not be persisted",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.notificationsTotal, m.sweepCompleted, m.sweepFailures)
	return m
}

func (m *LifecycleMetrics) ObserveNotification(kind, outcome string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *LifecycleMetrics) ObserveSweepCompleted() {
	if m == nil {
		return
	}
	m.sweepCompleted.Inc()
}

func (m *LifecycleMetrics) ObserveSweepFailure() {
	if m == nil {
		return
	}
	m.sweepFailures.Inc()
}
