package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "turnero",
			Name:      "http_requests_total",
			Help:      "Count of API requests by handler.",
		},
		[]string{"handler"},
	)

	appointmentCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "turnero",
			Name:      "appointment_created_total",
			Help:      "Count of appointments created by origin.",
		},
		[]string{"origin"},
	)

	statusTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "turnero",
			Name:      "status_transition_total",
			Help:      "Count of status transitions by new status.",
		},
		[]string{"status"},
	)

	slotBlocked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "turnero",
			Name:      "slot_blocked_total",
			Help:      "Count of slots blocked.",
		},
	)

	slotUnblocked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "turnero",
			Name:      "slot_unblocked_total",
			Help:      "Count of slots unblocked.",
		},
	)

	absenceCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "turnero",
			Name:      "absence_created_total",
			Help:      "Count of doctor absences created.",
		},
	)

	reminderSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "turnero",
			Name:      "reminder_sent_total",
			Help:      "Count of agenda reminders sent.",
		},
	)

	reminderFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "turnero",
			Name:      "reminder_failed_total",
			Help:      "Count of agenda reminders that failed to send.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests, appointmentCreated, statusTransition,
			slotBlocked, slotUnblocked, absenceCreated,
			reminderSent, reminderFailed,
		)
	})
}

func IncHTTP(handler string) {
	httpRequests.WithLabelValues(handler).Inc()
}

func IncAppointmentCreated(origin string) {
	appointmentCreated.WithLabelValues(origin).Inc()
}

func IncStatusTransition(status string) {
	statusTransition.WithLabelValues(status).Inc()
}

func IncSlotBlocked() {
	slotBlocked.Inc()
}

func IncSlotUnblocked() {
	slotUnblocked.Inc()
}

func IncAbsenceCreated() {
	absenceCreated.Inc()
}

func IncReminderSent() {
	reminderSent.Inc()
}

func IncReminderFailed() {
	reminderFailed.Inc()
}
