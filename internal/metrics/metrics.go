package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pitchbook",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		},
		[]string{"endpoint", "status"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pitchbook",
			Name:      "bookings_created_total",
			Help:      "Reservations committed to the ledger.",
		},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pitchbook",
			Name:      "booking_conflicts_total",
			Help:      "Booking attempts rejected because the slot overlapped.",
		},
	)

	expensesRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pitchbook",
			Name:      "expenses_recorded_total",
			Help:      "Expense lines appended to the ledger.",
		},
	)

	mirrorTasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pitchbook",
			Name:      "mirror_tasks_total",
			Help:      "Spreadsheet mirror tasks by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			bookingsCreated,
			bookingConflicts,
			expensesRecorded,
			mirrorTasks,
		)
	})
}

// IncHTTP increments the request counter for an endpoint/status pair.
func IncHTTP(endpoint, status string) {
	httpRequests.WithLabelValues(endpoint, status).Inc()
}

func IncBookingCreated() {
	bookingsCreated.Inc()
}

func IncBookingConflict() {
	bookingConflicts.Inc()
}

func IncExpenseRecorded() {
	expensesRecorded.Inc()
}

// IncMirrorTask records a mirror task outcome ("ok" or "error").
func IncMirrorTask(outcome string) {
	mirrorTasks.WithLabelValues(outcome).Inc()
}
