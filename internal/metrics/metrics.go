package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hallbooking"

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_created_total",
			Help:      "Count of bookings created by payment mode.",
		},
		[]string{"payment_mode"},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflict_total",
			Help:      "Count of booking attempts rejected because the hall was taken.",
		},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled by users.",
		},
	)

	bookingExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_expired_total",
			Help:      "Count of unpaid online bookings released by the sweeper.",
		},
	)

	paymentVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_verification_total",
			Help:      "Count of payment verifications by result.",
		},
		[]string{"result"},
	)

	txRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_tx_retry_total",
			Help:      "Count of serializable transactions retried after a conflict.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingConflicts, bookingCancelled,
			bookingExpired, paymentVerifications, txRetries)
	})
}

func IncBookingCreated(paymentMode string) {
	bookingCreated.WithLabelValues(paymentMode).Inc()
}

func IncBookingConflict() {
	bookingConflicts.Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func AddBookingExpired(n int) {
	bookingExpired.Add(float64(n))
}

func IncPaymentVerification(result string) {
	paymentVerifications.WithLabelValues(result).Inc()
}

// IncTxRetry matches repository.RetryHook.
func IncTxRetry(int, error) {
	txRetries.Inc()
}
