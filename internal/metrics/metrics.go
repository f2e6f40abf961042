package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "carrental",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		},
		[]string{"endpoint", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "carrental",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "carrental",
			Name:      "bookings_created_total",
			Help:      "Bookings accepted by the validator.",
		},
	)

	bookingsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "carrental",
			Name:      "bookings_cancelled_total",
			Help:      "Bookings cancelled by their owners.",
		},
	)

	paymentIntents = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "carrental",
			Name:      "payment_intents_total",
			Help:      "Payment intents created with the processor.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, bookingsCreated, bookingsCancelled, paymentIntents)
	})
}

// ObserveHTTP records one request for an endpoint label.
func ObserveHTTP(endpoint, status string, dur time.Duration) {
	httpRequests.WithLabelValues(endpoint, status).Inc()
	httpDuration.WithLabelValues(endpoint).Observe(dur.Seconds())
}

func IncBookingCreated()   { bookingsCreated.Inc() }
func IncBookingCancelled() { bookingsCancelled.Inc() }
func IncPaymentIntent()    { paymentIntents.Inc() }
