package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckoutsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_submitted_total",
		Help: "Total number of successful checkout submissions",
	})

	CheckoutsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_failed_total",
		Help: "Total number of failed checkout attempts",
	}, []string{"reason"})

	CheckoutLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_latency_seconds",
		Help:    "Latency of the checkout transaction",
		Buckets: prometheus.DefBuckets,
	})

	PaymentsConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_confirmed_total",
		Help: "Total number of payment claims confirmed by an operator",
	})

	PaymentsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_rejected_total",
		Help: "Total number of payment claims rejected by an operator",
	})

	DecisionsDuplicateTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_decisions_duplicate_total",
		Help: "Total number of decisions on already-processed payment claims",
	})

	ListingsReleasedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "listings_released_total",
		Help: "Total number of listings returned to availability by rejection",
	})

	CartAddsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_adds_total",
		Help: "Total number of cart add attempts",
	}, []string{"result"})

	NotificationsPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_published_total",
		Help: "Total number of notification events published",
	})

	NotificationsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "Total number of notification events that failed to publish",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
