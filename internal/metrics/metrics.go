package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы доставки уведомлений
const (
	NotificationSent          = "sent"
	NotificationFailed        = "failed"
	NotificationQueued        = "queued"
	NotificationEnqueueFailed = "enqueue_failed"
)

var (
	ComplaintsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "civicflow_complaints_created_total",
			Help: "Total number of complaints submitted",
		},
	)

	StatusUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civicflow_status_updates_total",
			Help: "Total number of persisted complaint status changes by new status",
		},
		[]string{"status"},
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civicflow_notifications_total",
			Help: "Status change notifications by delivery outcome",
		},
		[]string{"outcome"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civicflow_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "civicflow_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
