package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersRegistered        prometheus.Counter
	TokensIssued           prometheus.Counter
	RequestsCreated        prometheus.Counter
	Transitions            *prometheus.CounterVec
	TransitionConflicts    prometheus.Counter
	NotificationsPublished prometheus.Counter
	NotificationsDropped   prometheus.Counter
	HTTPDuration           *prometheus.HistogramVec
}

// New creates all metrics and registers them with reg. Tests pass a fresh
// prometheus.NewRegistry so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "shelterhub_users_registered_total",
			Help: "Total number of users registered",
		}),
		TokensIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "shelterhub_tokens_issued_total",
			Help: "Total number of access tokens issued",
		}),
		RequestsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "shelterhub_adoption_requests_created_total",
			Help: "Total number of adoption requests created",
		}),
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shelterhub_adoption_transitions_total",
			Help: "Workflow transitions by resulting status",
		}, []string{"status"}),
		TransitionConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "shelterhub_adoption_transition_conflicts_total",
			Help: "Transitions rejected by guards or lost version races",
		}),
		NotificationsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "shelterhub_notifications_published_total",
			Help: "Notification events delivered to the gateway",
		}),
		NotificationsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "shelterhub_notifications_dropped_total",
			Help: "Notification events dropped due to a full inbox",
		}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shelterhub_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
