package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application metrics shared by the API and the scheduler.
type Metrics struct {
	JobRuns     *prometheus.CounterVec
	JobFailures *prometheus.CounterVec
	JobDuration *prometheus.HistogramVec

	RemindersSent     *prometheus.CounterVec
	InvoicesIssued    prometheus.Counter
	InvoiceDeliveries *prometheus.CounterVec

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all application metrics under the namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		JobRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Total number of scheduled job runs",
		}, []string{"job"}),
		JobFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_failures_total",
			Help:      "Total number of scheduled job runs that panicked",
		}, []string{"job"}),
		JobDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Duration of scheduled job runs",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"job"}),

		RemindersSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Total number of appointment reminders sent per channel",
		}, []string{"channel"}),
		InvoicesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_issued_total",
			Help:      "Total number of monthly invoices created",
		}),
		InvoiceDeliveries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_deliveries_total",
			Help:      "Total number of invoice notifications delivered per channel",
		}, []string{"channel"}),

		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"method", "path"}),
	}
}
