package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CheckoutSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_submissions_total",
			Help: "Checkout submissions by result",
		},
		[]string{"result"},
	)

	PaymentConfirmations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_confirmations_total",
			Help: "Provider payment notifications by result",
		},
		[]string{"result"},
	)

	ProviderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Outbound invoicing provider requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Time taken by invoicing provider requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	EmailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Transactional emails by kind and result",
		},
		[]string{"kind", "result"},
	)

	JobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_job_runs_total",
			Help: "Background job runs by job and outcome",
		},
		[]string{"job", "outcome"},
	)
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		CheckoutSubmissions,
		PaymentConfirmations,
		ProviderRequests,
		ProviderRequestDuration,
		EmailsSent,
		JobRuns,
	)
}
