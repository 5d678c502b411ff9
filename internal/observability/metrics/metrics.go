package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bboard_registrations_total",
			Help: "Total number of registration attempts.",
		},
		[]string{"service", "result"},
	)

	ActivationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bboard_activations_total",
			Help: "Total number of account activation attempts.",
		},
		[]string{"service", "result"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bboard_logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"service", "result"},
	)

	BbsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bboard_bbs_total",
			Help: "Total number of listing writes by action.",
		},
		[]string{"service", "action", "result"},
	)

	CommentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bboard_comments_total",
			Help: "Total number of comment submissions.",
		},
		[]string{"service", "result"},
	)

	CleanupFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bboard_cleanup_failures_total",
			Help: "Total number of best-effort blob cleanup failures.",
		},
		[]string{"service"},
	)
)

func MustRegister(serviceName string) {
	HTTPRequestsTotal = HTTPRequestsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	HTTPRequestDurationSeconds = HTTPRequestDurationSeconds.MustCurryWith(prometheus.Labels{"service": serviceName}).(*prometheus.HistogramVec)
	RegistrationsTotal = RegistrationsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	ActivationsTotal = ActivationsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	LoginsTotal = LoginsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	BbsTotal = BbsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	CommentsTotal = CommentsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	CleanupFailuresTotal = CleanupFailuresTotal.MustCurryWith(prometheus.Labels{"service": serviceName})

	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		RegistrationsTotal,
		ActivationsTotal,
		LoginsTotal,
		BbsTotal,
		CommentsTotal,
		CleanupFailuresTotal,
	)
}
