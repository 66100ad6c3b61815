package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// API
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests."},
		[]string{"method", "code"},
	)

	// Dispatcher
	DispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dispatch_total", Help: "Dispatch invocations."},
		[]string{"result"}, // ok | rejected
	)
	AttemptTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "delivery_attempt_total", Help: "Delivery attempts by outcome."},
		[]string{"status"}, // success | failure
	)
	SendDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mail_send_duration_seconds",
			Help:    "Mail send latency per recipient.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms..~40s
		},
	)

	// Scheduler
	SweepUpdatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sweep_finished_total", Help: "Mailings force-finished by the sweep."},
	)
)

// MustRegister registers default + our collectors
func MustRegister() {
	prometheus.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		HTTPRequests,
		DispatchTotal, AttemptTotal, SendDuration,
		SweepUpdatedTotal,
	)
}
