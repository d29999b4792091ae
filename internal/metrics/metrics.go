package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BillsGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bills_generated_total",
			Help: "Bills generated since start",
		},
	)

	BillsPaidTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bills_paid_total",
			Help: "Bills marked paid since start",
		},
	)
)
