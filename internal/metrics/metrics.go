package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Transaction reads
	TransactionQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transaction_queries_total",
			Help: "Transaction read operations by outcome",
		},
		[]string{"op", "outcome"}, // op: list|get, outcome: ok|error|invalid
	)
	QueryLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transaction_query_duration_seconds",
			Help:    "Time spent serving transaction reads.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	// Seeding
	SeededRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seeded_records_total",
			Help: "Records written by the demo seeder",
		},
		[]string{"kind", "outcome"},
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	initOnce sync.Once
)

// Handler serves /metrics.
var Handler = promhttp.Handler

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestLatency,
			TransactionQueries,
			QueryLatency,
			SeededRecords,
			WorkerQueueDepth,
		)
	})
}
