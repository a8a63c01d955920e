package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Deposit metrics
	DepositsInitiated prometheus.Counter
	DepositsSettled   *prometheus.CounterVec
	DepositAmount     prometheus.Histogram
	WebhooksRejected  prometheus.Counter

	// Transfer metrics
	TransfersCompleted prometheus.Counter
	TransferDuration   prometheus.Histogram
	TransferAmount     prometheus.Histogram
	TransferErrors     *prometheus.CounterVec

	// Wallet metrics
	WalletsCreated   prometheus.Counter
	BalanceCacheHits *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
	EventsPending   prometheus.Gauge

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Deposit metrics
		DepositsInitiated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kobowallet_deposits_initiated_total",
			Help: "Total number of deposits initiated",
		}),
		DepositsSettled: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kobowallet_deposits_settled_total",
				Help: "Total number of deposits settled by outcome",
			},
			[]string{"outcome"},
		),
		DepositAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kobowallet_deposit_amount",
			Help:    "Deposit amounts in naira",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		}),
		WebhooksRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kobowallet_webhooks_rejected_total",
			Help: "Total number of webhook calls rejected for bad signatures",
		}),

		// Transfer metrics
		TransfersCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kobowallet_transfers_completed_total",
			Help: "Total number of transfers completed",
		}),
		TransferDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kobowallet_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kobowallet_transfer_amount",
			Help:    "Transfer amounts in naira",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransferErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kobowallet_transfer_errors_total",
				Help: "Total number of transfer errors by type",
			},
			[]string{"error_type"},
		),

		// Wallet metrics
		WalletsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kobowallet_wallets_created_total",
			Help: "Total number of wallets created",
		}),
		BalanceCacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kobowallet_balance_cache_total",
				Help: "Balance reads by cache outcome",
			},
			[]string{"outcome"},
		),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kobowallet_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kobowallet_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Outbox metrics
		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kobowallet_events_published_total",
				Help: "Total outbox events published by type",
			},
			[]string{"event_type"},
		),
		EventsPending: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "kobowallet_events_pending",
			Help: "Unpublished outbox events at last poll",
		}),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kobowallet_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kobowallet_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),
	}
}
