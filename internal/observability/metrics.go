package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the transaction pipeline.
type Metrics struct {
	// Pipeline
	TxApplied       *prometheus.CounterVec
	TxRejected      *prometheus.CounterVec
	DecodeFailures  prometheus.Counter
	ProcessDuration prometheus.Histogram
	ChannelSize     prometheus.Gauge
	ChannelCapacity prometheus.Gauge

	// Account store
	AccountsActive prometheus.Gauge
	AccountsLocked prometheus.Gauge

	// Reporting
	SnapshotDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics on the default registry.
func NewMetrics() *Metrics {
	return newMetrics(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry registers on a caller-supplied registry; tests
// use this to avoid duplicate-registration panics.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	return newMetrics(reg)
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	durationBuckets := []float64{
		0.000001, 0.000005, 0.00001, 0.000025, 0.00005,
		0.0001, 0.00025, 0.0005, 0.001, 0.002, 0.005, 0.01,
	}

	factory := promauto.With(reg)

	return &Metrics{
		TxApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pay_tx_applied_total",
			Help: "Transactions applied successfully, by kind.",
		}, []string{"kind"}),

		TxRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pay_tx_rejected_total",
			Help: "Transactions rejected by the account state machine, by kind and reason.",
		}, []string{"kind", "reason"}),

		DecodeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "pay_decode_failures_total",
			Help: "Input records that failed to decode. Decode failures stop the producer.",
		}),

		ProcessDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pay_process_duration_seconds",
			Help:    "Latency of a single account-store apply.",
			Buckets: durationBuckets,
		}),

		ChannelSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pay_channel_size",
			Help: "Current depth of the transaction channel.",
		}),

		ChannelCapacity: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pay_channel_capacity",
			Help: "Configured capacity of the transaction channel.",
		}),

		AccountsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pay_accounts_active",
			Help: "Number of accounts touched by the stream so far.",
		}),

		AccountsLocked: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pay_accounts_locked",
			Help: "Number of accounts locked by a chargeback.",
		}),

		SnapshotDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pay_snapshot_duration_seconds",
			Help:    "Latency of copying the full account map for reporting.",
			Buckets: durationBuckets,
		}),
	}
}
