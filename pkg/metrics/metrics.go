package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for monitoring
var (
	ContractsDeployed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deployer_contracts_deployed_total",
		Help: "The total number of successfully deployed contracts",
	}, []string{"chain_id"})

	DeploymentFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deployer_deployment_failures_total",
		Help: "The total number of failed deployment attempts by reason",
	}, []string{"chain_id", "reason"})

	BridgesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deployer_bridges_completed_total",
		Help: "The total number of completed cross-chain bridges",
	}, []string{"chain_id"})

	BridgeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deployer_bridge_failures_total",
		Help: "The total number of failed bridge attempts by reason",
	}, []string{"chain_id", "reason"})

	GasPrice = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "deployer_gas_price_gwei",
		Help: "Last observed gas price in gwei",
	}, []string{"chain_id"})

	GasUsed = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "deployer_gas_used",
		Help:    "Gas used by submitted transactions",
		Buckets: prometheus.ExponentialBuckets(21000, 2, 10), // Start at 21000 with 10 buckets doubling in size
	}, []string{"chain_id"})

	AccountProcessingTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "deployer_account_processing_seconds",
		Help:    "Time taken to process a single account",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12), // Start at 1s with 12 buckets doubling in size
	}, []string{"chain_id"})

	GasGateWaitTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "deployer_gas_gate_wait_seconds",
		Help:    "Time spent waiting for the gas price to drop below the ceiling",
		Buckets: prometheus.ExponentialBuckets(1, 2, 14),
	})

	AccountsRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "deployer_accounts_remaining",
		Help: "The number of accounts not yet processed in the current run",
	})
)
