package chainclient

import (
	"context"
	"strconv"
	"time"

	"github.com/scroll-fleet/deployer/pkg/logger"
	"github.com/scroll-fleet/deployer/pkg/metrics"
)

// GasGate blocks until the reference chain's gas price drops to an acceptable level
type GasGate struct {
	client      *Client
	ceilingGwei float64
	interval    time.Duration
	logger      logger.Logger
}

// NewGasGate creates a gate against the given reference chain client
func NewGasGate(client *Client, ceilingGwei float64, interval time.Duration, log logger.Logger) *GasGate {
	return &GasGate{
		client:      client,
		ceilingGwei: ceilingGwei,
		interval:    interval,
		logger:      log,
	}
}

// AwaitAcceptableGas polls the reference chain's gas price until it is at or
// below the ceiling. The wait has no upper bound; cancelling the context is
// the only way to abandon it. Transient RPC failures are logged and retried
// without counting as a ceiling check.
func (g *GasGate) AwaitAcceptableGas(ctx context.Context) error {
	start := time.Now()

	for {
		gwei, err := g.client.GasPriceGwei(ctx)
		if err != nil {
			g.logger.ErrorWithChain(g.client.ChainID, "Failed to get gas price: %v", err)
		} else {
			metrics.GasPrice.WithLabelValues(strconv.Itoa(g.client.ChainID)).Set(gwei)
			if gwei <= g.ceilingGwei {
				metrics.GasGateWaitTime.Observe(time.Since(start).Seconds())
				g.logger.DebugWithChain(g.client.ChainID, "Gas price %.2f gwei at or below ceiling %.2f gwei", gwei, g.ceilingGwei)
				return nil
			}
			g.logger.InfoWithChain(g.client.ChainID, "Gas price %.2f gwei above ceiling %.2f gwei, waiting for it to decrease", gwei, g.ceilingGwei)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.interval):
		}
	}
}
