package deployer

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/scroll-fleet/deployer/pkg/accounts"
	"github.com/scroll-fleet/deployer/pkg/circuitbreaker"
	"github.com/scroll-fleet/deployer/pkg/logger"
	"github.com/scroll-fleet/deployer/pkg/metrics"
)

// AccountDeployer deploys one contract for one account
type AccountDeployer interface {
	DeployForAccount(ctx context.Context, acct accounts.Account) error
}

// Tally is the run-level success/failure accounting
type Tally struct {
	Deployed int
	Failed   int
}

// Runner iterates accounts strictly sequentially, pacing them with a random
// delay so the fleet leaves no recognizable on-chain cadence.
type Runner struct {
	deployer AccountDeployer
	breaker  *circuitbreaker.CircuitBreaker
	chainID  int
	minSleep time.Duration
	maxSleep time.Duration
	rng      *rand.Rand
	logger   logger.Logger

	// sleep is replaceable in tests
	sleep func(ctx context.Context, d time.Duration)

	mu    sync.Mutex
	tally Tally
}

// NewRunner creates a fleet runner
func NewRunner(
	deployer AccountDeployer,
	breaker *circuitbreaker.CircuitBreaker,
	chainID int,
	minSleep, maxSleep time.Duration,
	rng *rand.Rand,
	log logger.Logger,
) *Runner {
	return &Runner{
		deployer: deployer,
		breaker:  breaker,
		chainID:  chainID,
		minSleep: minSleep,
		maxSleep: maxSleep,
		rng:      rng,
		logger:   log,
		sleep:    sleepWithContext,
	}
}

// Run processes every account in order and returns the final tally. One
// account's failure never aborts the run; the context cancelling does.
func (r *Runner) Run(ctx context.Context, accts []accounts.Account) Tally {
	r.logger.Info("Starting contract deployment")
	r.logger.Info("Loaded %d accounts", len(accts))

	for i, acct := range accts {
		if ctx.Err() != nil {
			r.logger.Notice("Run cancelled, stopping after %d accounts", i)
			break
		}
		metrics.AccountsRemaining.Set(float64(len(accts) - i))

		r.processAccount(ctx, acct)

		if i != len(accts)-1 {
			r.sleep(ctx, r.pacingDelay())
		}
	}
	metrics.AccountsRemaining.Set(0)

	tally := r.Snapshot()
	r.logger.Info("Deployed %d contracts", tally.Deployed)
	if tally.Failed > 0 {
		r.logger.Info("Failed to deploy %d contracts", tally.Failed)
	}
	return tally
}

func (r *Runner) processAccount(ctx context.Context, acct accounts.Account) {
	if r.breaker != nil && r.breaker.IsEnabled() && r.breaker.IsOpen() {
		r.logger.Notice("Circuit breaker open, skipping account %s", acct.Address.Hex())
		r.recordFailure()
		return
	}

	start := time.Now()
	err := r.deployer.DeployForAccount(ctx, acct)
	metrics.AccountProcessingTime.WithLabelValues(strconv.Itoa(r.chainID)).Observe(time.Since(start).Seconds())

	if err != nil {
		r.logger.Error("Failed to deploy contract for account %s: %v", acct.Address.Hex(), err)
		if r.breaker != nil {
			r.breaker.RecordFailure()
		}
		r.recordFailure()
		return
	}

	r.mu.Lock()
	r.tally.Deployed++
	r.mu.Unlock()
}

// Snapshot returns the current tally, safe for concurrent readers
func (r *Runner) Snapshot() Tally {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tally
}

func (r *Runner) recordFailure() {
	r.mu.Lock()
	r.tally.Failed++
	r.mu.Unlock()
}

// pacingDelay draws a uniformly random duration within the configured window
func (r *Runner) pacingDelay() time.Duration {
	if r.maxSleep <= r.minSleep {
		return r.minSleep
	}
	return r.minSleep + time.Duration(r.rng.Int63n(int64(r.maxSleep-r.minSleep)+1))
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
