// Package deployer runs the per-account deployment state machine and the
// fleet loop across accounts.
package deployer

import (
	"context"
	"fmt"
	"math/big"
	"math/rand"
	"strconv"

	"github.com/scroll-fleet/deployer/pkg/accounts"
	"github.com/scroll-fleet/deployer/pkg/chainclient"
	"github.com/scroll-fleet/deployer/pkg/compiler"
	"github.com/scroll-fleet/deployer/pkg/contracts"
	"github.com/scroll-fleet/deployer/pkg/fees"
	"github.com/scroll-fleet/deployer/pkg/logger"
	"github.com/scroll-fleet/deployer/pkg/metrics"
	"github.com/scroll-fleet/deployer/pkg/txmgr"
)

// Funder tops up an account on the destination chain when its balance is
// below the bridge threshold
type Funder interface {
	EnsureFunded(ctx context.Context, acct accounts.Account, amount, preBalance *big.Int) error
}

// Orchestrator drives a single account through
// gas gate → generate → compile → fund → deploy → confirm
type Orchestrator struct {
	dest         *chainclient.Client
	gasGate      *chainclient.GasGate
	estimator    *fees.Estimator
	funder       Funder
	compiler     compiler.Compiler
	lifecycle    *txmgr.Lifecycle
	bridgeAmount *big.Int
	genOpts      contracts.GenOptions
	rng          *rand.Rand
	logger       logger.Logger
}

// NewOrchestrator creates a deployment orchestrator for the destination chain
func NewOrchestrator(
	dest *chainclient.Client,
	gasGate *chainclient.GasGate,
	estimator *fees.Estimator,
	funder Funder,
	comp compiler.Compiler,
	lifecycle *txmgr.Lifecycle,
	bridgeAmount *big.Int,
	genOpts contracts.GenOptions,
	rng *rand.Rand,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		dest:         dest,
		gasGate:      gasGate,
		estimator:    estimator,
		funder:       funder,
		compiler:     comp,
		lifecycle:    lifecycle,
		bridgeAmount: bridgeAmount,
		genOpts:      genOpts,
		rng:          rng,
		logger:       log,
	}
}

// DeployForAccount deploys one randomly generated contract for the account.
// Any error is terminal for this account only; the fleet run continues.
func (o *Orchestrator) DeployForAccount(ctx context.Context, acct accounts.Account) error {
	o.logger.InfoWithChain(o.dest.ChainID, "Deploying contract for account %s", acct.Address.Hex())

	if err := o.gasGate.AwaitAcceptableGas(ctx); err != nil {
		return o.failure("gas_gate", err)
	}

	generated := contracts.Generate(o.rng, o.genOpts)
	o.logger.DebugWithChain(o.dest.ChainID, "Generated contract %s", generated.Name)

	artifact, err := o.compiler.Compile(ctx, generated.Source, generated.Name)
	if err != nil {
		return o.failure("compile", fmt.Errorf("failed to compile contract %s: %w", generated.Name, err))
	}

	balance, err := o.dest.Balance(ctx, acct.Address)
	if err != nil {
		return o.failure("balance", err)
	}

	if balance.Cmp(o.bridgeAmount) < 0 {
		if err := o.funder.EnsureFunded(ctx, acct, o.bridgeAmount, balance); err != nil {
			return o.failure("bridge", err)
		}
	}

	quote, err := o.estimator.SuggestFee(ctx, o.dest.ChainID, o.dest.Backend)
	if err != nil {
		return o.failure("fee_estimate", err)
	}

	nonce, err := txmgr.NewNonceSource(o.dest, acct.Address).Next(ctx)
	if err != nil {
		return o.failure("nonce", err)
	}

	intent := &txmgr.Intent{
		ChainID: big.NewInt(int64(o.dest.ChainID)),
		Nonce:   nonce,
		From:    acct.Address,
		To:      nil, // contract creation
		Value:   big.NewInt(0),
		Data:    artifact.Bytecode,
		Fee:     quote,
	}

	outcome := o.lifecycle.Submit(ctx, intent, acct.Key)
	switch outcome.Kind {
	case txmgr.OutcomeConfirmed:
		metrics.ContractsDeployed.WithLabelValues(strconv.Itoa(o.dest.ChainID)).Inc()
		o.logger.InfoWithChain(o.dest.ChainID, "Contract %s deployed at address %s",
			generated.Name, outcome.Receipt.ContractAddress.Hex())
		return nil
	case txmgr.OutcomeInsufficientFunds:
		return o.failure(outcome.Kind.String(),
			fmt.Errorf("insufficient funds to deploy contract for account %s", acct.Address.Hex()))
	default:
		return o.failure(outcome.Kind.String(),
			fmt.Errorf("deployment %s for account %s: %w", outcome.Kind, acct.Address.Hex(), outcomeErr(outcome)))
	}
}

func (o *Orchestrator) failure(reason string, err error) error {
	metrics.DeploymentFailures.WithLabelValues(strconv.Itoa(o.dest.ChainID), reason).Inc()
	return err
}

func outcomeErr(outcome txmgr.Outcome) error {
	if outcome.Err != nil {
		return outcome.Err
	}
	return fmt.Errorf("transaction %s", outcome.TxHash.Hex())
}
