package txmgr

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/scroll-fleet/deployer/pkg/chainclient"
	"github.com/scroll-fleet/deployer/pkg/logger"
	"github.com/scroll-fleet/deployer/pkg/metrics"
)

// Lifecycle submits transaction intents on a single chain
type Lifecycle struct {
	client *chainclient.Client
	waiter *ReceiptWaiter
	logger logger.Logger
}

// NewLifecycle creates a lifecycle for the given chain
func NewLifecycle(client *chainclient.Client, waiter *ReceiptWaiter, log logger.Logger) *Lifecycle {
	return &Lifecycle{
		client: client,
		waiter: waiter,
		logger: log,
	}
}

// Submit runs an intent through estimation, signing, submission and
// confirmation. Every step is a potential exit point; the returned outcome is
// terminal and drives all caller branching.
func (l *Lifecycle) Submit(ctx context.Context, intent *Intent, key *ecdsa.PrivateKey) Outcome {
	msg := ethereum.CallMsg{
		From:  intent.From,
		To:    intent.To,
		Value: intent.Value,
		Data:  intent.Data,
	}
	intent.Fee.ApplyToCallMsg(&msg)

	gas, err := l.client.Backend.EstimateGas(ctx, msg)
	if err != nil {
		if IsInsufficientFunds(err) {
			return Outcome{Kind: OutcomeInsufficientFunds, Err: err}
		}
		return Outcome{Kind: OutcomeEstimationFailed, Err: err}
	}
	intent.Gas = gas

	signer := types.LatestSignerForChainID(intent.ChainID)
	tx, err := types.SignNewTx(key, signer, l.txData(intent))
	if err != nil {
		return Outcome{Kind: OutcomeEstimationFailed, Err: err}
	}

	if err := l.client.Backend.SendTransaction(ctx, tx); err != nil {
		return Outcome{Kind: OutcomeEstimationFailed, Err: err}
	}

	l.logger.InfoWithChain(l.client.ChainID, "Transaction: %s", l.client.ExplorerTxURL(tx.Hash()))

	outcome := l.waiter.Await(ctx, tx.Hash())
	if outcome.Receipt != nil {
		metrics.GasUsed.WithLabelValues(strconv.Itoa(l.client.ChainID)).Observe(float64(outcome.Receipt.GasUsed))
	}
	return outcome
}

// txData builds the wire transaction for the intent, choosing the transaction
// type from the fee quote
func (l *Lifecycle) txData(intent *Intent) types.TxData {
	if intent.Fee.Dynamic {
		return &types.DynamicFeeTx{
			ChainID:   intent.ChainID,
			Nonce:     intent.Nonce,
			GasTipCap: intent.Fee.MaxPriorityFeePerGas,
			GasFeeCap: intent.Fee.MaxFeePerGas,
			Gas:       intent.Gas,
			To:        intent.To,
			Value:     intent.Value,
			Data:      intent.Data,
		}
	}
	return &types.LegacyTx{
		Nonce:    intent.Nonce,
		GasPrice: intent.Fee.GasPrice,
		Gas:      intent.Gas,
		To:       intent.To,
		Value:    intent.Value,
		Data:     intent.Data,
	}
}

// IsInsufficientFunds reports whether an estimation error means the account
// cannot cover the transaction. The structured error is checked first; the
// substring match is a last-resort heuristic for errors that arrive
// flattened through the RPC layer.
func IsInsufficientFunds(err error) bool {
	if errors.Is(err, core.ErrInsufficientFunds) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "insufficient funds")
}
