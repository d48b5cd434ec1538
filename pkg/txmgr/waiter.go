package txmgr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/scroll-fleet/deployer/pkg/chainclient"
	"github.com/scroll-fleet/deployer/pkg/logger"
)

// ReceiptWaiter polls for transaction finality with bounded patience
type ReceiptWaiter struct {
	client   *chainclient.Client
	interval time.Duration
	timeout  time.Duration
	logger   logger.Logger
}

// NewReceiptWaiter creates a waiter polling at the given interval, giving up
// after the timeout
func NewReceiptWaiter(client *chainclient.Client, interval, timeout time.Duration, log logger.Logger) *ReceiptWaiter {
	return &ReceiptWaiter{
		client:   client,
		interval: interval,
		timeout:  timeout,
		logger:   log,
	}
}

// Await polls for the transaction's receipt until a definitive status
// arrives, the timeout elapses, or the context is cancelled. A missing
// receipt and transient RPC failures both keep the poll going.
func (w *ReceiptWaiter) Await(ctx context.Context, txHash common.Hash) Outcome {
	deadline := time.Now().Add(w.timeout)

	for {
		receipt, err := w.client.Backend.TransactionReceipt(ctx, txHash)
		switch {
		case err == nil:
			if receipt.Status == types.ReceiptStatusSuccessful {
				return Outcome{Kind: OutcomeConfirmed, TxHash: txHash, Receipt: receipt}
			}
			return Outcome{Kind: OutcomeReverted, TxHash: txHash, Receipt: receipt}
		case errors.Is(err, ethereum.NotFound):
			// Not mined yet
		default:
			w.logger.ErrorWithChain(w.client.ChainID, "Failed to get receipt for %s: %v", txHash.Hex(), err)
		}

		if time.Now().After(deadline) {
			return Outcome{
				Kind:   OutcomeTimedOut,
				TxHash: txHash,
				Err:    fmt.Errorf("no receipt for %s within %v", txHash.Hex(), w.timeout),
			}
		}

		select {
		case <-ctx.Done():
			return Outcome{Kind: OutcomeTimedOut, TxHash: txHash, Err: ctx.Err()}
		case <-time.After(w.interval):
		}
	}
}
