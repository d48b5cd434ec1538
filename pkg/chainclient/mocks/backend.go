// Package mocks provides a configurable in-memory Backend implementation for
// tests across the deployer packages.
package mocks

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend is a test double for chainclient.Backend. Behavior is driven by the
// optional function fields; unset fields fall back to permissive defaults.
type Backend struct {
	mu sync.Mutex

	SuggestGasPriceFn    func(ctx context.Context) (*big.Int, error)
	BalanceAtFn          func(ctx context.Context, account common.Address) (*big.Int, error)
	PendingNonceAtFn     func(ctx context.Context, account common.Address) (uint64, error)
	EstimateGasFn        func(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	CallContractFn       func(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
	SendTransactionFn    func(ctx context.Context, tx *types.Transaction) error
	TransactionReceiptFn func(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumberFn        func(ctx context.Context) (uint64, error)

	// Recorded calls
	GasPriceCalls    int
	EstimateGasCalls int
	SentTransactions []*types.Transaction
}

func (b *Backend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	b.mu.Lock()
	b.GasPriceCalls++
	b.mu.Unlock()
	if b.SuggestGasPriceFn != nil {
		return b.SuggestGasPriceFn(ctx)
	}
	return big.NewInt(2000000000), nil // 2 gwei
}

func (b *Backend) BalanceAt(ctx context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	if b.BalanceAtFn != nil {
		return b.BalanceAtFn(ctx, account)
	}
	return big.NewInt(0), nil
}

func (b *Backend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	if b.PendingNonceAtFn != nil {
		return b.PendingNonceAtFn(ctx, account)
	}
	return 0, nil
}

func (b *Backend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	b.mu.Lock()
	b.EstimateGasCalls++
	b.mu.Unlock()
	if b.EstimateGasFn != nil {
		return b.EstimateGasFn(ctx, msg)
	}
	return 150000, nil
}

func (b *Backend) CallContract(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if b.CallContractFn != nil {
		return b.CallContractFn(ctx, msg)
	}
	return nil, nil
}

func (b *Backend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	b.SentTransactions = append(b.SentTransactions, tx)
	b.mu.Unlock()
	if b.SendTransactionFn != nil {
		return b.SendTransactionFn(ctx, tx)
	}
	return nil
}

func (b *Backend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if b.TransactionReceiptFn != nil {
		return b.TransactionReceiptFn(ctx, txHash)
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: txHash}, nil
}

func (b *Backend) BlockNumber(ctx context.Context) (uint64, error) {
	if b.BlockNumberFn != nil {
		return b.BlockNumberFn(ctx)
	}
	return 1000, nil
}

// SentCount returns the number of transactions submitted to the backend
func (b *Backend) SentCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.SentTransactions)
}

// GasPriceSequence returns a SuggestGasPriceFn that serves the given gwei
// readings in order, repeating the last one once exhausted.
func GasPriceSequence(gwei ...int64) func(ctx context.Context) (*big.Int, error) {
	i := 0
	var mu sync.Mutex
	return func(_ context.Context) (*big.Int, error) {
		mu.Lock()
		defer mu.Unlock()
		idx := i
		if idx >= len(gwei) {
			idx = len(gwei) - 1
		}
		i++
		return new(big.Int).Mul(big.NewInt(gwei[idx]), big.NewInt(1000000000)), nil
	}
}
