package txmgr

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scroll-fleet/deployer/pkg/chainclient"
	"github.com/scroll-fleet/deployer/pkg/chainclient/mocks"
	"github.com/scroll-fleet/deployer/pkg/config"
	"github.com/scroll-fleet/deployer/pkg/fees"
	"github.com/scroll-fleet/deployer/pkg/logger"
)

func testKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key
}

func newTestLifecycle(backend *mocks.Backend) *Lifecycle {
	log := &logger.EmptyLogger{}
	client := chainclient.NewWithBackend(config.ChainEndpoint{
		ChainID:     config.ScrollChainID,
		ExplorerURL: "https://scrollscan.com/tx/",
	}, backend, log)
	waiter := NewReceiptWaiter(client, time.Millisecond, 100*time.Millisecond, log)
	return NewLifecycle(client, waiter, log)
}

func testIntent(key *ecdsa.PrivateKey) *Intent {
	to := common.HexToAddress("0x1234567890123456789012345678901234567890")
	return &Intent{
		ChainID: big.NewInt(int64(config.ScrollChainID)),
		Nonce:   0,
		From:    crypto.PubkeyToAddress(key.PublicKey),
		To:      &to,
		Value:   big.NewInt(1000),
		Fee:     fees.LegacyQuote(big.NewInt(1000000000)),
	}
}

func TestSubmitConfirmsTransaction(t *testing.T) {
	backend := &mocks.Backend{}
	lifecycle := newTestLifecycle(backend)
	key := testKey(t)

	outcome := lifecycle.Submit(context.Background(), testIntent(key), key)

	assert.Equal(t, OutcomeConfirmed, outcome.Kind)
	require.NotNil(t, outcome.Receipt)
	assert.Equal(t, 1, backend.SentCount())
}

func TestSubmitClassifiesInsufficientFunds(t *testing.T) {
	backend := &mocks.Backend{
		EstimateGasFn: func(_ context.Context, _ ethereum.CallMsg) (uint64, error) {
			return 0, fmt.Errorf("insufficient funds for gas * price + value")
		},
	}
	lifecycle := newTestLifecycle(backend)
	key := testKey(t)

	outcome := lifecycle.Submit(context.Background(), testIntent(key), key)

	assert.Equal(t, OutcomeInsufficientFunds, outcome.Kind)
	// Nothing is signed or sent when estimation already failed
	assert.Equal(t, 0, backend.SentCount())
}

func TestSubmitReportsEstimationFailure(t *testing.T) {
	backend := &mocks.Backend{
		EstimateGasFn: func(_ context.Context, _ ethereum.CallMsg) (uint64, error) {
			return 0, errors.New("execution reverted")
		},
	}
	lifecycle := newTestLifecycle(backend)
	key := testKey(t)

	outcome := lifecycle.Submit(context.Background(), testIntent(key), key)

	assert.Equal(t, OutcomeEstimationFailed, outcome.Kind)
	assert.Equal(t, 0, backend.SentCount())
}

func TestSubmitReportsRevertedTransaction(t *testing.T) {
	backend := &mocks.Backend{
		TransactionReceiptFn: func(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
			return &types.Receipt{Status: types.ReceiptStatusFailed, TxHash: txHash}, nil
		},
	}
	lifecycle := newTestLifecycle(backend)
	key := testKey(t)

	outcome := lifecycle.Submit(context.Background(), testIntent(key), key)

	assert.Equal(t, OutcomeReverted, outcome.Kind)
}

func TestSubmitTimesOutWithoutReceipt(t *testing.T) {
	backend := &mocks.Backend{
		TransactionReceiptFn: func(_ context.Context, _ common.Hash) (*types.Receipt, error) {
			return nil, ethereum.NotFound
		},
	}
	lifecycle := newTestLifecycle(backend)
	key := testKey(t)

	outcome := lifecycle.Submit(context.Background(), testIntent(key), key)

	assert.Equal(t, OutcomeTimedOut, outcome.Kind)
	assert.Error(t, outcome.Err)
}

func TestSubmitUsesDynamicFeeTransactionForDynamicQuotes(t *testing.T) {
	backend := &mocks.Backend{}
	lifecycle := newTestLifecycle(backend)
	key := testKey(t)

	intent := testIntent(key)
	intent.Fee = fees.DynamicQuote(big.NewInt(2000000000), big.NewInt(100000000))

	outcome := lifecycle.Submit(context.Background(), intent, key)
	require.Equal(t, OutcomeConfirmed, outcome.Kind)

	require.Equal(t, 1, backend.SentCount())
	assert.Equal(t, uint8(types.DynamicFeeTxType), backend.SentTransactions[0].Type())
}

func TestIsInsufficientFunds(t *testing.T) {
	assert.True(t, IsInsufficientFunds(errors.New("insufficient funds for transfer")))
	assert.True(t, IsInsufficientFunds(errors.New("err: Insufficient Funds for gas")))
	assert.False(t, IsInsufficientFunds(errors.New("nonce too low")))
}
