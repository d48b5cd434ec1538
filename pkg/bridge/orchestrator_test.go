package bridge

import (
	"context"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scroll-fleet/deployer/pkg/accounts"
	"github.com/scroll-fleet/deployer/pkg/chainclient"
	"github.com/scroll-fleet/deployer/pkg/chainclient/mocks"
	"github.com/scroll-fleet/deployer/pkg/config"
	"github.com/scroll-fleet/deployer/pkg/fees"
	"github.com/scroll-fleet/deployer/pkg/logger"
	"github.com/scroll-fleet/deployer/pkg/txmgr"
)

type fixedSuggester struct {
	quote *fees.Quote
}

func (s *fixedSuggester) Suggest(_ context.Context, _ int) (*fees.Quote, error) {
	return s.quote, nil
}

func testAccount(t *testing.T) accounts.Account {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return accounts.Account{Key: key, Address: crypto.PubkeyToAddress(key.PublicKey)}
}

func newTestOrchestrator(t *testing.T, sourceBackend, destBackend *mocks.Backend) *Orchestrator {
	t.Helper()
	log := &logger.EmptyLogger{}

	source := chainclient.NewWithBackend(config.ChainEndpoint{
		ChainID:     config.ArbitrumChainID,
		ExplorerURL: "https://arbiscan.io/tx/",
	}, sourceBackend, log)
	dest := chainclient.NewWithBackend(config.ChainEndpoint{
		ChainID: config.ScrollChainID,
	}, destBackend, log)

	estimator := fees.NewEstimator(&fixedSuggester{quote: fees.DynamicQuote(
		big.NewInt(100000000), big.NewInt(10000000),
	)}, log)
	lifecycle := txmgr.NewLifecycle(source,
		txmgr.NewReceiptWaiter(source, time.Millisecond, time.Second, log), log)

	orch, err := New(source, dest, estimator, lifecycle, Options{
		Contract:     common.HexToAddress(config.MerklyBridgeAddress),
		DstChainID:   config.ScrollLayerZeroChainID,
		DstGasLimit:  config.BridgeDstGasLimit,
		PollInterval: time.Millisecond,
		WaitTimeout:  time.Second,
	}, log)
	require.NoError(t, err)
	return orch
}

// feeQuoteResult encodes an estimateSendFee return value the way the contract
// would
func feeQuoteResult(t *testing.T, nativeFee, zroFee *big.Int) []byte {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(bridgeABI))
	require.NoError(t, err)
	out, err := parsed.Methods["estimateSendFee"].Outputs.Pack(nativeFee, zroFee)
	require.NoError(t, err)
	return out
}

func TestEnsureFundedBridgesAndWaitsForSettlement(t *testing.T) {
	acct := testAccount(t)
	amount := big.NewInt(4000000000000000)
	nativeFee := big.NewInt(300000000000000)
	zroFee := big.NewInt(0)

	quoted := feeQuoteResult(t, nativeFee, zroFee)
	sourceBackend := &mocks.Backend{
		CallContractFn: func(_ context.Context, _ ethereum.CallMsg) ([]byte, error) {
			return quoted, nil
		},
	}
	destBackend := &mocks.Backend{
		BalanceAtFn: func(_ context.Context, _ common.Address) (*big.Int, error) {
			return big.NewInt(5000000000000000), nil
		},
	}

	orch := newTestOrchestrator(t, sourceBackend, destBackend)

	err := orch.EnsureFunded(context.Background(), acct, amount, big.NewInt(0))
	require.NoError(t, err)

	require.Equal(t, 1, sourceBackend.SentCount())
	tx := sourceBackend.SentTransactions[0]

	// The transaction carries the bridged amount plus both protocol fees
	expected := new(big.Int).Add(amount, nativeFee)
	expected.Add(expected, zroFee)
	assert.Equal(t, 0, expected.Cmp(tx.Value()))
	assert.Equal(t, common.HexToAddress(config.MerklyBridgeAddress), *tx.To())
}

func TestEnsureFundedRejectsOversizeAmount(t *testing.T) {
	acct := testAccount(t)
	sourceBackend := &mocks.Backend{}
	destBackend := &mocks.Backend{}
	orch := newTestOrchestrator(t, sourceBackend, destBackend)

	oversize := new(big.Int).Exp(big.NewInt(16), big.NewInt(13), nil)
	err := orch.EnsureFunded(context.Background(), acct, oversize, big.NewInt(0))
	require.Error(t, err)
	assert.Equal(t, 0, sourceBackend.SentCount())
}

func TestEnsureFundedFailsWhenSettlementNeverArrives(t *testing.T) {
	acct := testAccount(t)
	quoted := feeQuoteResult(t, big.NewInt(1), big.NewInt(0))

	sourceBackend := &mocks.Backend{
		CallContractFn: func(_ context.Context, _ ethereum.CallMsg) ([]byte, error) {
			return quoted, nil
		},
	}
	// Destination balance never rises above the pre-bridge balance
	destBackend := &mocks.Backend{
		BalanceAtFn: func(_ context.Context, _ common.Address) (*big.Int, error) {
			return big.NewInt(0), nil
		},
	}

	orch := newTestOrchestrator(t, sourceBackend, destBackend)
	orch.timeout = 20 * time.Millisecond

	err := orch.EnsureFunded(context.Background(), acct, big.NewInt(1000), big.NewInt(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settlement")
}
