package bridge

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/scroll-fleet/deployer/pkg/accounts"
	"github.com/scroll-fleet/deployer/pkg/chainclient"
	"github.com/scroll-fleet/deployer/pkg/fees"
	"github.com/scroll-fleet/deployer/pkg/logger"
	"github.com/scroll-fleet/deployer/pkg/metrics"
	"github.com/scroll-fleet/deployer/pkg/txmgr"
)

const bridgeABI = `[
	{
		"inputs": [
			{"internalType": "uint16", "name": "_dstChainId", "type": "uint16"},
			{"internalType": "bytes", "name": "_toAddress", "type": "bytes"},
			{"internalType": "bytes", "name": "_adapterParams", "type": "bytes"}
		],
		"name": "estimateSendFee",
		"outputs": [
			{"internalType": "uint256", "name": "nativeFee", "type": "uint256"},
			{"internalType": "uint256", "name": "zroFee", "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "uint16", "name": "_dstChainId", "type": "uint16"},
			{"internalType": "address", "name": "_to", "type": "address"},
			{"internalType": "bytes", "name": "_adapterParams", "type": "bytes"}
		],
		"name": "bridgeGas",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	}
]`

// Orchestrator drives the cross-chain funding of an account: quote the
// protocol fee, submit the bridge transaction on the source chain, then wait
// for the funds to land on the destination chain.
type Orchestrator struct {
	source      *chainclient.Client
	dest        *chainclient.Client
	estimator   *fees.Estimator
	lifecycle   *txmgr.Lifecycle
	contract    common.Address
	contractABI abi.ABI
	dstChainID  uint16
	dstGasLimit uint64
	interval    time.Duration
	timeout     time.Duration
	logger      logger.Logger
}

// Options configures a bridge orchestrator
type Options struct {
	Contract     common.Address
	DstChainID   uint16
	DstGasLimit  uint64
	PollInterval time.Duration
	WaitTimeout  time.Duration
}

// New creates a bridge orchestrator from the source chain to the destination chain
func New(source, dest *chainclient.Client, estimator *fees.Estimator, lifecycle *txmgr.Lifecycle, opts Options, log logger.Logger) (*Orchestrator, error) {
	parsed, err := abi.JSON(strings.NewReader(bridgeABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bridge ABI: %w", err)
	}

	return &Orchestrator{
		source:      source,
		dest:        dest,
		estimator:   estimator,
		lifecycle:   lifecycle,
		contract:    opts.Contract,
		contractABI: parsed,
		dstChainID:  opts.DstChainID,
		dstGasLimit: opts.DstGasLimit,
		interval:    opts.PollInterval,
		timeout:     opts.WaitTimeout,
		logger:      log,
	}, nil
}

// EnsureFunded bridges the amount from the source chain to the account on the
// destination chain and blocks until the destination balance rises above
// preBalance. The caller has already established that the destination balance
// is short; any failure here is terminal for the account.
func (o *Orchestrator) EnsureFunded(ctx context.Context, acct accounts.Account, amount, preBalance *big.Int) error {
	nonces := txmgr.NewNonceSource(o.source, acct.Address)
	o.logger.InfoWithChain(o.source.ChainID, "Bridging %s ETH to chain %d for account %s",
		weiToEthString(amount), o.dest.ChainID, acct.Address.Hex())

	adapterParams, err := EncodeAdapterParams(Request{
		DstChainID:  o.dstChainID,
		DstGasLimit: o.dstGasLimit,
		AmountWei:   amount,
		Recipient:   acct.Address,
	})
	if err != nil {
		o.countFailure("encode")
		return err
	}

	nativeFee, zroFee, err := o.quoteSendFee(ctx, adapterParams)
	if err != nil {
		o.countFailure("fee_quote")
		return err
	}

	quote, err := o.estimator.SuggestFee(ctx, o.source.ChainID, o.source.Backend)
	if err != nil {
		o.countFailure("fee_estimate")
		return err
	}

	nonce, err := nonces.Next(ctx)
	if err != nil {
		o.countFailure("nonce")
		return err
	}

	data, err := o.contractABI.Pack("bridgeGas", o.dstChainID, acct.Address, adapterParams)
	if err != nil {
		o.countFailure("encode")
		return fmt.Errorf("failed to pack bridge call: %w", err)
	}

	value := new(big.Int).Add(amount, nativeFee)
	value.Add(value, zroFee)

	to := o.contract
	intent := &txmgr.Intent{
		ChainID: big.NewInt(int64(o.source.ChainID)),
		Nonce:   nonce,
		From:    acct.Address,
		To:      &to,
		Value:   value,
		Data:    data,
		Fee:     quote,
	}

	outcome := o.lifecycle.Submit(ctx, intent, acct.Key)
	if outcome.Kind != txmgr.OutcomeConfirmed {
		o.countFailure(outcome.Kind.String())
		return fmt.Errorf("bridge transaction %s: %w", outcome.Kind, outcomeErr(outcome))
	}

	o.logger.InfoWithChain(o.source.ChainID, "Bridge transaction confirmed for account %s, waiting for settlement", acct.Address.Hex())

	if err := o.awaitBalanceIncrease(ctx, acct.Address, preBalance); err != nil {
		o.countFailure("settlement")
		return err
	}

	metrics.BridgesCompleted.WithLabelValues(strconv.Itoa(o.dest.ChainID)).Inc()
	o.logger.InfoWithChain(o.dest.ChainID, "Successfully bridged %s ETH for account %s",
		weiToEthString(amount), acct.Address.Hex())
	return nil
}

// quoteSendFee asks the bridge contract for the protocol fee of delivering
// the payload
func (o *Orchestrator) quoteSendFee(ctx context.Context, adapterParams []byte) (nativeFee, zroFee *big.Int, err error) {
	// The quote does not depend on the packed destination address
	data, err := o.contractABI.Pack("estimateSendFee", o.dstChainID, []byte("0x0"), adapterParams)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to pack fee quote call: %w", err)
	}

	out, err := o.source.Backend.CallContract(ctx, ethereum.CallMsg{To: &o.contract, Data: data}, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to quote bridge fee: %w", err)
	}

	values, err := o.contractABI.Unpack("estimateSendFee", out)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to unpack fee quote: %w", err)
	}
	if len(values) != 2 {
		return nil, nil, fmt.Errorf("unexpected fee quote result length: %d", len(values))
	}

	nativeFee, ok := values[0].(*big.Int)
	if !ok {
		return nil, nil, fmt.Errorf("invalid native fee type in quote")
	}
	zroFee, ok = values[1].(*big.Int)
	if !ok {
		return nil, nil, fmt.Errorf("invalid zro fee type in quote")
	}
	return nativeFee, zroFee, nil
}

// awaitBalanceIncrease polls the destination balance until it strictly
// exceeds the pre-bridge balance. Receipt availability on the source chain
// does not imply the funds have arrived; the balance increase is the
// operational settlement signal.
func (o *Orchestrator) awaitBalanceIncrease(ctx context.Context, address common.Address, preBalance *big.Int) error {
	deadline := time.Now().Add(o.timeout)

	for {
		balance, err := o.dest.Balance(ctx, address)
		if err != nil {
			o.logger.ErrorWithChain(o.dest.ChainID, "Failed to get account balance: %v", err)
		} else if balance.Cmp(preBalance) > 0 {
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("bridge settlement for %s not observed within %v", address.Hex(), o.timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(o.interval):
		}
	}
}

func (o *Orchestrator) countFailure(reason string) {
	metrics.BridgeFailures.WithLabelValues(strconv.Itoa(o.dest.ChainID), reason).Inc()
}

func outcomeErr(outcome txmgr.Outcome) error {
	if outcome.Err != nil {
		return outcome.Err
	}
	return fmt.Errorf("transaction %s", outcome.TxHash.Hex())
}

func weiToEthString(wei *big.Int) string {
	eth := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.Ether))
	return eth.Text('f', -1)
}
