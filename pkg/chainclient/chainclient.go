package chainclient

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/params"
	"github.com/scroll-fleet/deployer/pkg/config"
	"github.com/scroll-fleet/deployer/pkg/logger"
)

// Backend is the subset of the Ethereum RPC surface the deployer relies on.
// *ethclient.Client satisfies it; tests substitute a mock.
type Backend interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

var _ Backend = (*ethclient.Client)(nil)

// Client contains the RPC backend and endpoint information for a specific blockchain
type Client struct {
	ChainID     int
	RPCURL      string
	ExplorerURL string
	Backend     Backend

	logger logger.Logger
}

// New dials the endpoint's RPC URL and wraps the connection
func New(endpoint config.ChainEndpoint, log logger.Logger) (*Client, error) {
	backend, err := ethclient.Dial(endpoint.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain %d: %w", endpoint.ChainID, err)
	}

	return &Client{
		ChainID:     endpoint.ChainID,
		RPCURL:      endpoint.RPCURL,
		ExplorerURL: endpoint.ExplorerURL,
		Backend:     backend,
		logger:      log,
	}, nil
}

// NewWithBackend wraps an existing backend, used by tests
func NewWithBackend(endpoint config.ChainEndpoint, backend Backend, log logger.Logger) *Client {
	return &Client{
		ChainID:     endpoint.ChainID,
		RPCURL:      endpoint.RPCURL,
		ExplorerURL: endpoint.ExplorerURL,
		Backend:     backend,
		logger:      log,
	}
}

// GasPriceGwei returns the current gas price converted to gwei
func (c *Client) GasPriceGwei(ctx context.Context) (float64, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	gasPrice, err := c.Backend.SuggestGasPrice(timeoutCtx)
	if err != nil {
		return 0, fmt.Errorf("failed to get gas price: %w", err)
	}

	gwei, _ := new(big.Float).Quo(
		new(big.Float).SetInt(gasPrice),
		big.NewFloat(params.GWei),
	).Float64()
	return gwei, nil
}

// Balance returns the current native balance of an address
func (c *Client) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	balance, err := c.Backend.BalanceAt(timeoutCtx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// LatestBlockNumber gets the latest block number from the chain
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	return c.Backend.BlockNumber(ctx)
}

// ExplorerTxURL returns a browsable link for a transaction hash
func (c *Client) ExplorerTxURL(txHash common.Hash) string {
	return c.ExplorerURL + txHash.Hex()
}
