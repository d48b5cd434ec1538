// Package fees obtains fee configurations for transactions. A priority-fee
// quote is requested from an external gas suggestion API first; when the API
// does not cover the chain or fails, the quote falls back to the chain's own
// legacy gas price.
package fees

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/scroll-fleet/deployer/pkg/logger"
)

// Quote is a fee configuration for a single transaction attempt. Dynamic
// quotes carry an EIP-1559 fee pair; legacy quotes carry a single gas price.
type Quote struct {
	Dynamic              bool
	GasPrice             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// LegacyQuote builds a single-gas-price quote
func LegacyQuote(gasPrice *big.Int) *Quote {
	return &Quote{GasPrice: gasPrice}
}

// DynamicQuote builds a priority/base fee pair quote
func DynamicQuote(maxFee, maxPriorityFee *big.Int) *Quote {
	return &Quote{
		Dynamic:              true,
		MaxFeePerGas:         maxFee,
		MaxPriorityFeePerGas: maxPriorityFee,
	}
}

// ApplyToCallMsg sets the quote's fee fields on a gas estimation message
func (q *Quote) ApplyToCallMsg(msg *ethereum.CallMsg) {
	if q.Dynamic {
		msg.GasFeeCap = q.MaxFeePerGas
		msg.GasTipCap = q.MaxPriorityFeePerGas
		return
	}
	msg.GasPrice = q.GasPrice
}

// GasPriceSource is the chain-side fallback for fee quoting
type GasPriceSource interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}

// Suggester provides priority-fee quotes for supported chains
type Suggester interface {
	Suggest(ctx context.Context, chainID int) (*Quote, error)
}

// Estimator produces a usable fee quote for a chain, falling back to the
// chain's legacy gas price when the suggestion service is unavailable.
type Estimator struct {
	suggester Suggester
	logger    logger.Logger
}

// NewEstimator creates an estimator backed by the given suggester
func NewEstimator(suggester Suggester, log logger.Logger) *Estimator {
	return &Estimator{
		suggester: suggester,
		logger:    log,
	}
}

// SuggestFee returns a fee quote for the chain. It only fails when the
// fallback gas price call itself fails.
func (e *Estimator) SuggestFee(ctx context.Context, chainID int, source GasPriceSource) (*Quote, error) {
	quote, err := e.suggester.Suggest(ctx, chainID)
	if err == nil {
		return quote, nil
	}
	e.logger.DebugWithChain(chainID, "Fee suggestion unavailable, falling back to legacy gas price: %v", err)

	gasPrice, err := source.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get fallback gas price for chain %d: %w", chainID, err)
	}
	return LegacyQuote(gasPrice), nil
}
