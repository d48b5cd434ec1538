// Package txmgr drives a transaction through the shared
// build → estimate → sign → submit → confirm pipeline and classifies the
// terminal outcome. Both the bridge and the deployment transactions go
// through this single pipeline.
package txmgr

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/scroll-fleet/deployer/pkg/fees"
)

// Intent describes a transaction before it is estimated and signed. GasLimit
// starts at zero and is filled in by the lifecycle from the estimation step;
// an intent is never submitted without that step succeeding.
type Intent struct {
	ChainID *big.Int
	Nonce   uint64
	From    common.Address
	To      *common.Address // nil for contract creation
	Value   *big.Int
	Data    []byte
	Gas     uint64
	Fee     *fees.Quote
}

// OutcomeKind is the terminal classification of a submission attempt
type OutcomeKind int

const (
	// OutcomeConfirmed indicates the transaction was mined with success status
	OutcomeConfirmed OutcomeKind = iota
	// OutcomeReverted indicates the transaction was mined with a failure status
	OutcomeReverted
	// OutcomeInsufficientFunds indicates estimation failed because the account cannot cover the transaction
	OutcomeInsufficientFunds
	// OutcomeEstimationFailed indicates estimation failed for any other reason
	OutcomeEstimationFailed
	// OutcomeTimedOut indicates no definitive receipt arrived within the configured patience
	OutcomeTimedOut
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeReverted:
		return "reverted"
	case OutcomeInsufficientFunds:
		return "insufficient_funds"
	case OutcomeEstimationFailed:
		return "estimation_failed"
	case OutcomeTimedOut:
		return "timed_out"
	}
	return "unknown"
}

// Outcome is the terminal result of a submission attempt. Receipt is set only
// for mined transactions; Err carries the cause for estimation failures and
// timeouts.
type Outcome struct {
	Kind    OutcomeKind
	TxHash  common.Hash
	Receipt *types.Receipt
	Err     error
}
