// Package bridge funds accounts on the destination chain through the bridge
// contract's gas refuel entry point.
package bridge

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// adapterParamsVersion tags the airdrop variant of the adapter params
	adapterParamsVersion = 2

	// maxAmountHexDigits bounds the airdrop amount field. The on-chain layout
	// reserves 13 hex digits of wei for the amount; larger values cannot be
	// represented and must be rejected rather than corrupt the payload.
	maxAmountHexDigits = 13

	// adapterParamsLen is the fixed encoded size: 2-byte version, 32-byte
	// destination gas limit, 32-byte amount, 20-byte recipient
	adapterParamsLen = 86
)

// Request holds the semantic inputs of the adapter params payload
type Request struct {
	DstChainID  uint16
	DstGasLimit uint64
	AmountWei   *big.Int
	Recipient   common.Address
}

// MaxBridgeableWei returns the largest amount the adapter params can carry
func MaxBridgeableWei() *big.Int {
	max := new(big.Int).Exp(big.NewInt(16), big.NewInt(maxAmountHexDigits), nil)
	return max.Sub(max, big.NewInt(1))
}

// EncodeAdapterParams produces the fixed-layout payload consumed by the
// bridge contract's fee-quoting and execution entry points. Encoding is
// deterministic; the same request always yields identical bytes.
func EncodeAdapterParams(req Request) ([]byte, error) {
	if req.AmountWei == nil || req.AmountWei.Sign() <= 0 {
		return nil, fmt.Errorf("bridge amount must be positive")
	}
	if len(req.AmountWei.Text(16)) > maxAmountHexDigits {
		return nil, fmt.Errorf("bridge amount %s wei exceeds the %d hex digit field (max %s wei)",
			req.AmountWei, maxAmountHexDigits, MaxBridgeableWei())
	}

	buf := make([]byte, adapterParamsLen)
	binary.BigEndian.PutUint16(buf[0:2], adapterParamsVersion)
	new(big.Int).SetUint64(req.DstGasLimit).FillBytes(buf[2:34])
	req.AmountWei.FillBytes(buf[34:66])
	copy(buf[66:86], req.Recipient.Bytes())
	return buf, nil
}

// DecodeAdapterParams recovers the request fields from an encoded payload.
// The destination chain id is not part of the payload and is left zero.
func DecodeAdapterParams(data []byte) (Request, error) {
	if len(data) != adapterParamsLen {
		return Request{}, fmt.Errorf("adapter params must be %d bytes, got %d", adapterParamsLen, len(data))
	}
	if version := binary.BigEndian.Uint16(data[0:2]); version != adapterParamsVersion {
		return Request{}, fmt.Errorf("unsupported adapter params version: %d", version)
	}

	gasLimit := new(big.Int).SetBytes(data[2:34])
	if !gasLimit.IsUint64() {
		return Request{}, fmt.Errorf("destination gas limit out of range")
	}

	var recipient common.Address
	copy(recipient[:], data[66:86])

	return Request{
		DstGasLimit: gasLimit.Uint64(),
		AmountWei:   new(big.Int).SetBytes(data[34:66]),
		Recipient:   recipient,
	}, nil
}
