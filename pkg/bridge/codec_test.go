package bridge

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAdapterParamsLayout(t *testing.T) {
	req := Request{
		DstChainID:  214,
		DstGasLimit: 200000,
		AmountWei:   big.NewInt(4000000000000000), // 0.004 ETH
		Recipient:   common.HexToAddress("0x1234567890123456789012345678901234567890"),
	}

	encoded, err := EncodeAdapterParams(req)
	require.NoError(t, err)
	require.Len(t, encoded, 86)

	// version, dst gas limit, amount, recipient at fixed offsets
	assert.Equal(t, "0002", hex.EncodeToString(encoded[0:2]))
	assert.Equal(t, "0000000000000000000000000000000000000000000000000000000000030d40",
		hex.EncodeToString(encoded[2:34]))
	assert.Equal(t, "000000000000000000000000000000000000000000000000000e35fa931a0000",
		hex.EncodeToString(encoded[34:66]))
	assert.Equal(t, "1234567890123456789012345678901234567890", hex.EncodeToString(encoded[66:86]))
}

func TestEncodeAdapterParamsDeterministic(t *testing.T) {
	req := Request{
		DstChainID:  214,
		DstGasLimit: 200000,
		AmountWei:   big.NewInt(1000000000000000),
		Recipient:   common.HexToAddress("0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"),
	}

	first, err := EncodeAdapterParams(req)
	require.NoError(t, err)
	second, err := EncodeAdapterParams(req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncodeAdapterParamsRoundTrip(t *testing.T) {
	req := Request{
		DstChainID:  214,
		DstGasLimit: 200000,
		AmountWei:   big.NewInt(4000000000000000),
		Recipient:   common.HexToAddress("0x1234567890123456789012345678901234567890"),
	}

	encoded, err := EncodeAdapterParams(req)
	require.NoError(t, err)

	decoded, err := DecodeAdapterParams(encoded)
	require.NoError(t, err)
	assert.Equal(t, req.DstGasLimit, decoded.DstGasLimit)
	assert.Equal(t, 0, req.AmountWei.Cmp(decoded.AmountWei))
	assert.Equal(t, req.Recipient, decoded.Recipient)
}

func TestEncodeAdapterParamsRejectsOversizeAmount(t *testing.T) {
	// 16^13 wei needs 14 hex digits, one past the field width
	oversize := new(big.Int).Exp(big.NewInt(16), big.NewInt(13), nil)

	_, err := EncodeAdapterParams(Request{
		DstChainID:  214,
		DstGasLimit: 200000,
		AmountWei:   oversize,
		Recipient:   common.HexToAddress("0x1234567890123456789012345678901234567890"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")

	// The largest representable amount still encodes
	_, err = EncodeAdapterParams(Request{
		DstChainID:  214,
		DstGasLimit: 200000,
		AmountWei:   MaxBridgeableWei(),
		Recipient:   common.HexToAddress("0x1234567890123456789012345678901234567890"),
	})
	assert.NoError(t, err)
}

func TestEncodeAdapterParamsRejectsNonPositiveAmount(t *testing.T) {
	for _, amount := range []*big.Int{nil, big.NewInt(0), big.NewInt(-1)} {
		_, err := EncodeAdapterParams(Request{
			DstChainID:  214,
			DstGasLimit: 200000,
			AmountWei:   amount,
			Recipient:   common.HexToAddress("0x1234567890123456789012345678901234567890"),
		})
		assert.Error(t, err)
	}
}

func TestDecodeAdapterParamsRejectsMalformedPayloads(t *testing.T) {
	_, err := DecodeAdapterParams(make([]byte, 85))
	assert.Error(t, err)

	// Wrong version
	bad := make([]byte, 86)
	bad[1] = 1
	_, err = DecodeAdapterParams(bad)
	assert.Error(t, err)
}
