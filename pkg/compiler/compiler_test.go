package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCombinedJSONModernABIFormat(t *testing.T) {
	output := []byte(`{
		"contracts": {
			"<stdin>:Storage": {
				"abi": [{"type": "function", "name": "get"}],
				"bin": "6080604052"
			}
		},
		"version": "0.8.2+commit.661d1103"
	}`)

	contract, err := parseCombinedJSON(output, "Storage")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type": "function", "name": "get"}]`, contract.ABI)
	assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x52}, contract.Bytecode)
}

func TestParseCombinedJSONEscapedABIFormat(t *testing.T) {
	// Older solc releases emit the abi as an escaped JSON string
	output := []byte(`{
		"contracts": {
			"<stdin>:Storage": {
				"abi": "[{\"type\": \"function\", \"name\": \"get\"}]",
				"bin": "6080"
			}
		}
	}`)

	contract, err := parseCombinedJSON(output, "Storage")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type": "function", "name": "get"}]`, contract.ABI)
}

func TestParseCombinedJSONMissingContract(t *testing.T) {
	output := []byte(`{"contracts": {"<stdin>:Other": {"abi": [], "bin": "6080"}}}`)

	_, err := parseCombinedJSON(output, "Storage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Storage")
}

func TestParseCombinedJSONRejectsEmptyBytecode(t *testing.T) {
	// Interfaces and abstract contracts compile to no creation code
	output := []byte(`{"contracts": {"<stdin>:Storage": {"abi": [], "bin": ""}}}`)

	_, err := parseCombinedJSON(output, "Storage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty bytecode")
}

func TestParseCombinedJSONRejectsMalformedOutput(t *testing.T) {
	_, err := parseCombinedJSON([]byte("not json"), "Storage")
	assert.Error(t, err)

	_, err = parseCombinedJSON([]byte(`{"contracts": {"<stdin>:Storage": {"abi": [], "bin": "zz"}}}`), "Storage")
	assert.Error(t, err)
}
