// Package compiler invokes the Solidity compiler toolchain.
package compiler

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/scroll-fleet/deployer/pkg/logger"
)

// Contract is the compiled artifact of a single contract
type Contract struct {
	ABI      string
	Bytecode []byte
}

// Compiler turns a Solidity source into a deployable artifact
type Compiler interface {
	Compile(ctx context.Context, source, contractName string) (Contract, error)
}

// CompileError carries the compiler's diagnostics
type CompileError struct {
	Output string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("solc failed: %s", e.Output)
}

// Solc invokes the solc binary with the source on stdin
type Solc struct {
	Path   string
	logger logger.Logger
}

var _ Compiler = (*Solc)(nil)

// NewSolc creates a compiler around the given solc binary
func NewSolc(path string, log logger.Logger) *Solc {
	return &Solc{
		Path:   path,
		logger: log,
	}
}

// Compile runs solc over the source and extracts the named contract's ABI
// and creation bytecode
func (s *Solc) Compile(ctx context.Context, source, contractName string) (Contract, error) {
	cmd := exec.CommandContext(ctx, s.Path, "--combined-json", "abi,bin", "-")
	cmd.Stdin = strings.NewReader(source)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	s.logger.Debug("Compiling contract %s with %s", contractName, s.Path)
	if err := cmd.Run(); err != nil {
		return Contract{}, &CompileError{Output: strings.TrimSpace(stderr.String())}
	}

	return parseCombinedJSON(stdout.Bytes(), contractName)
}

// combinedOutput mirrors solc's --combined-json layout. The abi field is a
// JSON array on modern solc and an escaped string on older releases.
type combinedOutput struct {
	Contracts map[string]struct {
		ABI json.RawMessage `json:"abi"`
		Bin string          `json:"bin"`
	} `json:"contracts"`
}

// parseCombinedJSON extracts the named contract from solc's combined output.
// Sources fed over stdin are keyed as "<stdin>:Name".
func parseCombinedJSON(output []byte, contractName string) (Contract, error) {
	var combined combinedOutput
	if err := json.Unmarshal(output, &combined); err != nil {
		return Contract{}, fmt.Errorf("failed to parse solc output: %w", err)
	}

	artifact, ok := combined.Contracts["<stdin>:"+contractName]
	if !ok {
		return Contract{}, fmt.Errorf("contract %s not found in solc output", contractName)
	}

	abiJSON := string(artifact.ABI)
	var abiString string
	if err := json.Unmarshal(artifact.ABI, &abiString); err == nil {
		abiJSON = abiString
	}

	bytecode, err := hex.DecodeString(artifact.Bin)
	if err != nil {
		return Contract{}, fmt.Errorf("failed to decode bytecode: %w", err)
	}
	if len(bytecode) == 0 {
		return Contract{}, fmt.Errorf("empty bytecode for contract %s", contractName)
	}

	return Contract{
		ABI:      abiJSON,
		Bytecode: bytecode,
	}, nil
}
