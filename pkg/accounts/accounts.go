// Package accounts loads the ordered set of signing credentials the fleet
// run operates on.
package accounts

import (
	"bufio"
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Account is a signing credential and its derived address. Accounts are
// read-only inputs to the run; the key is never logged or persisted.
type Account struct {
	Key     *ecdsa.PrivateKey
	Address common.Address
}

// FromHexKey parses a hex-encoded private key, with or without the 0x prefix
func FromHexKey(hexKey string) (Account, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return Account{}, fmt.Errorf("failed to parse private key: %w", err)
	}

	return Account{
		Key:     key,
		Address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Load reads accounts from a file with one hex private key per line. Blank
// lines and lines starting with # are skipped. Order is preserved.
func Load(path string) ([]Account, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keys file: %w", err)
	}
	defer file.Close()

	var accts []Account
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		acct, err := FromHexKey(text)
		if err != nil {
			return nil, fmt.Errorf("invalid private key on line %d: %w", line, err)
		}
		accts = append(accts, acct)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read keys file: %w", err)
	}

	if len(accts) == 0 {
		return nil, fmt.Errorf("no private keys found in %s", path)
	}
	return accts, nil
}
