package txmgr

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/scroll-fleet/deployer/pkg/chainclient"
)

// NonceSource reserves nonces for a single account on a single chain. The
// first reservation syncs with the chain's pending nonce; later reservations
// increment locally. Reads and reservations are serialized under the mutex so
// a parallel fleet cannot double-spend a nonce for the same account.
type NonceSource struct {
	client  *chainclient.Client
	address common.Address

	mu          sync.Mutex
	next        uint64
	initialized bool
}

// NewNonceSource creates a nonce source for the account on the given chain
func NewNonceSource(client *chainclient.Client, address common.Address) *NonceSource {
	return &NonceSource{
		client:  client,
		address: address,
	}
}

// Next reserves and returns the account's next nonce
func (n *NonceSource) Next(ctx context.Context) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.initialized {
		nonce, err := n.client.Backend.PendingNonceAt(ctx, n.address)
		if err != nil {
			return 0, fmt.Errorf("failed to get pending nonce: %w", err)
		}
		n.next = nonce
		n.initialized = true
	}

	nonce := n.next
	n.next++
	return nonce, nil
}
