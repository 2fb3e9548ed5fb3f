package ledger

import (
	"context"
	"sync"

	"github.com/cargotrace/engine/pkg/api"
)

// LocalClient is an in-process stand-in for the external ledger service.
// It acknowledges every transfer with a monotonically increasing block
// reference and is used until a real ledger endpoint is configured
type LocalClient struct {
	mu    sync.Mutex
	block uint64
}

// LocalClientBaseBlock seeds the simulated chain height
const LocalClientBaseBlock = 123456

// NewLocalClient creates a local stand-in ledger client
func NewLocalClient() *LocalClient {
	return &LocalClient{block: LocalClientBaseBlock}
}

// Transfer acknowledges the request with the next block reference
func (c *LocalClient) Transfer(
	_ context.Context, _ TransferRequest,
) (api.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.block++
	return ReceiptFromBlock(c.block), nil
}
