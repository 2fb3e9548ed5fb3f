package ledger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cargotrace/engine/internal/store"
	"github.com/cargotrace/engine/pkg/api"
)

type (
	// Account addresses a party on the external ledger
	Account struct {
		Owner      api.Identity `json:"owner"`
		Subaccount []byte       `json:"subaccount,omitempty"`
	}

	// TransferRequest is the descriptor sent to the external ledger
	TransferRequest struct {
		FromSubaccount []byte  `json:"from_subaccount,omitempty"`
		To             Account `json:"to"`
		Amount         uint64  `json:"amount"`
		Fee            uint64  `json:"fee"`
		Memo           []byte  `json:"memo,omitempty"`
		CreatedAt      uint64  `json:"created_at"`
	}

	// Client issues a transfer to the external ledger service. A nil
	// error means the ledger acknowledged the transfer with the returned
	// receipt; any error, remote or transport-level, means it did not
	Client interface {
		Transfer(context.Context, TransferRequest) (api.Receipt, error)
	}

	// RemoteError is a structured rejection from the ledger service,
	// distinct from a transport-level failure
	RemoteError struct {
		Code    string
		Message string
	}

	// Gateway wraps a Client with fee accounting and the local balance
	// mirror. No internal retries
	Gateway struct {
		client   Client
		balances *store.Collection[uint64]
		treasury api.Identity
		fee      uint64
		clock    func() uint64
	}
)

// Token amounts carry 8 decimal places; one USD maps to one whole token
const (
	Decimals    = 8
	tokenUnit   = 100_000_000
	TransferFee = 100_000
)

var (
	ErrTransferFailed    = errors.New("transfer failed")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

func (e *RemoteError) Error() string {
	return fmt.Sprintf("ledger rejected transfer (%s): %s", e.Code, e.Message)
}

// TokensFromUSD converts a currency amount to token minor units
func TokensFromUSD(usd uint64) uint64 {
	return usd * tokenUnit
}

// USDFromTokens converts token minor units back to a currency amount
func USDFromTokens(tokens uint64) uint64 {
	return tokens / tokenUnit
}

// NewGateway creates a gateway over the given client, balance mirror,
// and treasury identity
func NewGateway(
	client Client, balances *store.Collection[uint64],
	treasury api.Identity, clock func() uint64,
) *Gateway {
	return &Gateway{
		client:   client,
		balances: balances,
		treasury: treasury,
		fee:      TransferFee,
		clock:    clock,
	}
}

// Transfer moves tokens from the treasury to the recipient through the
// external ledger. The treasury balance is checked before the call is
// issued; any failure maps to ErrTransferFailed for the caller to
// handle via its retry transition. The local mirror is untouched until
// the caller applies Settle
func (g *Gateway) Transfer(
	ctx context.Context, to api.Identity, tokens uint64, memo string,
) (api.Receipt, error) {
	debit := tokens + g.fee
	balance, err := g.balanceOf(ctx, g.treasury)
	if err != nil {
		return nil, err
	}
	if balance < debit {
		return nil, fmt.Errorf("%w: %w: have %d, need %d",
			ErrTransferFailed, ErrInsufficientFunds, balance, debit)
	}

	receipt, err := g.client.Transfer(ctx, TransferRequest{
		To:        Account{Owner: to},
		Amount:    tokens,
		Fee:       g.fee,
		Memo:      fmt.Appendf(nil, "%s [%s]", memo, uuid.NewString()),
		CreatedAt: g.clock(),
	})
	if err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) {
			return nil, fmt.Errorf("%w: %w", ErrTransferFailed, remote)
		}
		return nil, fmt.Errorf("%w: call failed: %w", ErrTransferFailed, err)
	}
	return receipt, nil
}

// Settle mirrors an acknowledged transfer into the local balances. Both
// balances are read at call time, never from a snapshot taken before
// the ledger call; the caller serializes Settle with its other balance
// mutations
func (g *Gateway) Settle(
	ctx context.Context, to api.Identity, tokens uint64,
) error {
	debit := tokens + g.fee
	treasury, err := g.balanceOf(ctx, g.treasury)
	if err != nil {
		return err
	}
	if treasury < debit {
		return fmt.Errorf("%w: settling %d against treasury balance %d",
			ErrInsufficientFunds, debit, treasury)
	}
	recipient, err := g.balanceOf(ctx, to)
	if err != nil {
		return err
	}
	if _, _, err := g.balances.Insert(
		ctx, g.treasury.String(), treasury-debit,
	); err != nil {
		return err
	}
	_, _, err = g.balances.Insert(ctx, to.String(), recipient+tokens)
	return err
}

// BalanceOf reports the locally mirrored balance for an identity
func (g *Gateway) BalanceOf(
	ctx context.Context, id api.Identity,
) (uint64, error) {
	return g.balanceOf(ctx, id)
}

func (g *Gateway) balanceOf(
	ctx context.Context, id api.Identity,
) (uint64, error) {
	balance, _, err := g.balances.Get(ctx, id.String())
	return balance, err
}

// ReceiptFromBlock builds a receipt from a ledger block reference
func ReceiptFromBlock(block uint64) api.Receipt {
	return binary.LittleEndian.AppendUint64(nil, block)
}
