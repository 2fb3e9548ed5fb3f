package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/cargotrace/engine/internal/assert"
	"github.com/cargotrace/engine/internal/codec"
	"github.com/cargotrace/engine/internal/ledger"
	"github.com/cargotrace/engine/internal/store"
	"github.com/cargotrace/engine/pkg/api"
)

type failingClient struct {
	err error
}

func (c *failingClient) Transfer(
	context.Context, ledger.TransferRequest,
) (api.Receipt, error) {
	return nil, c.err
}

type recordingClient struct {
	last ledger.TransferRequest
}

func (c *recordingClient) Transfer(
	_ context.Context, req ledger.TransferRequest,
) (api.Receipt, error) {
	c.last = req
	return ledger.ReceiptFromBlock(42), nil
}

var (
	treasury = api.Identity("treasury")
	borrower = api.Identity("borrower")
)

func testBalances(t *testing.T) *store.Collection[uint64] {
	t.Helper()
	srv := miniredis.RunT(t)
	region := store.NewRegion(store.Config{Addr: srv.Addr(), Prefix: "test"})
	t.Cleanup(func() { _ = region.Close() })
	return store.NewCollection(region, "balances", codec.Balance)
}

func fund(
	t *testing.T, balances *store.Collection[uint64],
	id api.Identity, amount uint64,
) {
	t.Helper()
	_, _, err := balances.Insert(context.Background(), id.String(), amount)
	assert.New(t).NoError(err)
}

func TestTransferThenSettle(t *testing.T) {
	as := assert.New(t)
	ctx := context.Background()

	balances := testBalances(t)
	fund(t, balances, treasury, ledger.TokensFromUSD(10)+ledger.TransferFee)

	client := &recordingClient{}
	gw := ledger.NewGateway(client, balances, treasury, func() uint64 { return 7 })

	tokens := ledger.TokensFromUSD(10)
	receipt, err := gw.Transfer(ctx, borrower, tokens, "loan disbursement")
	as.NoError(err)
	as.Equal(ledger.ReceiptFromBlock(42), receipt)

	as.Equal(tokens, client.last.Amount)
	as.Equal(uint64(ledger.TransferFee), client.last.Fee)
	as.Equal(uint64(7), client.last.CreatedAt)
	as.Contains(string(client.last.Memo), "loan disbursement")

	// the mirror is untouched until the caller settles
	got, err := gw.BalanceOf(ctx, treasury)
	as.NoError(err)
	as.Equal(ledger.TokensFromUSD(10)+uint64(ledger.TransferFee), got)

	as.NoError(gw.Settle(ctx, borrower, tokens))

	got, err = gw.BalanceOf(ctx, treasury)
	as.NoError(err)
	as.Equal(uint64(0), got)

	got, err = gw.BalanceOf(ctx, borrower)
	as.NoError(err)
	as.Equal(tokens, got)
}

func TestSettleReadsFreshBalances(t *testing.T) {
	as := assert.New(t)
	ctx := context.Background()

	balances := testBalances(t)
	tokens := ledger.TokensFromUSD(10)
	fund(t, balances, treasury, tokens+ledger.TransferFee)

	client := &recordingClient{}
	gw := ledger.NewGateway(client, balances, treasury, func() uint64 { return 0 })

	_, err := gw.Transfer(ctx, borrower, tokens, "x")
	as.NoError(err)

	// a credit lands between acknowledgment and settlement; settlement
	// must debit the current balance, not a pre-call snapshot
	fund(t, balances, treasury,
		tokens+ledger.TransferFee+ledger.TokensFromUSD(500))

	as.NoError(gw.Settle(ctx, borrower, tokens))

	got, err := gw.BalanceOf(ctx, treasury)
	as.NoError(err)
	as.Equal(ledger.TokensFromUSD(500), got)
}

func TestSettleRequiresTreasuryCover(t *testing.T) {
	as := assert.New(t)
	ctx := context.Background()

	balances := testBalances(t)
	fund(t, balances, treasury, ledger.TokensFromUSD(1))

	gw := ledger.NewGateway(
		&recordingClient{}, balances, treasury, func() uint64 { return 0 },
	)
	err := gw.Settle(ctx, borrower, ledger.TokensFromUSD(10))
	as.ErrorIs(err, ledger.ErrInsufficientFunds)

	got, err := gw.BalanceOf(ctx, treasury)
	as.NoError(err)
	as.Equal(ledger.TokensFromUSD(1), got)
}

func TestTransferChecksBalanceBeforeCall(t *testing.T) {
	as := assert.New(t)
	ctx := context.Background()

	balances := testBalances(t)
	fund(t, balances, treasury, ledger.TokensFromUSD(10)) // missing the fee

	client := &recordingClient{}
	gw := ledger.NewGateway(client, balances, treasury, func() uint64 { return 0 })

	_, err := gw.Transfer(ctx, borrower, ledger.TokensFromUSD(10), "x")
	as.ErrorIs(err, ledger.ErrTransferFailed)
	as.ErrorIs(err, ledger.ErrInsufficientFunds)
	as.Zero(client.last.Amount, "client must not be called")

	// no balance moved
	got, err := gw.BalanceOf(ctx, treasury)
	as.NoError(err)
	as.Equal(ledger.TokensFromUSD(10), got)
}

func TestRemoteAndTransportErrorsMapTheSame(t *testing.T) {
	as := assert.New(t)
	ctx := context.Background()

	remote := &ledger.RemoteError{Code: "TemporarilyUnavailable",
		Message: "ledger busy"}
	for _, cause := range []error{remote, errors.New("connection reset")} {
		balances := testBalances(t)
		fund(t, balances, treasury, ledger.TokensFromUSD(100))

		gw := ledger.NewGateway(
			&failingClient{err: cause}, balances, treasury,
			func() uint64 { return 0 },
		)
		_, err := gw.Transfer(ctx, borrower, ledger.TokensFromUSD(1), "x")
		as.ErrorIs(err, ledger.ErrTransferFailed)

		// balances untouched without acknowledgment
		got, err := gw.BalanceOf(ctx, borrower)
		as.NoError(err)
		as.Zero(got)
	}
}

func TestLocalClientBlocksAdvance(t *testing.T) {
	as := assert.New(t)

	client := ledger.NewLocalClient()
	r1, err := client.Transfer(context.Background(), ledger.TransferRequest{})
	as.NoError(err)
	r2, err := client.Transfer(context.Background(), ledger.TransferRequest{})
	as.NoError(err)
	as.NotEqual(r1, r2)
}

func TestTokenConversion(t *testing.T) {
	as := assert.New(t)

	as.Equal(uint64(100_000_000), ledger.TokensFromUSD(1))
	as.Equal(uint64(25), ledger.USDFromTokens(ledger.TokensFromUSD(25)))
}
