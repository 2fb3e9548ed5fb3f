package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cargotrace/engine/internal/ledger"
	"github.com/cargotrace/engine/pkg/api"
	"github.com/cargotrace/engine/pkg/log"
)

// Balance reports an identity's token balance in minor units
func (e *Engine) Balance(
	ctx context.Context, id api.Identity,
) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gateway.BalanceOf(ctx, id)
}

// Mint credits tokens to an identity's balance
func (e *Engine) Mint(
	ctx context.Context, to api.Identity, tokens uint64,
) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if to.IsAnonymous() {
		return 0, ErrAnonymousCaller
	}
	balance, _, err := e.balances.Get(ctx, to.String())
	if err != nil {
		return 0, err
	}
	balance += tokens
	if _, _, err := e.balances.Insert(ctx, to.String(), balance); err != nil {
		return 0, err
	}
	slog.Info("Tokens minted",
		log.Caller(to),
		log.Amount(tokens))
	return balance, nil
}

// TransferTokens moves tokens between local balances. Anonymous callers
// and recipients are rejected
func (e *Engine) TransferTokens(
	ctx context.Context, from, to api.Identity, tokens uint64,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if from.IsAnonymous() || to.IsAnonymous() {
		return ErrAnonymousCaller
	}
	balance, _, err := e.balances.Get(ctx, from.String())
	if err != nil {
		return err
	}
	if balance < tokens {
		return fmt.Errorf("%w: have %d tokens, need %d",
			ErrInsufficientFunds, balance, tokens)
	}
	recipient, _, err := e.balances.Get(ctx, to.String())
	if err != nil {
		return err
	}
	if _, _, err := e.balances.Insert(
		ctx, from.String(), balance-tokens,
	); err != nil {
		return err
	}
	_, _, err = e.balances.Insert(ctx, to.String(), recipient+tokens)
	return err
}

// FundTreasury credits the treasury with the token equivalent of a
// currency amount, covering future loan disbursements
func (e *Engine) FundTreasury(ctx context.Context, usd uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tokens := ledger.TokensFromUSD(usd)
	balance, _, err := e.balances.Get(ctx, e.treasury.String())
	if err != nil {
		return err
	}
	_, _, err = e.balances.Insert(
		ctx, e.treasury.String(), balance+tokens,
	)
	return err
}
