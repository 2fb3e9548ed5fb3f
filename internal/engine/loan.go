package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cargotrace/engine/internal/ledger"
	"github.com/cargotrace/engine/pkg/api"
	"github.com/cargotrace/engine/pkg/log"
)

// LoanCapPercent bounds a loan at this share of the referenced
// document's declared value, integer floor, boundary inclusive
const LoanCapPercent = 80

// RequestLoan creates a pending loan against an nft_minted document.
// The amount may not exceed 80% of the document's declared value
func (e *Engine) RequestLoan(
	ctx context.Context, caller api.Identity,
	docID string, amount, repaymentDate uint64,
) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, ok, err := e.documents.Get(ctx, docID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrDocumentNotFound, docID)
	}
	if doc.Status != api.DocumentNftMinted {
		return "", fmt.Errorf(
			"%w: document must be nft_minted before requesting a loan, not %s",
			ErrStatusConflict, doc.Status)
	}
	if amount > doc.DeclaredValue*LoanCapPercent/100 {
		return "", fmt.Errorf("%w: %d > %d",
			ErrAmountExceedsCap, amount,
			doc.DeclaredValue*LoanCapPercent/100)
	}

	id, err := e.loanSeq.Next(ctx)
	if err != nil {
		return "", err
	}
	loan := api.Loan{
		ID:            id,
		DocumentID:    docID,
		Amount:        amount,
		InterestRate:  DefaultInterestRate,
		Status:        api.LoanPending,
		CreatedAt:     e.clock(),
		Borrower:      caller,
		RepaymentDate: repaymentDate,
	}
	if _, _, err := e.loans.Insert(ctx, id, loan); err != nil {
		return "", err
	}

	slog.Info("Loan requested",
		log.LoanID(id),
		log.DocumentID(docID),
		log.Amount(amount))
	return id, nil
}

// Loan retrieves a loan by id
func (e *Engine) Loan(
	ctx context.Context, loanID string,
) (api.Loan, bool, error) {
	return e.loans.Get(ctx, loanID)
}

// Loans lists every loan in id order
func (e *Engine) Loans(ctx context.Context) ([]api.Loan, error) {
	entries, err := e.loans.Entries(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]api.Loan, 0, len(entries))
	for _, entry := range entries {
		res = append(res, entry.Record)
	}
	return res, nil
}

// LoanIDs lists every loan id in order
func (e *Engine) LoanIDs(ctx context.Context) ([]string, error) {
	entries, err := e.loans.Entries(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]string, 0, len(entries))
	for _, entry := range entries {
		res = append(res, entry.Key)
	}
	return res, nil
}

// LoansByBorrower lists the caller's loans in id order
func (e *Engine) LoansByBorrower(
	ctx context.Context, borrower api.Identity,
) ([]api.Loan, error) {
	entries, err := e.loans.Entries(ctx)
	if err != nil {
		return nil, err
	}
	var res []api.Loan
	for _, entry := range entries {
		if entry.Record.Borrower == borrower {
			res = append(res, entry.Record)
		}
	}
	return res, nil
}

// ActiveLoanFor finds the borrower's loan that is active or has a
// transfer in flight, if any
func (e *Engine) ActiveLoanFor(
	ctx context.Context, borrower api.Identity,
) (api.Loan, bool, error) {
	entries, err := e.loans.Entries(ctx)
	if err != nil {
		return api.Loan{}, false, err
	}
	for _, entry := range entries {
		l := entry.Record
		if l.Borrower != borrower {
			continue
		}
		switch l.Status {
		case api.LoanActive, api.LoanTransferPending, api.LoanTransferFailed:
			return l, true, nil
		}
	}
	return api.Loan{}, false, nil
}

// ApproveLoan disburses a pending loan through the external ledger. The
// loan is durably marked transfer_pending before the ledger call; the
// engine lock is released for the call's duration, so concurrent reads
// observe that intermediate status. Balance settlement happens only
// after the lock is re-acquired, serialized with every other balance
// mutation. On acknowledgment the loan becomes
// active with its receipt; on failure it becomes transfer_failed and
// stays addressable for RetryLoanTransfer
func (e *Engine) ApproveLoan(ctx context.Context, loanID string) error {
	e.mu.Lock()
	loan, ok, err := e.loans.Get(ctx, loanID)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrLoanNotFound, loanID)
	}
	if loan.Status != api.LoanPending {
		e.mu.Unlock()
		return fmt.Errorf("%w: can only approve pending loans, not %s",
			ErrStatusConflict, loan.Status)
	}

	loan.Status = api.LoanTransferPending
	if _, _, err := e.loans.Insert(ctx, loanID, loan); err != nil {
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()

	// suspension point: other operations may interleave here while the
	// transfer is in flight
	receipt, transferErr := e.gateway.Transfer(
		ctx, loan.Borrower, ledger.TokensFromUSD(loan.Amount),
		fmt.Sprintf("Loan approval: %s", loanID),
	)

	e.mu.Lock()
	defer e.mu.Unlock()

	loan, ok, err = e.loans.Get(ctx, loanID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLoanNotFound, loanID)
	}

	if transferErr != nil {
		loan.Status = api.LoanTransferFailed
		if _, _, err := e.loans.Insert(ctx, loanID, loan); err != nil {
			return err
		}
		slog.Warn("Loan transfer failed",
			log.LoanID(loanID),
			log.Error(transferErr))
		return transferErr
	}

	if err := e.gateway.Settle(
		ctx, loan.Borrower, ledger.TokensFromUSD(loan.Amount),
	); err != nil {
		// the remote transfer succeeded; a mirror failure here is an
		// integrity fault, not a transfer failure
		slog.Error("Failed to mirror acknowledged transfer",
			log.LoanID(loanID),
			log.Error(err))
		return err
	}

	loan.Status = api.LoanActive
	loan.Receipt = receipt
	if _, _, err := e.loans.Insert(ctx, loanID, loan); err != nil {
		return err
	}
	slog.Info("Loan approved and disbursed",
		log.LoanID(loanID),
		log.Amount(loan.Amount))
	return nil
}

// RetryLoanTransfer re-attempts disbursement of a loan whose external
// transfer failed. It is the only retried operation, and only via this
// explicit transition
func (e *Engine) RetryLoanTransfer(ctx context.Context, loanID string) error {
	e.mu.Lock()
	loan, ok, err := e.loans.Get(ctx, loanID)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrLoanNotFound, loanID)
	}
	if loan.Status != api.LoanTransferFailed {
		e.mu.Unlock()
		return fmt.Errorf("%w: can only retry failed transfers, not %s",
			ErrStatusConflict, loan.Status)
	}

	loan.Status = api.LoanPending
	if _, _, err := e.loans.Insert(ctx, loanID, loan); err != nil {
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()

	return e.ApproveLoan(ctx, loanID)
}

// RejectLoan rejects a pending loan
func (e *Engine) RejectLoan(ctx context.Context, loanID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	loan, ok, err := e.loans.Get(ctx, loanID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLoanNotFound, loanID)
	}
	if loan.Status != api.LoanPending {
		return fmt.Errorf("%w: can only reject pending loans, not %s",
			ErrStatusConflict, loan.Status)
	}

	loan.Status = api.LoanRejected
	_, _, err = e.loans.Insert(ctx, loanID, loan)
	return err
}

// RepayLoan debits the borrower's token balance toward an active loan.
// A payment covering the full loan amount settles it; smaller payments
// debit and leave the loan active
func (e *Engine) RepayLoan(
	ctx context.Context, caller api.Identity, loanID string, amount uint64,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	loan, ok, err := e.loans.Get(ctx, loanID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLoanNotFound, loanID)
	}
	if loan.Borrower != caller {
		return fmt.Errorf("%w: repay %s", ErrNotBorrower, loanID)
	}
	if loan.Status != api.LoanActive {
		return fmt.Errorf("%w: can only repay active loans, not %s",
			ErrStatusConflict, loan.Status)
	}

	tokens := ledger.TokensFromUSD(amount)
	balance, _, err := e.balances.Get(ctx, caller.String())
	if err != nil {
		return err
	}
	if balance < tokens {
		return fmt.Errorf("%w: have %d tokens, need %d",
			ErrInsufficientFunds, balance, tokens)
	}
	if _, _, err := e.balances.Insert(
		ctx, caller.String(), balance-tokens,
	); err != nil {
		return err
	}

	if amount >= loan.Amount {
		loan.Status = api.LoanRepaid
		if _, _, err := e.loans.Insert(ctx, loanID, loan); err != nil {
			return err
		}
		slog.Info("Loan repaid",
			log.LoanID(loanID),
			log.Amount(amount))
	}
	return nil
}
