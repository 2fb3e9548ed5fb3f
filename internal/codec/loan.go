package codec

import (
	"fmt"

	"github.com/cargotrace/engine/pkg/api"
)

// Loan field order: id, document id, amount, interest rate, created at,
// repayment date, borrower, status, optional transfer receipt
var Loan = Codec[api.Loan]{
	MaxSize: MaxLoanSize,
	Encode:  encodeLoan,
	Decode:  decodeLoan,
}

// Loan status discriminants. transfer_pending and transfer_failed were
// appended last; earlier positions must never be renumbered
var loanStatusTable = statusTable[api.LoanStatus]{
	api.LoanPending,
	api.LoanApproved,
	api.LoanActive,
	api.LoanRepaid,
	api.LoanDefaulted,
	api.LoanRejected,
	api.LoanTransferPending,
	api.LoanTransferFailed,
}

func encodeLoan(l api.Loan) ([]byte, error) {
	w := NewWriter(MaxLoanSize)
	w.String(l.ID)
	w.String(l.DocumentID)
	w.Uint64(l.Amount)
	w.Float64(l.InterestRate)
	w.Uint64(l.CreatedAt)
	w.Uint64(l.RepaymentDate)
	w.Identity(l.Borrower)
	w.Byte(loanStatusTable.discriminant(l.Status))
	if l.Receipt != nil {
		w.Present(true)
		w.Blob(l.Receipt)
	} else {
		w.Present(false)
	}
	return w.Finish()
}

func decodeLoan(buf []byte) (api.Loan, error) {
	var l api.Loan
	var err error

	r := NewReader(buf)
	if l.ID, err = r.String(); err != nil {
		return l, fmt.Errorf("loan id: %w", err)
	}
	if l.DocumentID, err = r.String(); err != nil {
		return l, fmt.Errorf("loan document id: %w", err)
	}
	if l.Amount, err = r.Uint64(); err != nil {
		return l, fmt.Errorf("loan amount: %w", err)
	}
	if l.InterestRate, err = r.Float64(); err != nil {
		return l, fmt.Errorf("loan interest rate: %w", err)
	}
	if l.CreatedAt, err = r.Uint64(); err != nil {
		return l, fmt.Errorf("loan created at: %w", err)
	}
	if l.RepaymentDate, err = r.Uint64(); err != nil {
		return l, fmt.Errorf("loan repayment date: %w", err)
	}
	if l.Borrower, err = r.Identity(); err != nil {
		return l, fmt.Errorf("loan borrower: %w", err)
	}
	b, err := r.Byte()
	if err != nil {
		return l, fmt.Errorf("loan status: %w", err)
	}
	l.Status = loanStatusTable.status(b)

	present, err := r.Present()
	if err != nil {
		return l, fmt.Errorf("loan receipt flag: %w", err)
	}
	if present {
		raw, err := r.Blob()
		if err != nil {
			return l, fmt.Errorf("loan receipt: %w", err)
		}
		l.Receipt = raw
	}
	return l, nil
}
