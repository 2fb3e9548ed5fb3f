package api

type (
	// LoanStatus represents the current state of a loan
	LoanStatus string

	// Receipt is opaque proof of a successful external transfer, recorded
	// on the loan once the remote ledger acknowledges the disbursement.
	// The bytes are the ledger's little-endian block reference
	Receipt []byte

	// Loan is issued against a document that reached nft_minted status.
	// Amount is capped at 80% of the document's declared value at
	// creation time
	Loan struct {
		ID            string     `json:"id"`
		DocumentID    string     `json:"document_id"`
		Amount        uint64     `json:"amount"`
		InterestRate  float64    `json:"interest_rate"`
		Status        LoanStatus `json:"status"`
		CreatedAt     uint64     `json:"created_at"`
		Borrower      Identity   `json:"borrower"`
		RepaymentDate uint64     `json:"repayment_date"`
		Receipt       Receipt    `json:"receipt,omitempty"`
	}
)

const (
	LoanPending         LoanStatus = "pending"
	LoanApproved        LoanStatus = "approved"
	LoanActive          LoanStatus = "active"
	LoanRepaid          LoanStatus = "repaid"
	LoanDefaulted       LoanStatus = "defaulted"
	LoanRejected        LoanStatus = "rejected"
	LoanTransferPending LoanStatus = "transfer_pending"
	LoanTransferFailed  LoanStatus = "transfer_failed"
)

// Final reports whether the status permits no further transitions
func (s LoanStatus) Final() bool {
	switch s {
	case LoanRepaid, LoanDefaulted, LoanRejected:
		return true
	}
	return false
}
