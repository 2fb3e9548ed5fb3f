package engine

import "errors"

var (
	ErrAcidFormat           = errors.New("acid number must be exactly 9 digits")
	ErrInvalidAcid          = errors.New("acid number failed customs validation")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrLoanNotFound         = errors.New("loan not found")
	ErrMappingNotFound      = errors.New("cargox mapping not found")
	ErrVerificationNotFound = errors.New("customs verification not found")
	ErrMappingExists        = errors.New(
		"asset hash already linked to an acid number",
	)
	ErrNotOwner    = errors.New("only the document owner may do this")
	ErrNotBorrower = errors.New("only the loan borrower may do this")
	ErrStatusConflict = errors.New(
		"operation not allowed in the record's current status",
	)
	ErrAmountExceedsCap = errors.New(
		"loan amount exceeds 80% of document value",
	)
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrAnonymousCaller   = errors.New("anonymous caller not permitted")
)
