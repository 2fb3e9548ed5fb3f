// Package engine implements the trade-finance workflow engine
//
// This package contains the guarded state machines for documents, customs
// mappings and verifications, and loans, together with the token ledger
// operations they depend on. Operations execute one at a time; the only
// suspension point is the external ledger call during loan approval,
// where the engine durably records the in-flight transfer before
// yielding, so concurrent readers observe transfer_pending rather than a
// half-applied transition.
package engine
