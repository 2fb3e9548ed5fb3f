// Package ledger implements the gateway to the external token ledger
//
// The gateway issues transfer requests through a Client, checks the
// treasury's locally mirrored balance before calling out, and applies the
// debit and credit as one local mutation only after the remote service
// acknowledges. Remote rejections and transport failures both surface as
// ErrTransferFailed; retrying is the calling workflow's responsibility,
// never the gateway's.
package ledger
