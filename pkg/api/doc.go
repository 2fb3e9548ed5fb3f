// Package api defines the core data types of the trade-finance engine
//
// This package contains the shared record types used across the engine,
// including documents, loans, customs mappings and verifications, ACID
// validations, caller identities, and the status tables that drive each
// record's lifecycle. Every record here is durably stored through the
// binary codec, so field order and status discriminants are part of the
// wire contract.
package api
