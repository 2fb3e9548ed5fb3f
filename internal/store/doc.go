// Package store implements the durable collection layer
//
// A Region is a shared Redis-backed byte-addressable space carved into
// named partitions. Each partition holds one ordered key-to-record
// collection whose values are produced by the binary codec, plus the
// monotonic counters behind human-readable record ids. Partitions are
// prefix-isolated so independent collections cannot collide, and all of
// them survive a process restart without an explicit save/restore step.
package store
