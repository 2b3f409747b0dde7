// Package sqlpool is a driver-agnostic SQL client layer: a connection
// pool with lifetime policy, cursor iteration with explicit
// borrowed-memory semantics, prepared statements, transactions, and
// struct scanning by column name.
//
// Concrete database engines plug in by implementing the capability
// contract in the driver subpackage. A driver value is passed directly
// to Open; there is no global driver registry. Queries are opaque
// engine-native strings with positional placeholders; sqlpool never
// parses, plans, retries, or logs on the caller's behalf.
//
// Every fallible operation returns its error to the immediate caller,
// and resources are released on every exit path: a cursor that owns a
// pool connection returns it even when the driver close fails, and a
// transaction releases its owned connection even when the commit does.
// Closing a cursor or statement twice is a safe no-op; completing a
// transaction twice is a reported error.
//
// The only undefined-behavior case is using one leased connection from
// multiple goroutines without external synchronization. Everything
// else, including use after close and scan mismatches, fails with a
// typed error instead of panicking.
package sqlpool
