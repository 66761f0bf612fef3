// Package engine runs a compiled remap program over a stream of records.
//
// ARCHITECTURE:
//
// Record Loop:
// Run reads newline-delimited JSON objects, evaluates the program against
// each one and writes one canonical JSON line per result. Records are
// processed one at a time, in input order, in the calling goroutine:
//  1. Line decoded into a value.Object (gjson)
//  2. Configured timestamp fields converted from RFC 3339 strings
//  3. Record stamped with a seq from the logical Clock and a UUIDv7 id
//  4. Program resolved against a fresh expr.Context
//  5. {"id", "seq", "value"} written in canonical form
//
// Failure Policy:
// By default the first failing record stops the run with a *RuntimeError.
// WithDropOnError logs and skips failing records instead; WithMaxDropped
// bounds how many may be skipped before the run stops anyway.
//
// The compiled program is shared read-only. Separate engines may run the
// same program concurrently; a single Engine must not.
package engine
