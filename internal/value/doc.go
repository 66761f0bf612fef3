// Package value provides the runtime value model of the remap language.
//
// This package contains value types and their kinds only. Every other
// internal package imports value; value imports nothing internal.
//
// Key design constraints:
//   - Value is sealed: only Null, Boolean, Integer, Float, Bytes, Timestamp,
//     Array and Object implement it
//   - Kind is a bit set so a static type can describe "one of several kinds"
//   - Timestamps are always stored in UTC
//   - Canonical output sorts object keys by UTF-16 code units and NFC
//     normalizes strings
package value
