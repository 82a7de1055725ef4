// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds tally's CBOR encoding configuration.
//
// Tally writes two kinds of structured data:
//
//   - JSON for anything a person or another tool reads: `tally eval
//     --format json`, `tally replay --format json`.
//   - CBOR for the session archive payload, where byte-for-byte
//     reproducibility matters because the archive digest is computed
//     over the encoded keys and tape.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Encoding the same session twice yields identical bytes.
//
// Types that only ever travel as CBOR use `cbor` struct tags. Types
// that also appear in JSON output use `json` tags alone;
// fxamacker/cbor reads them as a fallback. Never put both tags on one
// field.
package codec
