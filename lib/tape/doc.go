// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tape records adding-machine sessions and stores them as
// archives.
//
// A [Session] is the ordered list of keys pressed plus the tape and
// display they produced, sealed with a BLAKE3 digest. Because the
// machine is deterministic, [Verify] can replay the keys and prove the
// recorded tape was not edited.
//
// On disk a session is a small container:
//
//	"TALY" | version (1 byte) | compression tag (1 byte) |
//	uvarint uncompressed length | payload
//
// The payload is the session in deterministic CBOR (lib/codec),
// compressed with LZ4 or zstd when that makes it smaller. The whole
// container may be encrypted to one or more age X25519 recipients;
// [Load] detects the age header and decrypts with the identities it is
// given.
//
// [Export] renders a session as plain text, a markdown table, HTML
// (the markdown rendered by goldmark), or JSON.
package tape
