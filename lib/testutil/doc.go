// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for tally packages.
//
// [RequireReceive] and [RequireEventually] encapsulate the timeout
// safety valve pattern so individual tests do not need direct
// time.After calls or hand-written polling loops. They are the only
// place in the test suite where real wall-clock timeouts are used;
// everything else drives time through lib/clock's fake.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no tally-internal dependencies.
package testutil
