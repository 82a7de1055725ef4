// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides shared terminal user interface pieces for
// tally's interactive front-end: the colour [Theme], a single-column
// scrollbar, the heat animation that makes fresh tape lines glow, and
// ANSI-aware overlay splicing for floating boxes such as the key help.
//
// Nothing here knows about calculator state. The adderui package owns
// layout and input handling and imports this package for consistent
// look and behaviour.
package tui
