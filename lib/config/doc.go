// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the tally binary.
//
// Configuration is loaded from a single file specified by either the
// TALLY_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). When neither is set, [Default] applies. There is
// no ~/.config discovery and no automatic file search.
//
// The file syntax is chosen by extension:
//
//   - .yaml, .yml -- YAML (gopkg.in/yaml.v3)
//   - .json, .jsonc -- JSON with comments and trailing commas allowed
//     (github.com/tidwall/jsonc), decoded through the YAML decoder
//   - .toml -- TOML (github.com/BurntSushi/toml)
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${TALLY_DATA}, and ${VAR:-default} patterns are expanded.
//
// This package depends on no other tally packages.
package config
