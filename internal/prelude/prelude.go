// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package prelude carries the standard Klang definitions evaluated into the
// global environment before any program runs.
package prelude

import (
	_ "embed"
)

// URI names the prelude in diagnostics.
const URI = "<prelude>"

//go:embed prelude.klg
var Source string
