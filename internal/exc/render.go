// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"errors"
	"fmt"
	"io"

	"gopkg.klang.org/interpreter.go/internal/lang"
)

// Render writes a one-line description of err followed, when the error
// carries a span the log still holds, by the marked source excerpt. Logged
// lines keep their terminators, so the excerpt reproduces the source exactly.
func Render(w io.Writer, err error, log *lang.Log) {
	var e Exception
	if !errors.As(err, &e) {
		fmt.Fprintf(w, "error: %s\n", err)
		return
	}
	loc := e.Location()
	if !loc.Span.IsPresent() {
		fmt.Fprintf(w, "error: %s\n", e.Message())
		return
	}
	span := loc.Span.Value()
	if span.Empty() {
		fmt.Fprintf(w, "error: %s at %s\n", e.Message(), span.Start())
	} else {
		fmt.Fprintf(w, "error: %s at %s\n", e.Message(), span)
	}
	if span.End().Line() < log.Len() {
		_ = span.Excerpt(w, log)
	}
}
