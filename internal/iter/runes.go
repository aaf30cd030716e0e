// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"context"
	"unicode/utf8"

	"gopkg.klang.org/interpreter.go/internal/lang"
	"gopkg.klang.org/interpreter.go/internal/optional"
)

// NewRunes converts one line of source text into an iterator of code points.
// Decoding is by rune boundary only; invalid UTF-8 bytes come out as the
// replacement character with a width of one byte, the same accounting the
// lexer uses for positions.
func NewRunes(s string) lang.Iterator[lang.CodePoint] {
	return &runes{rest: s}
}

type runes struct {
	rest string
}

func (it *runes) Next(ctx context.Context) optional.Optional[lang.CodePoint] {
	if len(it.rest) == 0 {
		return optional.None[lang.CodePoint]()
	}
	r, size := utf8.DecodeRuneInString(it.rest)
	it.rest = it.rest[size:]
	return optional.Some(lang.CodePoint(r))
}

func (it *runes) Close(ctx context.Context) error {
	return nil
}
