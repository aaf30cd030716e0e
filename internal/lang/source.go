package lang

import (
	"context"

	"gopkg.klang.org/interpreter.go/internal/optional"
)

// CodePoint is a single scanned character.
type CodePoint uint32

type Iterator[T any] interface {
	Next(ctx context.Context) optional.Optional[T]
	Close(ctx context.Context) error
}

type Lookahead[T any] interface {
	Iterator[T]
	Lookahead(ctx context.Context, n uint8) optional.Optional[T]
}

// LineSource produces raw source lines one at a time. Implementations return
// each line with its terminator when the input contained one, and io.EOF once
// input is exhausted. Interactive implementations echo prompt before reading;
// all others ignore it.
type LineSource interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
}
