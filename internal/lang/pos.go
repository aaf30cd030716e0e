// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package lang

import (
	"fmt"
	"io"
)

// Pos identifies a single character of the source as a 0-indexed line number
// and a 0-indexed byte offset within that line. Immutable once constructed.
type Pos struct {
	line int
	byte int
}

func NewPos(line int, byte int) Pos {
	return Pos{line: line, byte: byte}
}

func (self Pos) Line() int {
	return self.line
}

func (self Pos) Byte() int {
	return self.byte
}

// Compare orders positions by (line, byte): negative when self precedes
// other, zero when equal, positive when self follows other.
func (self Pos) Compare(other Pos) int {
	if self.line != other.line {
		return self.line - other.line
	}
	return self.byte - other.byte
}

// String renders the position 1-indexed, the way editors count.
func (self Pos) String() string {
	return fmt.Sprintf("%d:%d", self.line+1, self.byte+1)
}

// GoString renders the position 0-indexed, matching the internal
// representation.
func (self Pos) GoString() string {
	return fmt.Sprintf("%d:%d", self.line, self.byte)
}

// Excerpt writes the logged line holding the position, split by an inline
// marker immediately before it. Logged lines keep their terminators, so no
// newline is appended.
func (self Pos) Excerpt(w io.Writer, log *Log) error {
	line := log.Line(self.line)
	_, err := fmt.Fprintf(w, "%s !-> %s", line[:self.byte], line[self.byte:])
	return err
}

// Range is the half-open span [start, end) between two source positions.
// A range may cover part of one line or run across several.
type Range struct {
	start Pos
	end   Pos
}

// NewRange panics unless start <= end. An inverted range is a bug in the
// caller, not a recoverable condition.
func NewRange(start Pos, end Pos) Range {
	if start.Compare(end) > 0 {
		panic(fmt.Sprintf("inverted range [%s, %s)", start.GoString(), end.GoString()))
	}
	return Range{start: start, end: end}
}

// RangeAt is the zero-width range marking the single position pos.
func RangeAt(pos Pos) Range {
	return Range{start: pos, end: pos}
}

func (self Range) Start() Pos {
	return self.start
}

func (self Range) End() Pos {
	return self.end
}

func (self Range) Empty() bool {
	return self.start == self.end
}

// Concat joins two source-ordered ranges into one covering both. Panics when
// other starts before self ends: concatenation is only defined left to right.
func (self Range) Concat(other Range) Range {
	if self.end.Compare(other.start) > 0 {
		panic(fmt.Sprintf("concatenating out-of-order ranges %s + %s", self.GoString(), other.GoString()))
	}
	return Range{start: self.start, end: other.end}
}

// String renders 1-indexed with an inclusive end column.
func (self Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", self.start.line+1, self.start.byte+1, self.end.line+1, self.end.byte)
}

// GoString renders the half-open interval as stored.
func (self Range) GoString() string {
	return fmt.Sprintf("[%s, %s)", self.start.GoString(), self.end.GoString())
}

// Excerpt writes the logged line or lines covered by the span, with inline
// markers around the covered text. A zero-width span renders as a single
// position marker.
func (self Range) Excerpt(w io.Writer, log *Log) error {
	if self.Empty() {
		return self.start.Excerpt(w, log)
	}
	if self.start.line == self.end.line {
		line := log.Line(self.start.line)
		_, err := fmt.Fprintf(w, "%s !-> %s <-! %s", line[:self.start.byte], line[self.start.byte:self.end.byte], line[self.end.byte:])
		return err
	}
	first := log.Line(self.start.line)
	if _, err := fmt.Fprintf(w, "%s !-> %s", first[:self.start.byte], first[self.start.byte:]); err != nil {
		return err
	}
	for n := self.start.line + 1; n < self.end.line; n++ {
		if _, err := io.WriteString(w, log.Line(n)); err != nil {
			return err
		}
	}
	last := log.Line(self.end.line)
	_, err := fmt.Fprintf(w, "%s <-! %s", last[:self.end.byte], last[self.end.byte:])
	return err
}
