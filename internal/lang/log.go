// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package lang

// Log retains every raw source line read during a session, in the order they
// were read, so errors raised later can reproduce their source context. The
// lexer driver is the only writer; the error renderer and anything downstream
// only read. Never truncated.
type Log struct {
	lines []string
}

func NewLog() *Log {
	return &Log{}
}

// Append records one raw line, terminator included when the source provided
// one.
func (self *Log) Append(line string) {
	self.lines = append(self.lines, line)
}

// Line returns the raw line at the 0-indexed number n, or "" when no such
// line has been read.
func (self *Log) Line(n int) string {
	if n < 0 || n >= len(self.lines) {
		return ""
	}
	return self.lines[n]
}

func (self *Log) Len() int {
	return len(self.lines)
}
