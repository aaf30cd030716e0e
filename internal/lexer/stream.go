// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"context"
	"errors"
	"io"

	"gopkg.klang.org/interpreter.go/internal/exc"
	"gopkg.klang.org/interpreter.go/internal/lang"
)

const defaultPrompt = "> "

// Stream is the pull-based lexer driver: it reads lines from a LineSource on
// demand, runs the automaton over each, and buffers the produced tokens in a
// queue. Lines are only pulled when the consumer actually needs a token,
// which is what keeps an interactive session from blocking on input nobody
// asked for.
type Stream struct {
	uri    string
	src    lang.LineSource
	log    *lang.Log
	auto   *automaton
	queue  []*lang.Token
	prompt bool
}

// NewStream builds a driver over src. Every raw line read is appended to log
// before it is scanned, so a line that fails to lex still renders in
// diagnostics. When prompt is set the source is asked to echo "> " before
// each read.
func NewStream(uri string, src lang.LineSource, log *lang.Log, prompt bool) *Stream {
	return &Stream{
		uri:    uri,
		src:    src,
		log:    log,
		auto:   newAutomaton(uri),
		prompt: prompt,
	}
}

// Next consumes and returns the next token, pulling source lines only while
// the queue is empty. A nil token means end of input. A lexical error is
// returned immediately; tokens queued before the fault stay queued for later
// calls.
func (self *Stream) Next(ctx context.Context) (*lang.Token, error) {
	for {
		if len(self.queue) > 0 {
			token := self.queue[0]
			self.queue = self.queue[1:]
			return token, nil
		}
		more, err := self.read(ctx)
		if err != nil {
			return nil, err
		}
		if !more {
			return nil, nil
		}
	}
}

// Ask applies pred to the front token without consuming it, pulling source
// lines only if the queue is empty. False once input is exhausted.
func (self *Stream) Ask(ctx context.Context, pred func(*lang.Token) bool) (bool, error) {
	for {
		if len(self.queue) > 0 {
			return pred(self.queue[0]), nil
		}
		more, err := self.read(ctx)
		if err != nil {
			return false, err
		}
		if !more {
			return false, nil
		}
	}
}

// read pulls one line into the automaton. False means input is exhausted and
// the automaton has nothing left open.
func (self *Stream) read(ctx context.Context) (bool, error) {
	ask := ""
	if self.prompt {
		ask = defaultPrompt
	}
	line, err := self.src.ReadLine(ctx, ask)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return false, exc.WrapUnknown(exc.Location{URI: self.uri}, err)
		}
		if len(self.auto.comment) > 0 {
			pos := self.auto.comment[0]
			self.auto.reset()
			return false, self.auto.excAt(pos, exc.CodeUnterminatedComment, "unterminated comment")
		}
		if self.auto.str != nil {
			pos := self.auto.str.start
			self.auto.reset()
			return false, self.auto.excAt(pos, exc.CodeUnterminatedStringLiteral, "unterminated string literal")
		}
		return false, nil
	}
	num := self.log.Len()
	self.log.Append(line)
	err = self.auto.run(ctx, num, line, func(token *lang.Token) {
		self.queue = append(self.queue, token)
	})
	return true, err
}
