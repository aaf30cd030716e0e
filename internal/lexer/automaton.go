// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.klang.org/interpreter.go/internal/exc"
	"gopkg.klang.org/interpreter.go/internal/iter"
	"gopkg.klang.org/interpreter.go/internal/lang"
)

// tokenState is the category of a token whose characters are still arriving.
type tokenState uint8

const (
	stateIdentifier tokenState = iota
	stateParameter
	stateInteger
	stateDecimal
	stateScientificIncomplete
	stateScientificSign
	stateScientific
	stateString
	statePlus
	stateMinus
	stateArrow
	stateStar
	stateSlash
	statePercent
	stateCaret
	stateEqual
	stateComparison
	stateFatArrow
	stateExclamation
	stateNotComparison
	stateLess
	stateShiftLeft
	stateGreater
	stateShiftRight
	stateAmpersand
	stateBinAnd
	statePipe
	stateBinOr
	stateColon
	stateSemicolon
	stateComma
	stateDot
	stateQuestion
	stateParenOpen
	stateParenClose
	stateSquareOpen
	stateSquareClose
	stateCurlyOpen
	stateCurlyClose
)

// states that finalize 1:1 into a fixed token
var stateTokenTypes = map[tokenState]lang.TokenType{
	statePlus:          lang.TokenTypePlus,
	stateMinus:         lang.TokenTypeMinus,
	stateArrow:         lang.TokenTypeArrow,
	stateStar:          lang.TokenTypeStar,
	stateSlash:         lang.TokenTypeSlash,
	statePercent:       lang.TokenTypePercent,
	stateCaret:         lang.TokenTypeCaret,
	stateEqual:         lang.TokenTypeEqual,
	stateComparison:    lang.TokenTypeComparison,
	stateFatArrow:      lang.TokenTypeFatArrow,
	stateExclamation:   lang.TokenTypeExclamation,
	stateNotComparison: lang.TokenTypeNotComparison,
	stateLess:          lang.TokenTypeLess,
	stateShiftLeft:     lang.TokenTypeShiftLeft,
	stateGreater:       lang.TokenTypeGreater,
	stateShiftRight:    lang.TokenTypeShiftRight,
	stateBinAnd:        lang.TokenTypeBinAnd,
	statePipe:          lang.TokenTypePipe,
	stateBinOr:         lang.TokenTypeBinOr,
	stateColon:         lang.TokenTypeColon,
	stateSemicolon:     lang.TokenTypeSemicolon,
	stateComma:         lang.TokenTypeComma,
	stateQuestion:      lang.TokenTypeQuestion,
	stateParenOpen:     lang.TokenTypeParenOpen,
	stateParenClose:    lang.TokenTypeParenClose,
	stateSquareOpen:    lang.TokenTypeSquareOpen,
	stateSquareClose:   lang.TokenTypeSquareClose,
	stateCurlyOpen:     lang.TokenTypeCurlyOpen,
	stateCurlyClose:    lang.TokenTypeCurlyClose,
}

var operatorStates = map[rune]tokenState{
	'+': statePlus,
	'-': stateMinus,
	'*': stateStar,
	'/': stateSlash,
	'%': statePercent,
	'^': stateCaret,
	'=': stateEqual,
	'!': stateExclamation,
	'<': stateLess,
	'>': stateGreater,
	'&': stateAmpersand,
	'|': statePipe,
	':': stateColon,
	';': stateSemicolon,
	',': stateComma,
	'.': stateDot,
	'?': stateQuestion,
	'(': stateParenOpen,
	')': stateParenClose,
	'[': stateSquareOpen,
	']': stateSquareClose,
	'{': stateCurlyOpen,
	'}': stateCurlyClose,
}

// openToken is a token begun on the current line and not yet finalized. For
// string literals text carries the decoded content; every other kind slices
// its text from the line when it closes.
type openToken struct {
	start lang.Pos
	state tokenState
	text  string
}

type openString struct {
	start lang.Pos
	text  strings.Builder
}

// automaton turns source lines into tokens one line at a time. Only state
// that may survive a line boundary lives on the automaton: the stack of open
// block comment positions (innermost last) and an open string literal. An
// open generic token cannot cross lines and is local to each run call.
type automaton struct {
	uri     string
	comment []lang.Pos
	str     *openString
}

func newAutomaton(uri string) *automaton {
	return &automaton{uri: uri}
}

// reset drops all cross-line state. Called after a lexical fault so that
// recovery starts from "no token open" rather than from whatever the fault
// left behind.
func (self *automaton) reset() {
	self.comment = nil
	self.str = nil
}

// run scans one 0-indexed line, handing each finalized token to push. Tokens
// pushed before a fault stay pushed; the fault itself resets the automaton
// and is returned.
func (self *automaton) run(ctx context.Context, num int, line string, push func(*lang.Token)) error {
	err := self.scan(ctx, num, line, push)
	if err != nil {
		self.reset()
	}
	return err
}

func (self *automaton) scan(ctx context.Context, num int, line string, push func(*lang.Token)) error {
	scan := &lineScan{
		num:    num,
		line:   line,
		points: iter.NewLookahead(iter.NewRunes(line), 1),
	}
	var prev *openToken
	for {
		c, pos, ok := scan.take(ctx)
		if !ok {
			break
		}

		if len(self.comment) > 0 {
			switch c {
			case '*':
				if next, ok := scan.peek(ctx); ok && next == '/' {
					scan.take(ctx)
					self.comment = self.comment[:len(self.comment)-1]
				}
			case '/':
				if next, ok := scan.peek(ctx); ok {
					switch next {
					case '*':
						scan.take(ctx)
						self.comment = append(self.comment, pos)
					case '/':
						// a line comment inside a block comment hides the
						// rest of this line without closing the block
						return nil
					}
				}
			}
			continue
		}

		if self.str != nil {
			if c == '"' {
				// the closed literal becomes the open token, so the next
				// character finalizes it like any other token
				prev = &openToken{start: self.str.start, state: stateString, text: self.str.text.String()}
				self.str = nil
				continue
			}
			if c == '\\' {
				escaped, _, ok := scan.take(ctx)
				if !ok {
					return self.excAt(pos, exc.CodeNoCharacterAfterBackSlash, "no character after `\\`")
				}
				self.str.text.WriteRune(unescape(escaped))
				continue
			}
			self.str.text.WriteRune(c)
			continue
		}

		if prev != nil {
			if next, ok := transition(prev.state, c); ok {
				prev.state = next
				continue
			}
			if prev.state == stateSlash {
				if c == '/' {
					// the rest of the line is a comment; the slash itself
					// was never a token
					return nil
				}
				if c == '*' {
					// a block comment opens at the slash
					self.comment = append(self.comment, prev.start)
					prev = nil
					continue
				}
			}
			token, err := self.finish(prev, pos, line)
			if err != nil {
				return err
			}
			push(token)
		}
		next, err := self.begin(pos, c)
		if err != nil {
			return err
		}
		prev = next
	}
	if prev != nil {
		// a well-formed line ends in its terminator, which is whitespace
		// and would have closed this token
		return self.excAt(prev.start, exc.CodeNoLineFeedAtEOF, "no line feed at end of file")
	}
	return nil
}

// begin opens the state for the first character of a token, or no state at
// all for whitespace. `"` switches into string accumulation instead of
// opening a generic token.
func (self *automaton) begin(pos lang.Pos, c rune) (*openToken, error) {
	switch {
	case isNameStart(c):
		return &openToken{start: pos, state: stateIdentifier}, nil
	case c == '$':
		return &openToken{start: pos, state: stateParameter}, nil
	case isDigit(c):
		return &openToken{start: pos, state: stateInteger}, nil
	case c == '"':
		self.str = &openString{start: pos}
		return nil, nil
	}
	if state, ok := operatorStates[c]; ok {
		return &openToken{start: pos, state: state}, nil
	}
	if isSpace(c) {
		return nil, nil
	}
	return nil, self.excAt(pos, exc.CodeUnexpectedCharacter, "unexpected character")
}

// finish classifies the open token, which ends immediately before end.
func (self *automaton) finish(open *openToken, end lang.Pos, line string) (*lang.Token, error) {
	span := lang.NewRange(open.start, end)
	if open.state == stateString {
		// a string may have started on an earlier line; its text was
		// accumulated, not sliced
		return &lang.Token{Span: span, Type: lang.TokenTypeString, Value: open.text}, nil
	}
	text := line[open.start.Byte():end.Byte()]
	switch open.state {
	case stateIdentifier:
		if keyword, ok := lang.Keyword(text); ok {
			return &lang.Token{Span: span, Type: keyword, Value: text}, nil
		}
		return &lang.Token{Span: span, Type: lang.TokenTypeIdentifier, Value: text}, nil
	case stateParameter:
		return &lang.Token{Span: span, Type: lang.TokenTypeParameter, Value: text}, nil
	case stateInteger, stateDecimal, stateScientific:
		number, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, exc.Wrap(exc.NewLocation(self.uri, span), exc.CodeParseFloatFailure, err)
		}
		return &lang.Token{Span: span, Type: lang.TokenTypeNumber, Value: text, Number: number}, nil
	case stateScientificIncomplete, stateScientificSign:
		return nil, self.excSpan(span, exc.CodeIncompleteScientificNotation, "incomplete scientific notation")
	case stateAmpersand:
		return nil, self.excSpan(span, exc.CodeSingleAmpersand, "single ampersand")
	case stateDot:
		return nil, self.excSpan(span, exc.CodeSingleDot, "single dot")
	}
	return &lang.Token{Span: span, Type: stateTokenTypes[open.state], Value: text}, nil
}

// transition extends an open token with one more character when the token
// grammar allows it, implementing maximal munch. The bool is false when c
// cannot extend state.
func transition(state tokenState, c rune) (tokenState, bool) {
	switch state {
	case stateIdentifier:
		if isNameRune(c) {
			return stateIdentifier, true
		}
	case stateParameter:
		if isNameRune(c) {
			return stateParameter, true
		}
	case stateInteger:
		switch {
		case isDigit(c):
			return stateInteger, true
		case c == '.':
			return stateDecimal, true
		case c == 'e' || c == 'E':
			return stateScientificIncomplete, true
		}
	case stateDot:
		if isDigit(c) {
			return stateDecimal, true
		}
	case stateDecimal:
		switch {
		case isDigit(c):
			return stateDecimal, true
		case c == 'e' || c == 'E':
			return stateScientificIncomplete, true
		}
	case stateScientificIncomplete:
		switch {
		case c == '+' || c == '-':
			return stateScientificSign, true
		case isDigit(c):
			return stateScientific, true
		}
	case stateScientificSign, stateScientific:
		if isDigit(c) {
			return stateScientific, true
		}
	case stateEqual:
		switch c {
		case '=':
			return stateComparison, true
		case '>':
			return stateFatArrow, true
		}
	case stateMinus:
		if c == '>' {
			return stateArrow, true
		}
	case stateExclamation:
		if c == '=' {
			return stateNotComparison, true
		}
	case stateAmpersand:
		if c == '&' {
			return stateBinAnd, true
		}
	case statePipe:
		if c == '|' {
			return stateBinOr, true
		}
	case stateLess:
		if c == '<' {
			return stateShiftLeft, true
		}
	case stateGreater:
		if c == '>' {
			return stateShiftRight, true
		}
	}
	return state, false
}

// unescape maps the character following a backslash in a string literal.
// Characters with no special meaning stand for themselves, `\"` and `\\`
// included.
func unescape(c rune) rune {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case '0':
		return 0
	}
	return c
}

func isNameStart(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

// isNameRune is the continuation set shared by identifiers and parameters.
func isNameRune(c rune) bool {
	return isNameStart(c) || isDigit(c) || c == '$'
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

// isSpace matches ASCII whitespace only: space, tab, line feed, form feed,
// carriage return.
func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\f' || c == '\r'
}

func (self *automaton) excAt(pos lang.Pos, code string, message string) exc.Exception {
	return exc.New(exc.NewLocation(self.uri, lang.RangeAt(pos)), code, message)
}

func (self *automaton) excSpan(span lang.Range, code string, message string) exc.Exception {
	return exc.New(exc.NewLocation(self.uri, span), code, message)
}

// lineScan is the cursor over one line's characters. The byte offset is
// advanced by decoding at the cursor, which keeps it exact even for invalid
// UTF-8 (decoded as one replacement character per byte).
type lineScan struct {
	num    int
	line   string
	points lang.Lookahead[lang.CodePoint]
	offset int
}

// take consumes the character at the cursor, returning it with its position.
func (self *lineScan) take(ctx context.Context) (rune, lang.Pos, bool) {
	point := self.points.Next(ctx)
	if !point.IsPresent() {
		return 0, lang.NewPos(self.num, self.offset), false
	}
	pos := lang.NewPos(self.num, self.offset)
	_, width := utf8.DecodeRuneInString(self.line[self.offset:])
	self.offset += width
	return rune(point.Value()), pos, true
}

// peek reports the next unconsumed character without advancing.
func (self *lineScan) peek(ctx context.Context) (rune, bool) {
	point := self.points.Lookahead(ctx, 1)
	if !point.IsPresent() {
		return 0, false
	}
	return rune(point.Value()), true
}
