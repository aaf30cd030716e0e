// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.klang.org/interpreter.go/internal/exc"
	"gopkg.klang.org/interpreter.go/internal/fs"
	"gopkg.klang.org/interpreter.go/internal/lang"
)

type testHelper struct {
	log    *lang.Log
	stream *Stream
}

func newTestHelper(input string) *testHelper {
	log := lang.NewLog()
	return &testHelper{
		log:    log,
		stream: NewStream("/test", fs.NewStringSource(input), log, false),
	}
}

type expect struct {
	typ    lang.TokenType
	value  string
	number float64
}

func TestStream(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected []expect
		errCode  string
	}{
		{
			name:  "keywords",
			input: "if else while for let def break continue return\n",
			expected: []expect{
				{typ: lang.TokenTypeKeywordIf, value: "if"},
				{typ: lang.TokenTypeKeywordElse, value: "else"},
				{typ: lang.TokenTypeKeywordWhile, value: "while"},
				{typ: lang.TokenTypeKeywordFor, value: "for"},
				{typ: lang.TokenTypeKeywordLet, value: "let"},
				{typ: lang.TokenTypeKeywordDef, value: "def"},
				{typ: lang.TokenTypeKeywordBreak, value: "break"},
				{typ: lang.TokenTypeKeywordContinue, value: "continue"},
				{typ: lang.TokenTypeKeywordReturn, value: "return"},
			},
		},
		{
			name:  "identifiers that almost match keywords",
			input: "iffy if_ _if lets\n",
			expected: []expect{
				{typ: lang.TokenTypeIdentifier, value: "iffy"},
				{typ: lang.TokenTypeIdentifier, value: "if_"},
				{typ: lang.TokenTypeIdentifier, value: "_if"},
				{typ: lang.TokenTypeIdentifier, value: "lets"},
			},
		},
		{
			name:  "identifiers with digits and dollar",
			input: "x$1 _a9$ abc123\n",
			expected: []expect{
				{typ: lang.TokenTypeIdentifier, value: "x$1"},
				{typ: lang.TokenTypeIdentifier, value: "_a9$"},
				{typ: lang.TokenTypeIdentifier, value: "abc123"},
			},
		},
		{
			name:  "parameters",
			input: "$freq $x1\n",
			expected: []expect{
				{typ: lang.TokenTypeParameter, value: "$freq"},
				{typ: lang.TokenTypeParameter, value: "$x1"},
			},
		},
		{
			input: "\"abc\"\n",
			expected: []expect{
				{typ: lang.TokenTypeString, value: "abc"},
			},
		},
		{
			name:  "string with newline escape",
			input: "\"a\\nb\"\n",
			expected: []expect{
				{typ: lang.TokenTypeString, value: "a\nb"},
			},
		},
		{
			name:  "string with quote escape",
			input: "\"a\\\"b\"\n",
			expected: []expect{
				{typ: lang.TokenTypeString, value: "a\"b"},
			},
		},
		{
			name:  "string with backslash escape",
			input: "\"a\\\\b\"\n",
			expected: []expect{
				{typ: lang.TokenTypeString, value: "a\\b"},
			},
		},
		{
			name:  "string with unknown escape",
			input: "\"a\\qb\"\n",
			expected: []expect{
				{typ: lang.TokenTypeString, value: "aqb"},
			},
		},
		{
			name:  "string with nul escape",
			input: "\"a\\0b\"\n",
			expected: []expect{
				{typ: lang.TokenTypeString, value: "a\x00b"},
			},
		},
		{
			name:  "adjacent strings",
			input: "\"a\"\"b\"\n",
			expected: []expect{
				{typ: lang.TokenTypeString, value: "a"},
				{typ: lang.TokenTypeString, value: "b"},
			},
		},
		{
			input: "123\n",
			expected: []expect{
				{typ: lang.TokenTypeNumber, value: "123", number: 123},
			},
		},
		{
			input: "123.4\n",
			expected: []expect{
				{typ: lang.TokenTypeNumber, value: "123.4", number: 123.4},
			},
		},
		{
			input: ".4\n",
			expected: []expect{
				{typ: lang.TokenTypeNumber, value: ".4", number: 0.4},
			},
		},
		{
			input: "123.4e3\n",
			expected: []expect{
				{typ: lang.TokenTypeNumber, value: "123.4e3", number: 123400},
			},
		},
		{
			input: "5.\n",
			expected: []expect{
				{typ: lang.TokenTypeNumber, value: "5.", number: 5},
			},
		},
		{
			input: "1E+2\n",
			expected: []expect{
				{typ: lang.TokenTypeNumber, value: "1E+2", number: 100},
			},
		},
		{
			name:  "two literals out of doubled dot",
			input: "1..4\n",
			expected: []expect{
				{typ: lang.TokenTypeNumber, value: "1.", number: 1},
				{typ: lang.TokenTypeNumber, value: ".4", number: 0.4},
			},
		},
		{
			input:   "1e\n",
			errCode: exc.CodeIncompleteScientificNotation,
		},
		{
			input:   "1e+\n",
			errCode: exc.CodeIncompleteScientificNotation,
		},
		{
			name:    "exponent overflow",
			input:   "1e999\n",
			errCode: exc.CodeParseFloatFailure,
		},
		{
			input:   "& \n",
			errCode: exc.CodeSingleAmpersand,
		},
		{
			input: "&& \n",
			expected: []expect{
				{typ: lang.TokenTypeBinAnd, value: "&&"},
			},
		},
		{
			input:   ". \n",
			errCode: exc.CodeSingleDot,
		},
		{
			input:   "..4\n",
			errCode: exc.CodeSingleDot,
		},
		{
			name:  "operators",
			input: "+ - -> * / % ^ = == => ! != < << > >> | || : ; , ? ( ) [ ] { }\n",
			expected: []expect{
				{typ: lang.TokenTypePlus, value: "+"},
				{typ: lang.TokenTypeMinus, value: "-"},
				{typ: lang.TokenTypeArrow, value: "->"},
				{typ: lang.TokenTypeStar, value: "*"},
				{typ: lang.TokenTypeSlash, value: "/"},
				{typ: lang.TokenTypePercent, value: "%"},
				{typ: lang.TokenTypeCaret, value: "^"},
				{typ: lang.TokenTypeEqual, value: "="},
				{typ: lang.TokenTypeComparison, value: "=="},
				{typ: lang.TokenTypeFatArrow, value: "=>"},
				{typ: lang.TokenTypeExclamation, value: "!"},
				{typ: lang.TokenTypeNotComparison, value: "!="},
				{typ: lang.TokenTypeLess, value: "<"},
				{typ: lang.TokenTypeShiftLeft, value: "<<"},
				{typ: lang.TokenTypeGreater, value: ">"},
				{typ: lang.TokenTypeShiftRight, value: ">>"},
				{typ: lang.TokenTypePipe, value: "|"},
				{typ: lang.TokenTypeBinOr, value: "||"},
				{typ: lang.TokenTypeColon, value: ":"},
				{typ: lang.TokenTypeSemicolon, value: ";"},
				{typ: lang.TokenTypeComma, value: ","},
				{typ: lang.TokenTypeQuestion, value: "?"},
				{typ: lang.TokenTypeParenOpen, value: "("},
				{typ: lang.TokenTypeParenClose, value: ")"},
				{typ: lang.TokenTypeSquareOpen, value: "["},
				{typ: lang.TokenTypeSquareClose, value: "]"},
				{typ: lang.TokenTypeCurlyOpen, value: "{"},
				{typ: lang.TokenTypeCurlyClose, value: "}"},
			},
		},
		{
			name:  "maximal munch stops at two",
			input: "==>\n",
			expected: []expect{
				{typ: lang.TokenTypeComparison, value: "=="},
				{typ: lang.TokenTypeGreater, value: ">"},
			},
		},
		{
			name:  "no spaces between tokens",
			input: "a+b\n",
			expected: []expect{
				{typ: lang.TokenTypeIdentifier, value: "a"},
				{typ: lang.TokenTypePlus, value: "+"},
				{typ: lang.TokenTypeIdentifier, value: "b"},
			},
		},
		{
			name:  "nested block comment",
			input: "/* /* */ */ x\n",
			expected: []expect{
				{typ: lang.TokenTypeIdentifier, value: "x"},
			},
		},
		{
			name:  "block comment between tokens",
			input: "a /* b */ c\n",
			expected: []expect{
				{typ: lang.TokenTypeIdentifier, value: "a"},
				{typ: lang.TokenTypeIdentifier, value: "c"},
			},
		},
		{
			name:  "line comment",
			input: "// whole line\nx\n",
			expected: []expect{
				{typ: lang.TokenTypeIdentifier, value: "x"},
			},
		},
		{
			name:  "line comment right after token",
			input: "a// rest\n",
			expected: []expect{
				{typ: lang.TokenTypeIdentifier, value: "a"},
			},
		},
		{
			name:  "block comment across lines",
			input: "a /* x\ny */ b\n",
			expected: []expect{
				{typ: lang.TokenTypeIdentifier, value: "a"},
				{typ: lang.TokenTypeIdentifier, value: "b"},
			},
		},
		{
			name:  "string across lines",
			input: "\"ab\ncd\" x\n",
			expected: []expect{
				{typ: lang.TokenTypeString, value: "ab\ncd"},
				{typ: lang.TokenTypeIdentifier, value: "x"},
			},
		},
		{
			name:  "string closing before its start column",
			input: "abcd\"xy\ncd\" z\n",
			expected: []expect{
				{typ: lang.TokenTypeIdentifier, value: "abcd"},
				{typ: lang.TokenTypeString, value: "xy\ncd"},
				{typ: lang.TokenTypeIdentifier, value: "z"},
			},
		},
		{
			name:    "non-ascii outside a string",
			input:   "é\n",
			errCode: exc.CodeUnexpectedCharacter,
		},
		{
			name:  "non-ascii inside a string",
			input: "\"héz\"\n",
			expected: []expect{
				{typ: lang.TokenTypeString, value: "héz"},
			},
		},
		{
			name:    "unterminated comment",
			input:   "/*\n",
			errCode: exc.CodeUnterminatedComment,
		},
		{
			name:    "unterminated nested comment",
			input:   "/* /*\n*/\n",
			errCode: exc.CodeUnterminatedComment,
		},
		{
			name:  "line comment in block comment hides the close",
			input: "/* // */\nx\n",
			errCode: exc.CodeUnterminatedComment,
		},
		{
			name:  "line comment in block comment keeps the block open",
			input: "/* // ignored\n*/ x\n",
			expected: []expect{
				{typ: lang.TokenTypeIdentifier, value: "x"},
			},
		},
		{
			name:    "unterminated string",
			input:   "\"fin\n",
			errCode: exc.CodeUnterminatedStringLiteral,
		},
		{
			name:    "missing terminator truncates a token",
			input:   "let",
			errCode: exc.CodeNoLineFeedAtEOF,
		},
		{
			name: "terminator fixes the truncated token",
			input: "let\n",
			expected: []expect{
				{typ: lang.TokenTypeKeywordLet, value: "let"},
			},
		},
		{
			name:    "missing terminator after a string",
			input:   "\"str\"",
			errCode: exc.CodeNoLineFeedAtEOF,
		},
		{
			name:    "escape at end of input",
			input:   "\"a\\",
			errCode: exc.CodeNoCharacterAfterBackSlash,
		},
		{
			name:     "empty input",
			input:    "",
			expected: []expect{},
		},
		{
			name:     "blank lines only",
			input:    "\n \t\n\n",
			expected: []expect{},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		name := testCase.name
		if name == "" {
			name = testCase.input
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			h := newTestHelper(testCase.input)
			for _, expectation := range testCase.expected {
				token, err := h.stream.Next(ctx)
				require.NoError(t, err)
				require.NotNil(t, token)
				require.Equal(t, expectation.typ, token.Type)
				require.Equal(t, expectation.value, token.Value)
				if expectation.typ == lang.TokenTypeNumber {
					require.InDelta(t, expectation.number, token.Number, 0.05)
				}
			}
			token, err := h.stream.Next(ctx)
			if testCase.errCode == "" {
				require.NoError(t, err)
				require.Nil(t, token)
			} else {
				require.Error(t, err)
				var e exc.Exception
				require.ErrorAs(t, err, &e)
				require.Equal(t, testCase.errCode, e.Code())
			}
		})
	}
}

func TestAskDoesNotAdvance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newTestHelper("let x\n")

	isLet := func(token *lang.Token) bool { return token.Type == lang.TokenTypeKeywordLet }
	isIdent := func(token *lang.Token) bool { return token.Type == lang.TokenTypeIdentifier }

	ok, err := h.stream.Ask(ctx, isLet)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = h.stream.Ask(ctx, isIdent)
	require.NoError(t, err)
	require.False(t, ok)

	token, err := h.stream.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, lang.TokenTypeKeywordLet, token.Type)

	ok, err = h.stream.Ask(ctx, isIdent)
	require.NoError(t, err)
	require.True(t, ok)
	token, err = h.stream.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "x", token.Value)

	ok, err = h.stream.Ask(ctx, isIdent)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTokensBeforeFaultRemain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newTestHelper("a & b\n")

	_, err := h.stream.Next(ctx)
	require.Error(t, err)
	var e exc.Exception
	require.ErrorAs(t, err, &e)
	require.Equal(t, exc.CodeSingleAmpersand, e.Code())

	token, err := h.stream.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, lang.TokenTypeIdentifier, token.Type)
	require.Equal(t, "a", token.Value)

	token, err = h.stream.Next(ctx)
	require.NoError(t, err)
	require.Nil(t, token)
}

func TestStreamUsableAfterError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newTestHelper("\"open\nnext 1\n")

	// the unterminated string swallows the rest of the input, so the fault
	// arrives at end of input and later calls see a clean stream
	_, err := h.stream.Next(ctx)
	require.Error(t, err)
	var e exc.Exception
	require.ErrorAs(t, err, &e)
	require.Equal(t, exc.CodeUnterminatedStringLiteral, e.Code())

	token, err := h.stream.Next(ctx)
	require.NoError(t, err)
	require.Nil(t, token)
}

func TestSpans(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newTestHelper("let x = 1\n\"a\nb\" z\n")

	expected := []struct {
		value string
		span  string
	}{
		{value: "let", span: "[0:0, 0:3)"},
		{value: "x", span: "[0:4, 0:5)"},
		{value: "=", span: "[0:6, 0:7)"},
		{value: "1", span: "[0:8, 0:9)"},
		{value: "a\nb", span: "[1:0, 2:2)"},
		{value: "z", span: "[2:3, 2:4)"},
	}
	for _, expectation := range expected {
		token, err := h.stream.Next(ctx)
		require.NoError(t, err)
		require.NotNil(t, token)
		require.Equal(t, expectation.value, token.Value)
		require.Equal(t, expectation.span, token.Span.GoString())
	}
	token, err := h.stream.Next(ctx)
	require.NoError(t, err)
	require.Nil(t, token)
}

func TestLogRetainsEveryLine(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newTestHelper("ok\n& \n")

	token, err := h.stream.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", token.Value)

	_, err = h.stream.Next(ctx)
	require.Error(t, err)

	require.Equal(t, 2, h.log.Len())
	require.Equal(t, "ok\n", h.log.Line(0))
	require.Equal(t, "& \n", h.log.Line(1))
}

func TestPromptEcho(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	prompts := &bytes.Buffer{}
	log := lang.NewLog()
	src := fs.NewReaderSource(bytes.NewBufferString("1\n2\n"), fs.OptionWithPromptWriter(prompts))
	stream := NewStream("/test", src, log, true)

	for _, want := range []float64{1, 2} {
		token, err := stream.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, want, token.Number)
	}
	token, err := stream.Next(ctx)
	require.NoError(t, err)
	require.Nil(t, token)

	require.Equal(t, "> > > ", prompts.String())
}

func TestUnterminatedCommentReportsOutermost(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newTestHelper("x /* a /* b\n")

	token, err := h.stream.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "x", token.Value)

	_, err = h.stream.Next(ctx)
	require.Error(t, err)
	var e exc.Exception
	require.ErrorAs(t, err, &e)
	require.Equal(t, exc.CodeUnterminatedComment, e.Code())
	require.True(t, e.Location().Span.IsPresent())
	require.Equal(t, "1:3", e.Location().Span.Value().Start().String())
}
