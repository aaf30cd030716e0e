// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package eval

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.klang.org/interpreter.go/internal/exc"
	"gopkg.klang.org/interpreter.go/internal/fs"
	"gopkg.klang.org/interpreter.go/internal/lang"
	"gopkg.klang.org/interpreter.go/internal/lexer"
	"gopkg.klang.org/interpreter.go/internal/parser"
)

// run evaluates a program one statement at a time and returns the value of
// the last statement.
func run(t *testing.T, evaluator *Evaluator, input string) (Value, error) {
	t.Helper()
	log := lang.NewLog()
	p := parser.New("/test", lexer.NewStream("/test", fs.NewStringSource(input), log, false))
	ctx := context.Background()
	var last Value = Void{}
	for {
		stmt, err := p.ParseStatement(ctx)
		if err != nil {
			return nil, err
		}
		if stmt == nil {
			return last, nil
		}
		last, err = evaluator.Evaluate(ctx, "/test", stmt)
		if err != nil {
			return nil, err
		}
	}
}

// real runs a program and requires that its last statement produced a real.
func real(t *testing.T, evaluator *Evaluator, input string) float64 {
	t.Helper()
	value, err := run(t, evaluator, input)
	require.NoError(t, err)
	r, ok := value.(Real)
	require.True(t, ok, "expected real, got %s", value.Kind())
	return float64(r)
}

func faultCode(t *testing.T, err error) string {
	t.Helper()
	var e exc.Exception
	require.ErrorAs(t, err, &e)
	return e.Code()
}

func TestArithmetic(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		input    string
		expected float64
	}{
		{input: "1 + 2 * 3;\n", expected: 7},
		{input: "(1 + 2) * 3;\n", expected: 9},
		{input: "10 % 3;\n", expected: 1},
		{input: "2 ^ 10;\n", expected: 1024},
		{input: "2 ^ 3 ^ 2;\n", expected: 512},
		{input: "-2 ^ 2;\n", expected: 4},
		{input: "7 / 2;\n", expected: 3.5},
		{input: "1 < 2 ? 10 : 20;\n", expected: 10},
		{input: "sqrt(81);\n", expected: 9},
		{input: "min(3, max(1, 2));\n", expected: 2},
		{input: "floor(2.9);\n", expected: 2},
		{input: "abs(-4);\n", expected: 4},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()
			require.InDelta(t, testCase.expected, real(t, New(), testCase.input), 1e-9)
		})
	}
}

func TestLetAndAssign(t *testing.T) {
	t.Parallel()
	value := real(t, New(), "let x = 1;\nx = x + 5;\nx;\n")
	require.InDelta(t, 6, value, 1e-9)
}

func TestAssignUndefined(t *testing.T) {
	t.Parallel()
	_, err := run(t, New(), "y = 1;\n")
	require.Equal(t, exc.CodeUndefinedName, faultCode(t, err))
}

func TestWhileLoop(t *testing.T) {
	t.Parallel()
	input := "let n = 0;\nlet total = 0;\nwhile (n < 5) {\n  n = n + 1;\n  total = total + n;\n}\ntotal;\n"
	require.InDelta(t, 15, real(t, New(), input), 1e-9)
}

func TestForLoopWithBreakContinue(t *testing.T) {
	t.Parallel()
	input := "let total = 0;\nfor (let i = 0; i < 10; i = i + 1) {\n  if (i == 3) { continue; }\n  if (i > 5) { break; }\n  total = total + i;\n}\ntotal;\n"
	// 0+1+2+4+5
	require.InDelta(t, 12, real(t, New(), input), 1e-9)
}

func TestBreakOutsideLoop(t *testing.T) {
	t.Parallel()
	_, err := run(t, New(), "break;\n")
	require.Equal(t, exc.CodeBadControl, faultCode(t, err))
}

func TestFunctionsAndReturn(t *testing.T) {
	t.Parallel()
	input := "def fib(n) {\n  if (n < 2) { return n; }\n  return fib(n - 1) + fib(n - 2);\n}\nfib(10);\n"
	require.InDelta(t, 55, real(t, New(), input), 1e-9)
}

func TestArrowDef(t *testing.T) {
	t.Parallel()
	input := "def double($x) -> $x * 2;\ndouble(21);\n"
	require.InDelta(t, 42, real(t, New(), input), 1e-9)
}

func TestNamedArguments(t *testing.T) {
	t.Parallel()
	input := "def scale($value, $factor) -> $value * $factor;\nscale(3, factor: 5);\n"
	require.InDelta(t, 15, real(t, New(), input), 1e-9)
}

func TestBadArguments(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name  string
		input string
	}{
		{name: "missing", input: "def f(a, b) -> a + b;\nf(1);\n"},
		{name: "unknown name", input: "def f(a) -> a;\nf(q: 1);\n"},
		{name: "duplicate", input: "def f(a) -> a;\nf(1, a: 2);\n"},
		{name: "too many", input: "def f(a) -> a;\nf(1, 2);\n"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			_, err := run(t, New(), testCase.input)
			require.Equal(t, exc.CodeBadArgument, faultCode(t, err))
		})
	}
}

func TestClosures(t *testing.T) {
	t.Parallel()
	input := "def adder(n) -> x => x + n;\nlet add3 = adder(3);\nadd3(4);\n"
	require.InDelta(t, 7, real(t, New(), input), 1e-9)
}

func TestLists(t *testing.T) {
	t.Parallel()
	input := "let xs = [1, 2, 3];\nxs[1] = 20;\nxs[0] + xs[1] + xs[2];\n"
	require.InDelta(t, 24, real(t, New(), input), 1e-9)
}

func TestBadIndex(t *testing.T) {
	t.Parallel()
	_, err := run(t, New(), "let xs = [1];\nxs[3];\n")
	require.Equal(t, exc.CodeBadIndex, faultCode(t, err))
}

func TestBooleans(t *testing.T) {
	t.Parallel()
	value, err := run(t, New(), "1 < 2 && !(2 < 1) || 1 == 2;\n")
	require.NoError(t, err)
	require.Equal(t, Boolean(true), value)
}

func TestShortCircuit(t *testing.T) {
	t.Parallel()
	// the right side would be a type fault if evaluated
	value, err := run(t, New(), "1 == 1 || 2;\n")
	require.NoError(t, err)
	require.Equal(t, Boolean(true), value)

	_, err = run(t, New(), "1 == 2 | 2;\n")
	require.Equal(t, exc.CodeBadOperand, faultCode(t, err))
}

func TestStringEquality(t *testing.T) {
	t.Parallel()
	value, err := run(t, New(), "\"a\" == \"a\";\n")
	require.NoError(t, err)
	require.Equal(t, Boolean(true), value)
}

func TestSoundAlgebra(t *testing.T) {
	t.Parallel()
	input := "let s = sin(440) * 0.5 + linear(0, 1, 2) * exp(0.5);\nlet delayed = s >> 0.25;\nlet advanced = s << 0.25;\n-delayed;\n"
	value, err := run(t, New(), input)
	require.NoError(t, err)
	require.Equal(t, KindSound, value.Kind())
}

func TestSoundOperandFault(t *testing.T) {
	t.Parallel()
	_, err := run(t, New(), "sin(440) / 2;\n")
	require.Equal(t, exc.CodeBadOperand, faultCode(t, err))
}

func TestUndefinedName(t *testing.T) {
	t.Parallel()
	_, err := run(t, New(), "nope;\n")
	require.Equal(t, exc.CodeUndefinedName, faultCode(t, err))
}

func TestNotCallable(t *testing.T) {
	t.Parallel()
	_, err := run(t, New(), "let x = 1;\nx(2);\n")
	require.Equal(t, exc.CodeNotCallable, faultCode(t, err))
}

func TestSampleRateOptions(t *testing.T) {
	t.Parallel()
	byFlag := New(OptionWithSampleRate(8000))
	require.Equal(t, 8000, byFlag.rate)

	byEnv := New(OptionWithLookupEnv(func(key string) (string, bool) {
		if key == sampleRateEnv {
			return "22050", true
		}
		return "", false
	}))
	require.Equal(t, 22050, byEnv.rate)

	ignored := New(OptionWithLookupEnv(func(string) (string, bool) {
		return "not a number", true
	}))
	require.Equal(t, defaultSampleRate, ignored.rate)
}

func TestWriteProducesFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "out.wav")
	evaluator := New(OptionWithSampleRate(8000))
	evaluator.Global().Define("out", String(path))
	_, err := run(t, evaluator, "write(sin(440) * exp(0.1), 0.1, out);\n")
	require.NoError(t, err)

	info, statErr := os.Stat(path)
	require.NoError(t, statErr)
	// 800 samples of 32-bit PCM plus headers
	require.Greater(t, info.Size(), int64(3200))
}

func TestVoidStatements(t *testing.T) {
	t.Parallel()
	value, err := run(t, New(), "let x = 1;\n")
	require.NoError(t, err)
	require.Equal(t, KindVoid, value.Kind())
}
