// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.klang.org/interpreter.go/internal/exc"
)

func TestReaderSourceKeepsTerminators(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	src := NewStringSource("one\ntwo\n")

	line, err := src.ReadLine(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "one\n", line)

	line, err = src.ReadLine(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "two\n", line)

	_, err = src.ReadLine(ctx, "")
	require.ErrorIs(t, err, io.EOF)
}

// A final line with no terminator is returned as-is; its EOF arrives on the
// following call.
func TestReaderSourceHoldsBackEOF(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	src := NewStringSource("no newline")

	line, err := src.ReadLine(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "no newline", line)

	_, err = src.ReadLine(ctx, "")
	require.ErrorIs(t, err, io.EOF)
}

func TestReaderSourcePrompt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	prompts := &bytes.Buffer{}
	src := NewReaderSource(bytes.NewBufferString("a\n"), OptionWithPromptWriter(prompts))

	_, err := src.ReadLine(ctx, "> ")
	require.NoError(t, err)
	require.Equal(t, "> ", prompts.String())

	_, err = src.ReadLine(ctx, "")
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, "> ", prompts.String())
}

func TestFileSource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "script.klg")
	require.NoError(t, os.WriteFile(path, []byte("let x = 1;\n"), 0o644))

	src, err := NewFileSource(path)
	require.NoError(t, err)
	defer src.Close()

	line, err := src.ReadLine(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "let x = 1;\n", line)

	_, err = src.ReadLine(ctx, "")
	require.ErrorIs(t, err, io.EOF)
}

func TestFileSourceMissing(t *testing.T) {
	t.Parallel()
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.klg"))
	var e exc.Exception
	require.ErrorAs(t, err, &e)
	require.Equal(t, exc.CodeFileNotFound, e.Code())
}
