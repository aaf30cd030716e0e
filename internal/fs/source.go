// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.klang.org/interpreter.go/internal/exc"
	"gopkg.klang.org/interpreter.go/internal/lang"
)

var _ lang.LineSource = (*FileSource)(nil)
var _ lang.LineSource = (*ReaderSource)(nil)

// FileSource reads a script file line by line. It never prompts.
type FileSource struct {
	file   *os.File
	reader *lineReader
}

// NewFileSource opens path for line-at-a-time reading. The returned source
// holds the file open until Close.
func NewFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, exc.Wrap(exc.Location{URI: path}, exc.CodeFileNotFound, err)
	}
	return &FileSource{file: f, reader: newLineReader(f)}, nil
}

func (self *FileSource) ReadLine(ctx context.Context, prompt string) (string, error) {
	return self.reader.readLine()
}

func (self *FileSource) Close() error {
	return self.file.Close()
}

// ReaderSource reads lines from any reader, typically standard input. When a
// prompt is requested it is written to the prompt writer, standard output
// unless an option overrides it.
type ReaderSource struct {
	reader   *lineReader
	promptTo io.Writer
}

type ReaderOption func(*ReaderSource)

func OptionWithPromptWriter(w io.Writer) ReaderOption {
	return func(src *ReaderSource) {
		src.promptTo = w
	}
}

func NewReaderSource(r io.Reader, opts ...ReaderOption) *ReaderSource {
	src := &ReaderSource{
		reader:   newLineReader(r),
		promptTo: os.Stdout,
	}
	for _, opt := range opts {
		opt(src)
	}
	return src
}

// NewStringSource reads from an in-memory script. Mostly for tests.
func NewStringSource(s string) *ReaderSource {
	return NewReaderSource(strings.NewReader(s))
}

func (self *ReaderSource) ReadLine(ctx context.Context, prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(self.promptTo, prompt)
	}
	return self.reader.readLine()
}

// lineReader yields lines with their terminators attached. A final line with
// no terminator is returned as-is; the io.EOF that arrived with it is held
// back until the following call.
type lineReader struct {
	buf *bufio.Reader
	err error
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{buf: bufio.NewReader(r)}
}

func (self *lineReader) readLine() (string, error) {
	if self.err != nil {
		return "", self.err
	}
	line, err := self.buf.ReadString('\n')
	if err != nil {
		if line == "" {
			return "", err
		}
		self.err = err
	}
	return line, nil
}
