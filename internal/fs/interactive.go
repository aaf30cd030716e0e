// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"gopkg.klang.org/interpreter.go/internal/lang"
)

var _ lang.LineSource = (*InteractiveSource)(nil)

const historyFile = ".klang_history"

// InteractiveSource reads lines from the terminal through a line editor.
// History is loaded from ~/.klang_history when a home directory is known and
// written back on Close.
type InteractiveSource struct {
	state   *liner.State
	history string
}

func NewInteractiveSource() *InteractiveSource {
	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)
	src := &InteractiveSource{state: ln}
	if home, err := os.UserHomeDir(); err == nil {
		src.history = filepath.Join(home, historyFile)
		if f, err := os.Open(src.history); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	return src
}

// ReadLine blocks on the terminal. The terminator the line editor strips is
// restored, so lines look the same as from any other source. Ctrl-C abandons
// the current line and comes back empty rather than ending the session.
func (self *InteractiveSource) ReadLine(ctx context.Context, prompt string) (string, error) {
	line, err := self.state.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "\n", nil
		}
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		self.state.AppendHistory(line)
	}
	return line + "\n", nil
}

func (self *InteractiveSource) Close() error {
	if self.history != "" {
		if f, err := os.Create(self.history); err == nil {
			_, _ = self.state.WriteHistory(f)
			_ = f.Close()
		}
	}
	return self.state.Close()
}
