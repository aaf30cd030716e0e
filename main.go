// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"gopkg.klang.org/interpreter.go/internal/eval"
	"gopkg.klang.org/interpreter.go/internal/exc"
	"gopkg.klang.org/interpreter.go/internal/fs"
	"gopkg.klang.org/interpreter.go/internal/lang"
	"gopkg.klang.org/interpreter.go/internal/lexer"
	"gopkg.klang.org/interpreter.go/internal/parser"
	"gopkg.klang.org/interpreter.go/internal/prelude"
)

type opts struct {
	DumpTokens bool
	SampleRate int
	NoPrelude  bool
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	op := &opts{}
	flags := pflag.NewFlagSet("klang", pflag.PanicOnError)
	flags.BoolVar(&op.DumpTokens, "dump-tokens", false, "Output the token stream instead of evaluating")
	flags.IntVar(&op.SampleRate, "sample-rate", 0, "Sample rate used by write, in Hz (default 44100, or KLANG_SAMPLE_RATE)")
	flags.BoolVar(&op.NoPrelude, "no-prelude", false, "Skip the standard prelude")
	_ = flags.Parse(os.Args[1:])
	targets := flags.Args()
	if len(targets) > 1 {
		fmt.Fprintln(os.Stderr, "usage: klang [flags] [file.klg]")
		os.Exit(1)
	}

	options := []eval.Option{eval.OptionWithLookupEnv(os.LookupEnv)}
	if op.SampleRate > 0 {
		options = append(options, eval.OptionWithSampleRate(op.SampleRate))
	}
	evaluator := eval.New(options...)

	if !op.NoPrelude {
		loadPrelude(ctx, evaluator)
	}

	if len(targets) == 1 {
		runFile(ctx, evaluator, targets[0], op.DumpTokens)
		return
	}
	runInteractive(ctx, evaluator, op.DumpTokens)
}

// loadPrelude evaluates the embedded standard definitions into the global
// environment. A prelude that fails to evaluate is a build defect, so any
// fault is fatal.
func loadPrelude(ctx context.Context, evaluator *eval.Evaluator) {
	log := lang.NewLog()
	stream := lexer.NewStream(prelude.URI, fs.NewStringSource(prelude.Source), log, false)
	p := parser.New(prelude.URI, stream)
	for {
		stmt, err := p.ParseStatement(ctx)
		if err != nil {
			exc.Render(os.Stderr, err, log)
			os.Exit(1)
		}
		if stmt == nil {
			return
		}
		if _, err := evaluator.Evaluate(ctx, prelude.URI, stmt); err != nil {
			exc.Render(os.Stderr, err, log)
			os.Exit(1)
		}
	}
}

func runFile(ctx context.Context, evaluator *eval.Evaluator, path string, dumpTokens bool) {
	src, err := fs.NewFileSource(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	defer src.Close()

	log := lang.NewLog()
	stream := lexer.NewStream(path, src, log, false)
	if dumpTokens {
		if err := dump(ctx, stream); err != nil {
			exc.Render(os.Stderr, err, log)
			os.Exit(1)
		}
		return
	}
	p := parser.New(path, stream)
	for {
		stmt, err := p.ParseStatement(ctx)
		if err != nil {
			exc.Render(os.Stderr, err, log)
			os.Exit(1)
		}
		if stmt == nil {
			return
		}
		if _, err := evaluator.Evaluate(ctx, path, stmt); err != nil {
			exc.Render(os.Stderr, err, log)
			os.Exit(1)
		}
	}
}

const replURI = "<stdin>"

// runInteractive reads statements from the terminal until EOF. An error ends
// only the statement that raised it; the session keeps its environment and
// keeps going.
func runInteractive(ctx context.Context, evaluator *eval.Evaluator, dumpTokens bool) {
	src := fs.NewInteractiveSource()
	defer src.Close()

	log := lang.NewLog()
	stream := lexer.NewStream(replURI, src, log, true)
	if dumpTokens {
		for {
			if err := dump(ctx, stream); err != nil {
				exc.Render(os.Stderr, err, log)
				continue
			}
			return
		}
	}
	p := parser.New(replURI, stream)
	for {
		stmt, err := p.ParseStatement(ctx)
		if err != nil {
			exc.Render(os.Stderr, err, log)
			continue
		}
		if stmt == nil {
			return
		}
		value, err := evaluator.Evaluate(ctx, replURI, stmt)
		if err != nil {
			exc.Render(os.Stderr, err, log)
			continue
		}
		if value.Kind() != eval.KindVoid {
			fmt.Println(value)
		}
	}
}

// dump prints the raw token stream, one token per line with its half-open
// span.
func dump(ctx context.Context, stream *lexer.Stream) error {
	for {
		token, err := stream.Next(ctx)
		if err != nil {
			return err
		}
		if token == nil {
			return nil
		}
		fmt.Printf("%#v %s %q\n", token.Span, token.Type, token.Value)
	}
}
