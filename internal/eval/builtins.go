// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package eval

import (
	"context"
	"fmt"
	"math"
	"os"

	"gopkg.klang.org/interpreter.go/internal/exc"
	"gopkg.klang.org/interpreter.go/internal/lang"
	"gopkg.klang.org/interpreter.go/internal/sound"
	"gopkg.klang.org/interpreter.go/internal/wav"
)

func (self *Evaluator) installBuiltins() {
	define := func(name string, params []string, fn BuiltinFunc) {
		self.global.Define(name, &Function{Name: name, Params: params, Builtin: fn})
	}

	define("sin", []string{"frequency"}, func(ctx context.Context, ev *Evaluator, span lang.Range, args []Value) (Value, error) {
		frequency, err := ev.realArg(span, "frequency", args[0])
		if err != nil {
			return nil, err
		}
		return Sound{Signal: sound.Sin(frequency)}, nil
	})

	define("linear", []string{"x0", "x1", "t"}, func(ctx context.Context, ev *Evaluator, span lang.Range, args []Value) (Value, error) {
		x0, err := ev.realArg(span, "x0", args[0])
		if err != nil {
			return nil, err
		}
		x1, err := ev.realArg(span, "x1", args[1])
		if err != nil {
			return nil, err
		}
		t1, err := ev.realArg(span, "t", args[2])
		if err != nil {
			return nil, err
		}
		return Sound{Signal: sound.Linear(x0, x1, t1)}, nil
	})

	define("exp", []string{"t"}, func(ctx context.Context, ev *Evaluator, span lang.Range, args []Value) (Value, error) {
		tau, err := ev.realArg(span, "t", args[0])
		if err != nil {
			return nil, err
		}
		return Sound{Signal: sound.Exp(tau)}, nil
	})

	define("write", []string{"sound", "seconds", "path"}, builtinWrite)

	defineReal1 := func(name string, param string, fn func(float64) float64) {
		define(name, []string{param}, func(ctx context.Context, ev *Evaluator, span lang.Range, args []Value) (Value, error) {
			x, err := ev.realArg(span, param, args[0])
			if err != nil {
				return nil, err
			}
			return Real(fn(x)), nil
		})
	}
	defineReal2 := func(name string, params [2]string, fn func(float64, float64) float64) {
		define(name, params[:], func(ctx context.Context, ev *Evaluator, span lang.Range, args []Value) (Value, error) {
			x, err := ev.realArg(span, params[0], args[0])
			if err != nil {
				return nil, err
			}
			y, err := ev.realArg(span, params[1], args[1])
			if err != nil {
				return nil, err
			}
			return Real(fn(x, y)), nil
		})
	}

	defineReal1("sqrt", "x", math.Sqrt)
	defineReal1("abs", "x", math.Abs)
	defineReal1("floor", "x", math.Floor)
	defineReal2("min", [2]string{"a", "b"}, math.Min)
	defineReal2("max", [2]string{"a", "b"}, math.Max)
}

// builtinWrite samples a sound and encodes it as a WAV file. A real first
// argument is allowed and broadcast as a constant signal.
func builtinWrite(ctx context.Context, ev *Evaluator, span lang.Range, args []Value) (Value, error) {
	signal, ok := asSignal(args[0])
	if !ok {
		return nil, ev.fault(span, exc.CodeBadArgument, fmt.Sprintf("write wants a sound, got %s", args[0].Kind()))
	}
	seconds, err := ev.realArg(span, "seconds", args[1])
	if err != nil {
		return nil, err
	}
	path, ok := args[2].(String)
	if !ok {
		return nil, ev.fault(span, exc.CodeBadArgument, fmt.Sprintf("write wants a string path, got %s", args[2].Kind()))
	}
	f, err := os.Create(string(path))
	if err != nil {
		return nil, exc.Wrap(exc.NewLocation(ev.uri, span), exc.CodeWriteFailure, err)
	}
	samples := sound.NewSampler(signal, ev.rate, float64(seconds))
	if err := wav.Encode(ctx, f, ev.rate, samples); err != nil {
		_ = f.Close()
		return nil, exc.Wrap(exc.NewLocation(ev.uri, span), exc.CodeWriteFailure, err)
	}
	if err := f.Close(); err != nil {
		return nil, exc.Wrap(exc.NewLocation(ev.uri, span), exc.CodeWriteFailure, err)
	}
	return Void{}, nil
}

func (self *Evaluator) realArg(span lang.Range, name string, value Value) (float64, error) {
	real, ok := value.(Real)
	if !ok {
		return 0, self.fault(span, exc.CodeBadArgument, fmt.Sprintf("%s must be real, got %s", name, value.Kind()))
	}
	return float64(real), nil
}
