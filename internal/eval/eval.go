// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package eval is the tree-walking evaluator: it executes parsed statements
// against a lexically scoped environment, with sounds as first-class values.
package eval

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gopkg.klang.org/interpreter.go/internal/ast"
	"gopkg.klang.org/interpreter.go/internal/exc"
	"gopkg.klang.org/interpreter.go/internal/lang"
	"gopkg.klang.org/interpreter.go/internal/sound"
)

const defaultSampleRate = 44100

// sampleRateEnv overrides the sample rate used by write when set.
const sampleRateEnv = "KLANG_SAMPLE_RATE"

type Evaluator struct {
	uri    string
	global *Env
	rate   int
}

type Option func(*Evaluator)

func OptionWithSampleRate(rate int) Option {
	return func(self *Evaluator) {
		self.rate = rate
	}
}

// OptionWithLookupEnv reads overrides from an environment lookup, usually
// os.LookupEnv. Injectable so tests never touch the process environment.
func OptionWithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(self *Evaluator) {
		if raw, ok := lookup(sampleRateEnv); ok {
			if rate, err := strconv.Atoi(raw); err == nil && rate > 0 {
				self.rate = rate
			}
		}
	}
}

func New(opts ...Option) *Evaluator {
	self := &Evaluator{
		global: NewEnv(nil),
		rate:   defaultSampleRate,
	}
	self.installBuiltins()
	for _, opt := range opts {
		opt(self)
	}
	return self
}

// Global exposes the outermost environment, so a host can pre-define names.
func (self *Evaluator) Global() *Env {
	return self.global
}

// Evaluate executes one top-level statement. The returned value is the value
// of an expression statement and Void for every other form; uri names the
// source the statement came from, for error locations.
func (self *Evaluator) Evaluate(ctx context.Context, uri string, stmt ast.Statement) (Value, error) {
	self.uri = uri
	value, err := self.execStatement(ctx, self.global, stmt)
	if err != nil {
		if ctl, ok := err.(control); ok {
			return nil, self.fault(ctl.site(), exc.CodeBadControl, err.Error())
		}
		return nil, err
	}
	return value, nil
}

// control is the unwinding signal for break, continue, and return. The
// signals travel as errors so every evaluation path propagates them without
// special cases; loops and calls intercept the ones they understand.
type control interface {
	error
	site() lang.Range
}

type breakSignal struct{ span lang.Range }

func (self breakSignal) Error() string    { return "break outside of a loop" }
func (self breakSignal) site() lang.Range { return self.span }

type continueSignal struct{ span lang.Range }

func (self continueSignal) Error() string    { return "continue outside of a loop" }
func (self continueSignal) site() lang.Range { return self.span }

type returnSignal struct {
	span  lang.Range
	value Value
}

func (self returnSignal) Error() string    { return "return outside of a function" }
func (self returnSignal) site() lang.Range { return self.span }

func (self *Evaluator) execStatement(ctx context.Context, env *Env, stmt ast.Statement) (Value, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		return self.evalExpression(ctx, env, s.Expr)
	case *ast.Let:
		value, err := self.evalExpression(ctx, env, s.Value)
		if err != nil {
			return nil, err
		}
		env.Define(s.Name.Value, value)
		return Void{}, nil
	case *ast.Assign:
		return self.execAssign(ctx, env, s)
	case *ast.Def:
		params := make([]string, len(s.Params))
		for n, param := range s.Params {
			params[n] = param.Value
		}
		env.Define(s.Name.Value, &Function{
			Name:   s.Name.Value,
			Params: params,
			Body:   s.Body,
			Arrow:  s.Arrow,
			Env:    env,
		})
		return Void{}, nil
	case *ast.Block:
		scope := NewEnv(env)
		for _, inner := range s.Statements {
			if _, err := self.execStatement(ctx, scope, inner); err != nil {
				return nil, err
			}
		}
		return Void{}, nil
	case *ast.If:
		cond, err := self.evalBoolean(ctx, env, s.Cond)
		if err != nil {
			return nil, err
		}
		if cond {
			return self.execStatement(ctx, env, s.Then)
		}
		if s.Else != nil {
			return self.execStatement(ctx, env, s.Else)
		}
		return Void{}, nil
	case *ast.While:
		for {
			cond, err := self.evalBoolean(ctx, env, s.Cond)
			if err != nil {
				return nil, err
			}
			if !cond {
				return Void{}, nil
			}
			if _, err := self.execStatement(ctx, env, s.Body); err != nil {
				if _, ok := err.(breakSignal); ok {
					return Void{}, nil
				}
				if _, ok := err.(continueSignal); ok {
					continue
				}
				return nil, err
			}
		}
	case *ast.For:
		return self.execFor(ctx, env, s)
	case *ast.Break:
		return nil, breakSignal{span: s.Range}
	case *ast.Continue:
		return nil, continueSignal{span: s.Range}
	case *ast.Return:
		signal := returnSignal{span: s.Range, value: Value(Void{})}
		if s.Value != nil {
			value, err := self.evalExpression(ctx, env, s.Value)
			if err != nil {
				return nil, err
			}
			signal.value = value
		}
		return nil, signal
	}
	return nil, self.fault(stmt.Span(), exc.CodeUnknownFatal, fmt.Sprintf("unhandled statement %T", stmt))
}

func (self *Evaluator) execAssign(ctx context.Context, env *Env, s *ast.Assign) (Value, error) {
	value, err := self.evalExpression(ctx, env, s.Value)
	if err != nil {
		return nil, err
	}
	switch target := s.Target.(type) {
	case *ast.Identifier:
		if !env.Assign(target.Name(), value) {
			return nil, self.fault(target.Span(), exc.CodeUndefinedName, fmt.Sprintf("undefined name %s", target.Name()))
		}
	case *ast.Parameter:
		if !env.Assign(target.Name(), value) {
			return nil, self.fault(target.Span(), exc.CodeUndefinedName, fmt.Sprintf("undefined name %s", target.Name()))
		}
	case *ast.Index:
		list, index, err := self.evalIndexTarget(ctx, env, target)
		if err != nil {
			return nil, err
		}
		list.Elements[index] = value
	default:
		return nil, self.fault(s.Target.Span(), exc.CodeBadOperand, "target is not assignable")
	}
	return Void{}, nil
}

// for scopes its init variable to the loop, so each run gets a fresh child
// environment.
func (self *Evaluator) execFor(ctx context.Context, env *Env, s *ast.For) (Value, error) {
	scope := NewEnv(env)
	if s.Init != nil {
		if _, err := self.execStatement(ctx, scope, s.Init); err != nil {
			return nil, err
		}
	}
	for {
		if s.Cond != nil {
			cond, err := self.evalBoolean(ctx, scope, s.Cond)
			if err != nil {
				return nil, err
			}
			if !cond {
				return Void{}, nil
			}
		}
		_, err := self.execStatement(ctx, scope, s.Body)
		if err != nil {
			if _, ok := err.(breakSignal); ok {
				return Void{}, nil
			}
			if _, ok := err.(continueSignal); !ok {
				return nil, err
			}
		}
		if s.Step != nil {
			if _, err := self.execStatement(ctx, scope, s.Step); err != nil {
				return nil, err
			}
		}
	}
}

func (self *Evaluator) evalExpression(ctx context.Context, env *Env, expr ast.Expression) (Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return Real(e.Token.Number), nil
	case *ast.StringLiteral:
		return String(e.Token.Value), nil
	case *ast.Identifier:
		if value, ok := env.Lookup(e.Name()); ok {
			return value, nil
		}
		return nil, self.fault(e.Span(), exc.CodeUndefinedName, fmt.Sprintf("undefined name %s", e.Name()))
	case *ast.Parameter:
		if value, ok := env.Lookup(e.Name()); ok {
			return value, nil
		}
		return nil, self.fault(e.Span(), exc.CodeUndefinedName, fmt.Sprintf("undefined name %s", e.Name()))
	case *ast.ListLiteral:
		elements := make([]Value, len(e.Elements))
		for n, element := range e.Elements {
			value, err := self.evalExpression(ctx, env, element)
			if err != nil {
				return nil, err
			}
			elements[n] = value
		}
		return List{Elements: elements}, nil
	case *ast.Unary:
		return self.evalUnary(ctx, env, e)
	case *ast.Binary:
		return self.evalBinary(ctx, env, e)
	case *ast.Ternary:
		cond, err := self.evalBoolean(ctx, env, e.Cond)
		if err != nil {
			return nil, err
		}
		if cond {
			return self.evalExpression(ctx, env, e.Then)
		}
		return self.evalExpression(ctx, env, e.Else)
	case *ast.Index:
		list, index, err := self.evalIndexTarget(ctx, env, e)
		if err != nil {
			return nil, err
		}
		return list.Elements[index], nil
	case *ast.Call:
		return self.evalCall(ctx, env, e)
	case *ast.Lambda:
		params := make([]string, len(e.Params))
		for n, param := range e.Params {
			params[n] = param.Value
		}
		return &Function{Params: params, Arrow: e.Body, Env: env}, nil
	}
	return nil, self.fault(expr.Span(), exc.CodeUnknownFatal, fmt.Sprintf("unhandled expression %T", expr))
}

func (self *Evaluator) evalBoolean(ctx context.Context, env *Env, expr ast.Expression) (bool, error) {
	value, err := self.evalExpression(ctx, env, expr)
	if err != nil {
		return false, err
	}
	b, ok := value.(Boolean)
	if !ok {
		return false, self.fault(expr.Span(), exc.CodeTypeMismatch, fmt.Sprintf("expected boolean, got %s", value.Kind()))
	}
	return bool(b), nil
}

func (self *Evaluator) evalIndexTarget(ctx context.Context, env *Env, e *ast.Index) (List, int, error) {
	target, err := self.evalExpression(ctx, env, e.Target)
	if err != nil {
		return List{}, 0, err
	}
	list, ok := target.(List)
	if !ok {
		return List{}, 0, self.fault(e.Target.Span(), exc.CodeBadIndex, fmt.Sprintf("cannot index %s", target.Kind()))
	}
	value, err := self.evalExpression(ctx, env, e.Index)
	if err != nil {
		return List{}, 0, err
	}
	real, ok := value.(Real)
	if !ok {
		return List{}, 0, self.fault(e.Index.Span(), exc.CodeBadIndex, fmt.Sprintf("index is %s, not real", value.Kind()))
	}
	index := int(real)
	if Real(index) != real || index < 0 || index >= len(list.Elements) {
		return List{}, 0, self.fault(e.Index.Span(), exc.CodeBadIndex, fmt.Sprintf("index %s out of range for %d elements", real, len(list.Elements)))
	}
	return list, index, nil
}

func (self *Evaluator) evalUnary(ctx context.Context, env *Env, e *ast.Unary) (Value, error) {
	operand, err := self.evalExpression(ctx, env, e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case lang.TokenTypeMinus:
		switch v := operand.(type) {
		case Real:
			return -v, nil
		case Sound:
			return Sound{Signal: sound.Invert(v.Signal)}, nil
		}
	case lang.TokenTypeExclamation:
		if v, ok := operand.(Boolean); ok {
			return !v, nil
		}
	}
	return nil, self.fault(e.Span(), exc.CodeBadOperand, fmt.Sprintf("cannot apply %s to %s", e.Op, operand.Kind()))
}

// evalCall binds positional arguments to declared parameters in order, then
// named arguments by parameter name (with or without the $ sigil), and fails
// on any duplicate, unknown, or missing binding.
func (self *Evaluator) evalCall(ctx context.Context, env *Env, e *ast.Call) (Value, error) {
	callee, err := self.evalExpression(ctx, env, e.Callee)
	if err != nil {
		return nil, err
	}
	function, ok := callee.(*Function)
	if !ok {
		return nil, self.fault(e.Callee.Span(), exc.CodeNotCallable, fmt.Sprintf("cannot call %s", callee.Kind()))
	}
	bound := make([]Value, len(function.Params))
	seen := make([]bool, len(function.Params))
	position := 0
	for _, arg := range e.Args {
		value, err := self.evalExpression(ctx, env, arg.Value)
		if err != nil {
			return nil, err
		}
		slot := position
		if arg.Name != nil {
			slot = paramIndex(function.Params, arg.Name.Value)
			if slot < 0 {
				return nil, self.fault(arg.Name.Span, exc.CodeBadArgument, fmt.Sprintf("%s has no parameter %s", function, arg.Name.Value))
			}
		} else {
			if position >= len(function.Params) {
				return nil, self.fault(arg.Value.Span(), exc.CodeBadArgument, fmt.Sprintf("%s takes %d arguments", function, len(function.Params)))
			}
			position = position + 1
		}
		if seen[slot] {
			return nil, self.fault(arg.Value.Span(), exc.CodeBadArgument, fmt.Sprintf("parameter %s bound twice", function.Params[slot]))
		}
		seen[slot] = true
		bound[slot] = value
	}
	for n, was := range seen {
		if !was {
			return nil, self.fault(e.Span(), exc.CodeBadArgument, fmt.Sprintf("missing argument %s to %s", function.Params[n], function))
		}
	}
	if function.Builtin != nil {
		return function.Builtin(ctx, self, e.Span(), bound)
	}
	scope := NewEnv(function.Env)
	for n, param := range function.Params {
		scope.Define(param, bound[n])
	}
	if function.Arrow != nil {
		return self.evalExpression(ctx, scope, function.Arrow)
	}
	_, err = self.execStatement(ctx, scope, function.Body)
	if err != nil {
		if signal, ok := err.(returnSignal); ok {
			return signal.value, nil
		}
		// break and continue do not cross a call boundary
		if ctl, ok := err.(control); ok {
			return nil, self.fault(ctl.site(), exc.CodeBadControl, ctl.Error())
		}
		return nil, err
	}
	return Void{}, nil
}

// paramIndex matches a named argument against declared parameter names,
// ignoring a leading $ on the declaration.
func paramIndex(params []string, name string) int {
	for n, param := range params {
		if param == name || strings.TrimPrefix(param, "$") == name {
			return n
		}
	}
	return -1
}

func (self *Evaluator) fault(span lang.Range, code string, message string) exc.Exception {
	return exc.New(exc.NewLocation(self.uri, span), code, message)
}
