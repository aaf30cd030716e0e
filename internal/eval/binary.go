// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package eval

import (
	"context"
	"fmt"
	"math"

	"gopkg.klang.org/interpreter.go/internal/ast"
	"gopkg.klang.org/interpreter.go/internal/exc"
	"gopkg.klang.org/interpreter.go/internal/lang"
	"gopkg.klang.org/interpreter.go/internal/sound"
)

func (self *Evaluator) evalBinary(ctx context.Context, env *Env, e *ast.Binary) (Value, error) {
	// && and || decide whether the right side runs at all
	switch e.Op {
	case lang.TokenTypeBinAnd:
		return self.evalShortCircuit(ctx, env, e, false)
	case lang.TokenTypeBinOr:
		return self.evalShortCircuit(ctx, env, e, true)
	}
	left, err := self.evalExpression(ctx, env, e.Left)
	if err != nil {
		return nil, err
	}
	right, err := self.evalExpression(ctx, env, e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case lang.TokenTypePlus:
		if a, b, ok := reals(left, right); ok {
			return Real(a + b), nil
		}
		if a, b, ok := signals(left, right); ok {
			return Sound{Signal: sound.Mix(a, b)}, nil
		}
	case lang.TokenTypeMinus:
		if a, b, ok := reals(left, right); ok {
			return Real(a - b), nil
		}
		if a, b, ok := signals(left, right); ok {
			return Sound{Signal: sound.Mix(a, sound.Invert(b))}, nil
		}
	case lang.TokenTypeStar:
		if a, b, ok := reals(left, right); ok {
			return Real(a * b), nil
		}
		if a, b, ok := signals(left, right); ok {
			return Sound{Signal: sound.Mul(a, b)}, nil
		}
	case lang.TokenTypeSlash:
		if a, b, ok := reals(left, right); ok {
			return Real(a / b), nil
		}
	case lang.TokenTypePercent:
		if a, b, ok := reals(left, right); ok {
			return Real(math.Mod(a, b)), nil
		}
	case lang.TokenTypeCaret:
		if a, b, ok := reals(left, right); ok {
			return Real(math.Pow(a, b)), nil
		}
	case lang.TokenTypeShiftRight:
		if s, ok := left.(Sound); ok {
			if dt, ok := right.(Real); ok {
				return Sound{Signal: sound.Shift(s.Signal, float64(dt))}, nil
			}
		}
	case lang.TokenTypeShiftLeft:
		if s, ok := left.(Sound); ok {
			if dt, ok := right.(Real); ok {
				return Sound{Signal: sound.Shift(s.Signal, -float64(dt))}, nil
			}
		}
	case lang.TokenTypeComparison:
		if equal, ok := equality(left, right); ok {
			return Boolean(equal), nil
		}
	case lang.TokenTypeNotComparison:
		if equal, ok := equality(left, right); ok {
			return Boolean(!equal), nil
		}
	case lang.TokenTypeLess:
		if a, b, ok := reals(left, right); ok {
			return Boolean(a < b), nil
		}
	case lang.TokenTypeGreater:
		if a, b, ok := reals(left, right); ok {
			return Boolean(a > b), nil
		}
	case lang.TokenTypePipe:
		if a, ok := left.(Boolean); ok {
			if b, ok := right.(Boolean); ok {
				return a || b, nil
			}
		}
	}
	return nil, self.fault(e.OpSpan, exc.CodeBadOperand, fmt.Sprintf("cannot apply %s to %s and %s", e.Op, left.Kind(), right.Kind()))
}

func (self *Evaluator) evalShortCircuit(ctx context.Context, env *Env, e *ast.Binary, stopOn bool) (Value, error) {
	left, err := self.evalExpression(ctx, env, e.Left)
	if err != nil {
		return nil, err
	}
	a, ok := left.(Boolean)
	if !ok {
		return nil, self.fault(e.Left.Span(), exc.CodeBadOperand, fmt.Sprintf("cannot apply %s to %s", e.Op, left.Kind()))
	}
	if bool(a) == stopOn {
		return a, nil
	}
	right, err := self.evalExpression(ctx, env, e.Right)
	if err != nil {
		return nil, err
	}
	b, ok := right.(Boolean)
	if !ok {
		return nil, self.fault(e.Right.Span(), exc.CodeBadOperand, fmt.Sprintf("cannot apply %s to %s", e.Op, right.Kind()))
	}
	return b, nil
}

func reals(left Value, right Value) (float64, float64, bool) {
	a, aok := left.(Real)
	b, bok := right.(Real)
	if !aok || !bok {
		return 0, 0, false
	}
	return float64(a), float64(b), true
}

// signals views both operands as sounds when at least one is, broadcasting a
// real operand as a constant signal.
func signals(left Value, right Value) (sound.Sound, sound.Sound, bool) {
	_, leftIs := left.(Sound)
	_, rightIs := right.(Sound)
	if !leftIs && !rightIs {
		return nil, nil, false
	}
	a, ok := asSignal(left)
	if !ok {
		return nil, nil, false
	}
	b, ok := asSignal(right)
	if !ok {
		return nil, nil, false
	}
	return a, b, true
}

func asSignal(value Value) (sound.Sound, bool) {
	switch v := value.(type) {
	case Sound:
		return v.Signal, true
	case Real:
		return sound.Const(float64(v)), true
	}
	return nil, false
}

// equality is defined for reals, strings, and booleans; comparing any other
// kinds, or two different kinds, is a fault.
func equality(left Value, right Value) (bool, bool) {
	switch a := left.(type) {
	case Real:
		if b, ok := right.(Real); ok {
			return a == b, true
		}
	case String:
		if b, ok := right.(String); ok {
			return a == b, true
		}
	case Boolean:
		if b, ok := right.(Boolean); ok {
			return a == b, true
		}
	}
	return false, false
}
