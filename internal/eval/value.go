// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package eval

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gopkg.klang.org/interpreter.go/internal/ast"
	"gopkg.klang.org/interpreter.go/internal/lang"
	"gopkg.klang.org/interpreter.go/internal/sound"
)

type Kind uint8

const (
	KindVoid     Kind = 0
	KindReal     Kind = 1
	KindBoolean  Kind = 2
	KindString   Kind = 3
	KindSound    Kind = 4
	KindList     Kind = 5
	KindFunction Kind = 6
)

var kindNames = map[Kind]string{
	KindVoid:     "void",
	KindReal:     "real",
	KindBoolean:  "boolean",
	KindString:   "string",
	KindSound:    "sound",
	KindList:     "list",
	KindFunction: "function",
}

func (self Kind) String() string {
	if name, ok := kindNames[self]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(self))
}

// Value is any value a Klang expression can produce.
type Value interface {
	Kind() Kind
	String() string
}

type Void struct{}

func (self Void) Kind() Kind     { return KindVoid }
func (self Void) String() string { return "void" }

type Real float64

func (self Real) Kind() Kind     { return KindReal }
func (self Real) String() string { return strconv.FormatFloat(float64(self), 'g', -1, 64) }

type Boolean bool

func (self Boolean) Kind() Kind { return KindBoolean }
func (self Boolean) String() string {
	if self {
		return "true"
	}
	return "false"
}

type String string

func (self String) Kind() Kind     { return KindString }
func (self String) String() string { return strconv.Quote(string(self)) }

// Sound wraps a lazily evaluated signal. Two sounds are never equal and a
// sound has no useful rendering beyond its kind.
type Sound struct {
	Signal sound.Sound
}

func (self Sound) Kind() Kind     { return KindSound }
func (self Sound) String() string { return "<sound>" }

type List struct {
	Elements []Value
}

func (self List) Kind() Kind { return KindList }
func (self List) String() string {
	rendered := make([]string, len(self.Elements))
	for n, element := range self.Elements {
		rendered[n] = element.String()
	}
	return "[" + strings.Join(rendered, ", ") + "]"
}

// BuiltinFunc receives its arguments already bound in declared order. span is
// the call site, for error locations.
type BuiltinFunc func(ctx context.Context, self *Evaluator, span lang.Range, args []Value) (Value, error)

// Function is a callable: a user definition or lambda closing over Env, or a
// native builtin. Exactly one of Body, Arrow, and Builtin is set.
type Function struct {
	Name    string
	Params  []string
	Body    *ast.Block
	Arrow   ast.Expression
	Env     *Env
	Builtin BuiltinFunc
}

func (self *Function) Kind() Kind { return KindFunction }
func (self *Function) String() string {
	if self.Name == "" {
		return "<lambda>"
	}
	return fmt.Sprintf("<function %s>", self.Name)
}
