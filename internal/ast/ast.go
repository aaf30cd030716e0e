// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"gopkg.klang.org/interpreter.go/internal/lang"
)

// Node is any piece of the syntax tree. Every node knows the source span it
// covers; the parser builds spans bottom-up with lang.Range.Concat, so a
// node's span always encloses the spans of its children.
type Node interface {
	Span() lang.Range
}

type Expression interface {
	Node
	expression()
}

type Statement interface {
	Node
	statement()
}

// NumberLiteral is a numeric literal such as 440 or 2.5e3.
type NumberLiteral struct {
	Token lang.Token
}

func (self *NumberLiteral) Span() lang.Range { return self.Token.Span }
func (self *NumberLiteral) expression()      {}

// StringLiteral carries the decoded text, escapes already applied.
type StringLiteral struct {
	Token lang.Token
}

func (self *StringLiteral) Span() lang.Range { return self.Token.Span }
func (self *StringLiteral) expression()      {}

// ListLiteral is [e0, e1, ...].
type ListLiteral struct {
	Range    lang.Range
	Elements []Expression
}

func (self *ListLiteral) Span() lang.Range { return self.Range }
func (self *ListLiteral) expression()      {}

// Identifier is a bare name reference.
type Identifier struct {
	Token lang.Token
}

func (self *Identifier) Span() lang.Range { return self.Token.Span }
func (self *Identifier) Name() string     { return self.Token.Value }
func (self *Identifier) expression()      {}

// Parameter is a $-prefixed name reference. Parameter names live in their own
// namespace: the text keeps the sigil and is never a keyword.
type Parameter struct {
	Token lang.Token
}

func (self *Parameter) Span() lang.Range { return self.Token.Span }
func (self *Parameter) Name() string     { return self.Token.Value }
func (self *Parameter) expression()      {}

// Unary is -x or !x.
type Unary struct {
	Range   lang.Range
	Op      lang.TokenType
	Operand Expression
}

func (self *Unary) Span() lang.Range { return self.Range }
func (self *Unary) expression()      {}

// Binary is any infix application. Op is the operator's token type; OpSpan
// its own span, used when an operand fault should point at the operator.
type Binary struct {
	Op     lang.TokenType
	OpSpan lang.Range
	Left   Expression
	Right  Expression
}

func (self *Binary) Span() lang.Range { return self.Left.Span().Concat(self.Right.Span()) }
func (self *Binary) expression()      {}

// Ternary is cond ? then : else.
type Ternary struct {
	Cond Expression
	Then Expression
	Else Expression
}

func (self *Ternary) Span() lang.Range { return self.Cond.Span().Concat(self.Else.Span()) }
func (self *Ternary) expression()      {}

// Argument is one call argument, named when Name is non-nil.
type Argument struct {
	Name  *lang.Token
	Value Expression
}

// Call is callee(args...). Arguments may be positional or name: value.
type Call struct {
	Range  lang.Range
	Callee Expression
	Args   []Argument
}

func (self *Call) Span() lang.Range { return self.Range }
func (self *Call) expression()      {}

// Index is target[index].
type Index struct {
	Range  lang.Range
	Target Expression
	Index  Expression
}

func (self *Index) Span() lang.Range { return self.Range }
func (self *Index) expression()      {}

// Lambda is (a, b) => expr or the single-parameter shorthand a => expr.
type Lambda struct {
	Range  lang.Range
	Params []lang.Token
	Body   Expression
}

func (self *Lambda) Span() lang.Range { return self.Range }
func (self *Lambda) expression()      {}

// ExpressionStatement is an expression evaluated for its value, expr;
type ExpressionStatement struct {
	Range lang.Range
	Expr  Expression
}

func (self *ExpressionStatement) Span() lang.Range { return self.Range }
func (self *ExpressionStatement) statement()       {}

// Let is let name = expr;
type Let struct {
	Range lang.Range
	Name  lang.Token
	Value Expression
}

func (self *Let) Span() lang.Range { return self.Range }
func (self *Let) statement()       {}

// Assign is name = expr; or target[i] = expr;
type Assign struct {
	Range  lang.Range
	Target Expression
	Value  Expression
}

func (self *Assign) Span() lang.Range { return self.Range }
func (self *Assign) statement()       {}

// Def declares a named function. Exactly one of Body and Arrow is set: Body
// for the block form, Arrow for def name(params) -> expr;
type Def struct {
	Range  lang.Range
	Name   lang.Token
	Params []lang.Token
	Body   *Block
	Arrow  Expression
}

func (self *Def) Span() lang.Range { return self.Range }
func (self *Def) statement()       {}

// Block is { statements... }.
type Block struct {
	Range      lang.Range
	Statements []Statement
}

func (self *Block) Span() lang.Range { return self.Range }
func (self *Block) statement()       {}

// If is if (cond) block else-branch, where Else is nil, another If, or a
// Block.
type If struct {
	Range lang.Range
	Cond  Expression
	Then  *Block
	Else  Statement
}

func (self *If) Span() lang.Range { return self.Range }
func (self *If) statement()       {}

// While is while (cond) block.
type While struct {
	Range lang.Range
	Cond  Expression
	Body  *Block
}

func (self *While) Span() lang.Range { return self.Range }
func (self *While) statement()       {}

// For is for (init; cond; step) block. Init and Step are simple statements
// (let, assignment, or expression); either may be nil, as may Cond, which
// then reads as always true.
type For struct {
	Range lang.Range
	Init  Statement
	Cond  Expression
	Step  Statement
	Body  *Block
}

func (self *For) Span() lang.Range { return self.Range }
func (self *For) statement()       {}

// Break is break;
type Break struct {
	Range lang.Range
}

func (self *Break) Span() lang.Range { return self.Range }
func (self *Break) statement()       {}

// Continue is continue;
type Continue struct {
	Range lang.Range
}

func (self *Continue) Span() lang.Range { return self.Range }
func (self *Continue) statement()       {}

// Return is return; or return expr;
type Return struct {
	Range lang.Range
	Value Expression
}

func (self *Return) Span() lang.Range { return self.Range }
func (self *Return) statement()       {}
