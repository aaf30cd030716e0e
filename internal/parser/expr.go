// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"context"
	"fmt"

	"gopkg.klang.org/interpreter.go/internal/ast"
	"gopkg.klang.org/interpreter.go/internal/exc"
	"gopkg.klang.org/interpreter.go/internal/lang"
)

// Precedence ladder, loosest first: ternary; ||; &&; |; == !=; < >; << >>;
// + -; * / %; ^ (right associative); unary - !; postfix call/index; atoms.

func (self *Parser) parseExpression(ctx context.Context) (ast.Expression, error) {
	return self.parseTernary(ctx)
}

func (self *Parser) parseTernary(ctx context.Context) (ast.Expression, error) {
	cond, err := self.parseOr(ctx)
	if err != nil {
		return nil, err
	}
	if ok, err := self.at(ctx, lang.TokenTypeQuestion); err != nil {
		return nil, err
	} else if !ok {
		return cond, nil
	}
	self.need(ctx)
	then, err := self.parseExpression(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := self.expect(ctx, lang.TokenTypeColon); err != nil {
		return nil, err
	}
	otherwise, err := self.parseTernary(ctx)
	if err != nil {
		return nil, err
	}
	return &ast.Ternary{Cond: cond, Then: then, Else: otherwise}, nil
}

func (self *Parser) parseOr(ctx context.Context) (ast.Expression, error) {
	return self.parseBinary(ctx, self.parseAnd, lang.TokenTypeBinOr)
}

func (self *Parser) parseAnd(ctx context.Context) (ast.Expression, error) {
	return self.parseBinary(ctx, self.parsePipe, lang.TokenTypeBinAnd)
}

func (self *Parser) parsePipe(ctx context.Context) (ast.Expression, error) {
	return self.parseBinary(ctx, self.parseEquality, lang.TokenTypePipe)
}

func (self *Parser) parseEquality(ctx context.Context) (ast.Expression, error) {
	return self.parseBinary(ctx, self.parseComparison, lang.TokenTypeComparison, lang.TokenTypeNotComparison)
}

func (self *Parser) parseComparison(ctx context.Context) (ast.Expression, error) {
	return self.parseBinary(ctx, self.parseShift, lang.TokenTypeLess, lang.TokenTypeGreater)
}

func (self *Parser) parseShift(ctx context.Context) (ast.Expression, error) {
	return self.parseBinary(ctx, self.parseAdditive, lang.TokenTypeShiftLeft, lang.TokenTypeShiftRight)
}

func (self *Parser) parseAdditive(ctx context.Context) (ast.Expression, error) {
	return self.parseBinary(ctx, self.parseMultiplicative, lang.TokenTypePlus, lang.TokenTypeMinus)
}

func (self *Parser) parseMultiplicative(ctx context.Context) (ast.Expression, error) {
	return self.parseBinary(ctx, self.parsePower, lang.TokenTypeStar, lang.TokenTypeSlash, lang.TokenTypePercent)
}

// parseBinary handles one left-associative level of the ladder.
func (self *Parser) parseBinary(ctx context.Context, operand func(context.Context) (ast.Expression, error), ops ...lang.TokenType) (ast.Expression, error) {
	left, err := operand(ctx)
	if err != nil {
		return nil, err
	}
	for {
		ok, err := self.stream.Ask(ctx, func(tok *lang.Token) bool {
			for _, op := range ops {
				if tok.Type == op {
					return true
				}
			}
			return false
		})
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		op, _ := self.need(ctx)
		right, err := operand(ctx)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op.Type, OpSpan: op.Span, Left: left, Right: right}
	}
}

// ^ binds tighter than * and is right associative: 2^3^2 is 2^(3^2).
func (self *Parser) parsePower(ctx context.Context) (ast.Expression, error) {
	left, err := self.parseUnary(ctx)
	if err != nil {
		return nil, err
	}
	if ok, err := self.at(ctx, lang.TokenTypeCaret); err != nil {
		return nil, err
	} else if !ok {
		return left, nil
	}
	op, _ := self.need(ctx)
	right, err := self.parsePower(ctx)
	if err != nil {
		return nil, err
	}
	return &ast.Binary{Op: op.Type, OpSpan: op.Span, Left: left, Right: right}, nil
}

func (self *Parser) parseUnary(ctx context.Context) (ast.Expression, error) {
	ok, err := self.stream.Ask(ctx, func(tok *lang.Token) bool {
		return tok.Type == lang.TokenTypeMinus || tok.Type == lang.TokenTypeExclamation
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return self.parsePostfix(ctx)
	}
	op, _ := self.need(ctx)
	operand, err := self.parseUnary(ctx)
	if err != nil {
		return nil, err
	}
	return &ast.Unary{Range: op.Span.Concat(operand.Span()), Op: op.Type, Operand: operand}, nil
}

func (self *Parser) parsePostfix(ctx context.Context) (ast.Expression, error) {
	expr, err := self.parseAtom(ctx)
	if err != nil {
		return nil, err
	}
	if lambda, ok := expr.(*ast.Lambda); ok {
		return lambda, nil
	}
	for {
		lead, err := self.front(ctx)
		if err != nil {
			return nil, err
		}
		switch lead {
		case lang.TokenTypeParenOpen:
			expr, err = self.parseCall(ctx, expr)
		case lang.TokenTypeSquareOpen:
			expr, err = self.parseIndex(ctx, expr)
		default:
			return expr, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (self *Parser) parseCall(ctx context.Context, callee ast.Expression) (ast.Expression, error) {
	self.need(ctx)
	args := []ast.Argument{}
	if ok, err := self.at(ctx, lang.TokenTypeParenClose); err != nil {
		return nil, err
	} else if ok {
		end, _ := self.need(ctx)
		return &ast.Call{Range: callee.Span().Concat(end.Span), Callee: callee}, nil
	}
	for {
		arg, err := self.parseArgument(ctx)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if ok, err := self.at(ctx, lang.TokenTypeComma); err != nil {
			return nil, err
		} else if !ok {
			break
		}
		self.need(ctx)
	}
	end, err := self.expect(ctx, lang.TokenTypeParenClose)
	if err != nil {
		return nil, err
	}
	return &ast.Call{Range: callee.Span().Concat(end.Span), Callee: callee, Args: args}, nil
}

// parseArgument parses either value or name: value. The name form is only
// recognized when the expression before the colon is a bare identifier.
func (self *Parser) parseArgument(ctx context.Context) (ast.Argument, error) {
	expr, err := self.parseExpression(ctx)
	if err != nil {
		return ast.Argument{}, err
	}
	name, isName := expr.(*ast.Identifier)
	if !isName {
		return ast.Argument{Value: expr}, nil
	}
	if ok, err := self.at(ctx, lang.TokenTypeColon); err != nil {
		return ast.Argument{}, err
	} else if !ok {
		return ast.Argument{Value: expr}, nil
	}
	self.need(ctx)
	value, err := self.parseExpression(ctx)
	if err != nil {
		return ast.Argument{}, err
	}
	return ast.Argument{Name: &name.Token, Value: value}, nil
}

func (self *Parser) parseIndex(ctx context.Context, target ast.Expression) (ast.Expression, error) {
	self.need(ctx)
	index, err := self.parseExpression(ctx)
	if err != nil {
		return nil, err
	}
	end, err := self.expect(ctx, lang.TokenTypeSquareClose)
	if err != nil {
		return nil, err
	}
	return &ast.Index{Range: target.Span().Concat(end.Span), Target: target, Index: index}, nil
}

func (self *Parser) parseAtom(ctx context.Context) (ast.Expression, error) {
	tok, err := self.need(ctx)
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case lang.TokenTypeNumber:
		return &ast.NumberLiteral{Token: *tok}, nil
	case lang.TokenTypeString:
		return &ast.StringLiteral{Token: *tok}, nil
	case lang.TokenTypeIdentifier:
		return self.maybeLambda(ctx, *tok, &ast.Identifier{Token: *tok})
	case lang.TokenTypeParameter:
		return self.maybeLambda(ctx, *tok, &ast.Parameter{Token: *tok})
	case lang.TokenTypeSquareOpen:
		return self.parseList(ctx, *tok)
	case lang.TokenTypeParenOpen:
		return self.parseParenthesized(ctx, *tok)
	}
	return nil, self.fault(tok.Span, fmt.Sprintf("unexpected %s (expecting an expression)", tok.Type))
}

// maybeLambda turns a bare name into the single-parameter lambda shorthand
// when it is immediately followed by =>.
func (self *Parser) maybeLambda(ctx context.Context, tok lang.Token, name ast.Expression) (ast.Expression, error) {
	if ok, err := self.at(ctx, lang.TokenTypeFatArrow); err != nil {
		return nil, err
	} else if !ok {
		return name, nil
	}
	self.need(ctx)
	body, err := self.parseExpression(ctx)
	if err != nil {
		return nil, err
	}
	return &ast.Lambda{Range: tok.Span.Concat(body.Span()), Params: []lang.Token{tok}, Body: body}, nil
}

func (self *Parser) parseList(ctx context.Context, open lang.Token) (ast.Expression, error) {
	elements := []ast.Expression{}
	if ok, err := self.at(ctx, lang.TokenTypeSquareClose); err != nil {
		return nil, err
	} else if ok {
		end, _ := self.need(ctx)
		return &ast.ListLiteral{Range: open.Span.Concat(end.Span)}, nil
	}
	for {
		element, err := self.parseExpression(ctx)
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
		if ok, err := self.at(ctx, lang.TokenTypeComma); err != nil {
			return nil, err
		} else if !ok {
			break
		}
		self.need(ctx)
	}
	end, err := self.expect(ctx, lang.TokenTypeSquareClose)
	if err != nil {
		return nil, err
	}
	return &ast.ListLiteral{Range: open.Span.Concat(end.Span), Elements: elements}, nil
}

// parseParenthesized resolves the ambiguity between a grouped expression and
// a parenthesized lambda parameter list: the contents are parsed as
// expressions first, and a following => reinterprets them as parameters.
func (self *Parser) parseParenthesized(ctx context.Context, open lang.Token) (ast.Expression, error) {
	if ok, err := self.at(ctx, lang.TokenTypeParenClose); err != nil {
		return nil, err
	} else if ok {
		self.need(ctx)
		if _, err := self.expect(ctx, lang.TokenTypeFatArrow); err != nil {
			return nil, err
		}
		body, err := self.parseExpression(ctx)
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{Range: open.Span.Concat(body.Span()), Body: body}, nil
	}
	exprs := []ast.Expression{}
	for {
		expr, err := self.parseExpression(ctx)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if ok, err := self.at(ctx, lang.TokenTypeComma); err != nil {
			return nil, err
		} else if !ok {
			break
		}
		self.need(ctx)
	}
	close, err := self.expect(ctx, lang.TokenTypeParenClose)
	if err != nil {
		return nil, err
	}
	if ok, err := self.at(ctx, lang.TokenTypeFatArrow); err != nil {
		return nil, err
	} else if ok {
		self.need(ctx)
		params := make([]lang.Token, 0, len(exprs))
		for _, expr := range exprs {
			switch name := expr.(type) {
			case *ast.Identifier:
				params = append(params, name.Token)
			case *ast.Parameter:
				params = append(params, name.Token)
			default:
				return nil, self.fault(expr.Span(), "lambda parameter is not a name")
			}
		}
		body, err := self.parseExpression(ctx)
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{Range: open.Span.Concat(body.Span()), Params: params, Body: body}, nil
	}
	if len(exprs) != 1 {
		return nil, self.fault(close.Span, "expected `=>` after parameter list")
	}
	return exprs[0], nil
}

// front reports the type of the next unconsumed token without consuming it,
// or TokenTypeUnknown at end of input.
func (self *Parser) front(ctx context.Context) (lang.TokenType, error) {
	front := lang.TokenTypeUnknown
	_, err := self.stream.Ask(ctx, func(tok *lang.Token) bool {
		front = tok.Type
		return true
	})
	return front, err
}

func (self *Parser) at(ctx context.Context, expected lang.TokenType) (bool, error) {
	return self.stream.Ask(ctx, func(tok *lang.Token) bool {
		return tok.Type == expected
	})
}

// need consumes and returns the next token, failing with unexpected EOF when
// input is exhausted.
func (self *Parser) need(ctx context.Context) (*lang.Token, error) {
	tok, err := self.stream.Next(ctx)
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, exc.New(exc.NewLocation(self.uri, lang.RangeAt(self.last)), exc.CodeUnexpectedEOF, "unexpected end of input")
	}
	self.last = tok.Span.End()
	return tok, nil
}

// expect consumes the next token and fails unless it has the expected type.
func (self *Parser) expect(ctx context.Context, expected lang.TokenType) (*lang.Token, error) {
	return self.expectOneOf(ctx, expected)
}

func (self *Parser) expectOneOf(ctx context.Context, expected ...lang.TokenType) (*lang.Token, error) {
	tok, err := self.need(ctx)
	if err != nil {
		return nil, err
	}
	for _, want := range expected {
		if tok.Type == want {
			return tok, nil
		}
	}
	return nil, self.fault(tok.Span, fmt.Sprintf("unexpected %s (expecting %v)", tok.Type, expected))
}

func (self *Parser) fault(span lang.Range, message string) exc.Exception {
	return exc.New(exc.NewLocation(self.uri, span), exc.CodeUnexpectedToken, message)
}
