// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"context"

	"gopkg.klang.org/interpreter.go/internal/ast"
	"gopkg.klang.org/interpreter.go/internal/lang"
	"gopkg.klang.org/interpreter.go/internal/lexer"
)

// Parser builds statements by recursive descent over the lexer driver. It
// pulls tokens exclusively through Next and Ask, so an interactive session
// never lexes further than the statement being typed.
type Parser struct {
	uri    string
	stream *lexer.Stream
	// end of the last consumed token, so unexpected-EOF errors have a
	// meaningful location
	last lang.Pos
}

func New(uri string, stream *lexer.Stream) *Parser {
	return &Parser{uri: uri, stream: stream}
}

// ParseStatement parses and returns the next statement, or (nil, nil) once
// input is exhausted.
func (self *Parser) ParseStatement(ctx context.Context) (ast.Statement, error) {
	more, err := self.stream.Ask(ctx, func(*lang.Token) bool { return true })
	if err != nil {
		return nil, err
	}
	if !more {
		return nil, nil
	}
	return self.parseStatement(ctx)
}

func (self *Parser) parseStatement(ctx context.Context) (ast.Statement, error) {
	lead, err := self.front(ctx)
	if err != nil {
		return nil, err
	}
	switch lead {
	case lang.TokenTypeKeywordDef:
		return self.parseDef(ctx)
	case lang.TokenTypeKeywordIf:
		return self.parseIf(ctx)
	case lang.TokenTypeKeywordWhile:
		return self.parseWhile(ctx)
	case lang.TokenTypeKeywordFor:
		return self.parseFor(ctx)
	case lang.TokenTypeKeywordReturn:
		return self.parseReturn(ctx)
	case lang.TokenTypeCurlyOpen:
		return self.parseBlock(ctx)
	case lang.TokenTypeKeywordBreak:
		tok, _ := self.need(ctx)
		end, err := self.expect(ctx, lang.TokenTypeSemicolon)
		if err != nil {
			return nil, err
		}
		return &ast.Break{Range: tok.Span.Concat(end.Span)}, nil
	case lang.TokenTypeKeywordContinue:
		tok, _ := self.need(ctx)
		end, err := self.expect(ctx, lang.TokenTypeSemicolon)
		if err != nil {
			return nil, err
		}
		return &ast.Continue{Range: tok.Span.Concat(end.Span)}, nil
	}
	return self.finishSimple(ctx)
}

// finishSimple parses a let, assignment, or expression statement and its
// terminating semicolon.
func (self *Parser) finishSimple(ctx context.Context) (ast.Statement, error) {
	stmt, err := self.parseSimple(ctx)
	if err != nil {
		return nil, err
	}
	end, err := self.expect(ctx, lang.TokenTypeSemicolon)
	if err != nil {
		return nil, err
	}
	return withEnd(stmt, end.Span), nil
}

// parseSimple parses the statement forms allowed in a for-loop header: let,
// assignment, or a bare expression. No semicolon is consumed.
func (self *Parser) parseSimple(ctx context.Context) (ast.Statement, error) {
	if ok, err := self.at(ctx, lang.TokenTypeKeywordLet); err != nil {
		return nil, err
	} else if ok {
		let, _ := self.need(ctx)
		name, err := self.expect(ctx, lang.TokenTypeIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := self.expect(ctx, lang.TokenTypeEqual); err != nil {
			return nil, err
		}
		value, err := self.parseExpression(ctx)
		if err != nil {
			return nil, err
		}
		return &ast.Let{Range: let.Span.Concat(value.Span()), Name: *name, Value: value}, nil
	}
	expr, err := self.parseExpression(ctx)
	if err != nil {
		return nil, err
	}
	if ok, err := self.at(ctx, lang.TokenTypeEqual); err != nil {
		return nil, err
	} else if ok {
		eq, _ := self.need(ctx)
		switch expr.(type) {
		case *ast.Identifier, *ast.Parameter, *ast.Index:
		default:
			return nil, self.fault(eq.Span, "left side of assignment is not assignable")
		}
		value, err := self.parseExpression(ctx)
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Range: expr.Span().Concat(value.Span()), Target: expr, Value: value}, nil
	}
	return &ast.ExpressionStatement{Range: expr.Span(), Expr: expr}, nil
}

// def name(params) { body }  |  def name(params) -> expr;
func (self *Parser) parseDef(ctx context.Context) (ast.Statement, error) {
	def, _ := self.need(ctx)
	name, err := self.expect(ctx, lang.TokenTypeIdentifier)
	if err != nil {
		return nil, err
	}
	params, err := self.parseParams(ctx)
	if err != nil {
		return nil, err
	}
	if ok, err := self.at(ctx, lang.TokenTypeArrow); err != nil {
		return nil, err
	} else if ok {
		self.need(ctx)
		expr, err := self.parseExpression(ctx)
		if err != nil {
			return nil, err
		}
		end, err := self.expect(ctx, lang.TokenTypeSemicolon)
		if err != nil {
			return nil, err
		}
		return &ast.Def{Range: def.Span.Concat(end.Span), Name: *name, Params: params, Arrow: expr}, nil
	}
	body, err := self.parseBlock(ctx)
	if err != nil {
		return nil, err
	}
	return &ast.Def{Range: def.Span.Concat(body.Range), Name: *name, Params: params, Body: body}, nil
}

// parseParams parses a parenthesized, comma-separated list of parameter
// names. Both bare identifiers and $-prefixed parameter names are accepted.
func (self *Parser) parseParams(ctx context.Context) ([]lang.Token, error) {
	if _, err := self.expect(ctx, lang.TokenTypeParenOpen); err != nil {
		return nil, err
	}
	params := []lang.Token{}
	if ok, err := self.at(ctx, lang.TokenTypeParenClose); err != nil {
		return nil, err
	} else if ok {
		self.need(ctx)
		return params, nil
	}
	for {
		name, err := self.expectOneOf(ctx, lang.TokenTypeIdentifier, lang.TokenTypeParameter)
		if err != nil {
			return nil, err
		}
		params = append(params, *name)
		if ok, err := self.at(ctx, lang.TokenTypeComma); err != nil {
			return nil, err
		} else if !ok {
			break
		}
		self.need(ctx)
	}
	if _, err := self.expect(ctx, lang.TokenTypeParenClose); err != nil {
		return nil, err
	}
	return params, nil
}

func (self *Parser) parseBlock(ctx context.Context) (*ast.Block, error) {
	open, err := self.expect(ctx, lang.TokenTypeCurlyOpen)
	if err != nil {
		return nil, err
	}
	statements := []ast.Statement{}
	for {
		if ok, err := self.at(ctx, lang.TokenTypeCurlyClose); err != nil {
			return nil, err
		} else if ok {
			break
		}
		stmt, err := self.parseStatement(ctx)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	end, err := self.expect(ctx, lang.TokenTypeCurlyClose)
	if err != nil {
		return nil, err
	}
	return &ast.Block{Range: open.Span.Concat(end.Span), Statements: statements}, nil
}

func (self *Parser) parseIf(ctx context.Context) (ast.Statement, error) {
	kw, _ := self.need(ctx)
	if _, err := self.expect(ctx, lang.TokenTypeParenOpen); err != nil {
		return nil, err
	}
	cond, err := self.parseExpression(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := self.expect(ctx, lang.TokenTypeParenClose); err != nil {
		return nil, err
	}
	then, err := self.parseBlock(ctx)
	if err != nil {
		return nil, err
	}
	span := kw.Span.Concat(then.Range)
	var otherwise ast.Statement
	if ok, err := self.at(ctx, lang.TokenTypeKeywordElse); err != nil {
		return nil, err
	} else if ok {
		self.need(ctx)
		chain, err := self.at(ctx, lang.TokenTypeKeywordIf)
		if err != nil {
			return nil, err
		}
		if chain {
			otherwise, err = self.parseIf(ctx)
		} else {
			otherwise, err = self.parseBlock(ctx)
		}
		if err != nil {
			return nil, err
		}
		span = span.Concat(otherwise.Span())
	}
	return &ast.If{Range: span, Cond: cond, Then: then, Else: otherwise}, nil
}

func (self *Parser) parseWhile(ctx context.Context) (ast.Statement, error) {
	kw, _ := self.need(ctx)
	if _, err := self.expect(ctx, lang.TokenTypeParenOpen); err != nil {
		return nil, err
	}
	cond, err := self.parseExpression(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := self.expect(ctx, lang.TokenTypeParenClose); err != nil {
		return nil, err
	}
	body, err := self.parseBlock(ctx)
	if err != nil {
		return nil, err
	}
	return &ast.While{Range: kw.Span.Concat(body.Range), Cond: cond, Body: body}, nil
}

// for (init; cond; step) { body } — each header slot may be empty.
func (self *Parser) parseFor(ctx context.Context) (ast.Statement, error) {
	kw, _ := self.need(ctx)
	if _, err := self.expect(ctx, lang.TokenTypeParenOpen); err != nil {
		return nil, err
	}
	loop := &ast.For{}
	if ok, err := self.at(ctx, lang.TokenTypeSemicolon); err != nil {
		return nil, err
	} else if !ok {
		init, err := self.parseSimple(ctx)
		if err != nil {
			return nil, err
		}
		loop.Init = init
	}
	if _, err := self.expect(ctx, lang.TokenTypeSemicolon); err != nil {
		return nil, err
	}
	if ok, err := self.at(ctx, lang.TokenTypeSemicolon); err != nil {
		return nil, err
	} else if !ok {
		cond, err := self.parseExpression(ctx)
		if err != nil {
			return nil, err
		}
		loop.Cond = cond
	}
	if _, err := self.expect(ctx, lang.TokenTypeSemicolon); err != nil {
		return nil, err
	}
	if ok, err := self.at(ctx, lang.TokenTypeParenClose); err != nil {
		return nil, err
	} else if !ok {
		step, err := self.parseSimple(ctx)
		if err != nil {
			return nil, err
		}
		loop.Step = step
	}
	if _, err := self.expect(ctx, lang.TokenTypeParenClose); err != nil {
		return nil, err
	}
	body, err := self.parseBlock(ctx)
	if err != nil {
		return nil, err
	}
	loop.Body = body
	loop.Range = kw.Span.Concat(body.Range)
	return loop, nil
}

func (self *Parser) parseReturn(ctx context.Context) (ast.Statement, error) {
	kw, _ := self.need(ctx)
	if ok, err := self.at(ctx, lang.TokenTypeSemicolon); err != nil {
		return nil, err
	} else if ok {
		end, _ := self.need(ctx)
		return &ast.Return{Range: kw.Span.Concat(end.Span)}, nil
	}
	value, err := self.parseExpression(ctx)
	if err != nil {
		return nil, err
	}
	end, err := self.expect(ctx, lang.TokenTypeSemicolon)
	if err != nil {
		return nil, err
	}
	return &ast.Return{Range: kw.Span.Concat(end.Span), Value: value}, nil
}

// withEnd stretches a simple statement's span to cover its semicolon.
func withEnd(stmt ast.Statement, end lang.Range) ast.Statement {
	switch s := stmt.(type) {
	case *ast.Let:
		s.Range = s.Range.Concat(end)
	case *ast.Assign:
		s.Range = s.Range.Concat(end)
	case *ast.ExpressionStatement:
		s.Range = s.Range.Concat(end)
	}
	return stmt
}
