// File: parser.go
// Title: Lox Recursive Descent Parser
// Description: Builds one expression tree from a token sequence with one
//              function per precedence level. Returns the first syntax
//              error without recovery.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-12
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-12 v0.1.0: Initial parser implementation
// - 2026-10-16 v0.1.1: Charge right operands of left-associative chains

package parser

import (
	mdwlog "github.com/msto63/mlox/foundation/core/log"
	"github.com/msto63/mlox/foundation/lox/ast"
	"github.com/msto63/mlox/foundation/lox/lexer"
	"github.com/msto63/mlox/foundation/lox/loxerr"
	"github.com/msto63/mlox/foundation/lox/value"
)

// DefaultMaxDepth bounds nesting of groupings, unary chains and factors
const DefaultMaxDepth = 256

const (
	msgExpectRightParen = "expected ')' after expression"
	msgExpectExpression = "expected expression"
	msgExpectEnd        = "expected end of expression"
	msgTooDeep          = "expression nesting exceeds maximum depth"
)

// Associativity selects how chains of '*' and '/' group
type Associativity int

const (
	// RightAssociative groups 2 * 3 * 4 as (* 2 (* 3 4))
	RightAssociative Associativity = iota
	// LeftAssociative groups 2 * 3 * 4 as (* (* 2 3) 4)
	LeftAssociative
)

// String returns "right" or "left"
func (a Associativity) String() string {
	if a == LeftAssociative {
		return "left"
	}
	return "right"
}

// ParseAssociativity accepts "right" and "left"; "" means right
func ParseAssociativity(s string) (Associativity, error) {
	switch s {
	case "", "right":
		return RightAssociative, nil
	case "left":
		return LeftAssociative, nil
	default:
		return RightAssociative, &InvalidAssociativityError{Input: s}
	}
}

// InvalidAssociativityError reports an unknown associativity name
type InvalidAssociativityError struct {
	Input string
}

func (e *InvalidAssociativityError) Error() string {
	return "invalid factor associativity: " + e.Input + " (want right or left)"
}

// Options configures parser behavior
type Options struct {
	Logger              *mdwlog.Logger
	MaxDepth            int
	FactorAssociativity Associativity
}

// Parser turns token sequences into trees. It holds only configuration,
// so one Parser can serve concurrent Parse calls.
type Parser struct {
	logger  *mdwlog.Logger
	options Options
}

// New creates a parser with the given options
func New(opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	return &Parser{
		logger:  opts.Logger.WithField("component", "lox-parser"),
		options: opts,
	}
}

// Parse parses tokens with default options
func Parse(tokens []lexer.Token) (ast.Expr, error) {
	return New(Options{}).Parse(tokens)
}

// Options returns the effective options
func (p *Parser) Options() Options {
	return p.options
}

// Parse parses exactly one expression followed by EOF
func (p *Parser) Parse(tokens []lexer.Token) (ast.Expr, error) {
	s := &state{
		tokens:   tokens,
		maxDepth: p.options.MaxDepth,
		leftMul:  p.options.FactorAssociativity == LeftAssociative,
	}

	p.logger.Trace("parsing tokens", mdwlog.Fields{"tokens": len(tokens)})

	expr, err := s.expression()
	if err == nil && !s.check(lexer.EOF) {
		err = s.errorAt(s.peek(), msgExpectEnd)
	}
	if err != nil {
		p.logger.Debug("parse failed", mdwlog.Fields{
			"error":    err.Error(),
			"position": s.current,
		})
		return nil, err
	}

	if p.logger.Enabled(mdwlog.LevelTrace) {
		p.logger.Trace("parse completed", mdwlog.Fields{"tree": ast.Print(expr)})
	}
	return expr, nil
}

// state is the cursor of a single Parse call
type state struct {
	tokens   []lexer.Token
	current  int
	depth    int
	maxDepth int
	leftMul  bool
}

// expression → equality
func (s *state) expression() (ast.Expr, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	return s.equality()
}

// equality → comparison ( ( "=" | "==" | "!=" ) comparison )*
func (s *state) equality() (ast.Expr, error) {
	return s.leftAssoc(s.comparison, lexer.Equal, lexer.EqualEqual, lexer.BangEqual)
}

// comparison → term ( ( ">" | ">=" | "<" | "<=" ) term )*
func (s *state) comparison() (ast.Expr, error) {
	return s.leftAssoc(s.term, lexer.Greater, lexer.GreaterEqual, lexer.Less, lexer.LessEqual)
}

// term → factor ( ( "-" | "+" ) factor )*
func (s *state) term() (ast.Expr, error) {
	return s.leftAssoc(s.factor, lexer.Minus, lexer.Plus)
}

// factor → unary ( ( "*" | "/" ) factor )?
//
// With LeftAssociative the optional tail becomes a loop over unary.
func (s *state) factor() (ast.Expr, error) {
	if s.leftMul {
		return s.leftAssoc(s.unary, lexer.Star, lexer.Slash)
	}

	left, err := s.unary()
	if err != nil {
		return nil, err
	}
	if !s.match(lexer.Star, lexer.Slash) {
		return left, nil
	}

	operator := s.previous()
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	right, err := s.factor()
	if err != nil {
		return nil, err
	}
	return ast.NewBinary(left, operator, right), nil
}

// unary → ( "!" | "-" ) unary | primary
func (s *state) unary() (ast.Expr, error) {
	if !s.match(lexer.Bang, lexer.Minus) {
		return s.primary()
	}

	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	operator := s.previous()
	operand, err := s.unary()
	if err != nil {
		return nil, err
	}
	return ast.NewUnary(operator, operand), nil
}

// primary → "true" | "false" | "nil" | NUMBER | STRING | "(" expression ")"
func (s *state) primary() (ast.Expr, error) {
	tok := s.peek()

	switch kind := tok.Kind.(type) {
	case lexer.Number:
		s.advance()
		return ast.NewLiteral(value.Number(kind.Value)), nil
	case lexer.String:
		s.advance()
		return ast.NewLiteral(value.String(kind.Value)), nil
	}

	switch tok.Type() {
	case lexer.True:
		s.advance()
		return ast.NewLiteral(value.Boolean(true)), nil
	case lexer.False:
		s.advance()
		return ast.NewLiteral(value.Boolean(false)), nil
	case lexer.Nil:
		s.advance()
		return ast.NewLiteral(value.Nil{}), nil
	case lexer.LeftParen:
		s.advance()
		inner, err := s.expression()
		if err != nil {
			return nil, err
		}
		if !s.match(lexer.RightParen) {
			return nil, s.errorAt(s.peek(), msgExpectRightParen)
		}
		return ast.NewGrouping(inner), nil
	}

	return nil, s.errorAt(tok, msgExpectExpression)
}

// leftAssoc parses operand ( op operand )* into a left-leaning chain
func (s *state) leftAssoc(operand func() (ast.Expr, error), ops ...lexer.Type) (ast.Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}

	for s.match(ops...) {
		operator := s.previous()
		right, err := s.nested(operand)
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(expr, operator, right)
	}
	return expr, nil
}

// nested parses a right operand one level deeper. The chain itself
// does not nest, so each operand is charged and released in turn.
func (s *state) nested(operand func() (ast.Expr, error)) (ast.Expr, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	return operand()
}

func (s *state) enter() error {
	s.depth++
	if s.depth > s.maxDepth {
		return s.errorAt(s.peek(), msgTooDeep)
	}
	return nil
}

func (s *state) leave() {
	s.depth--
}

func (s *state) match(types ...lexer.Type) bool {
	if s.peek().Is(types...) {
		s.advance()
		return true
	}
	return false
}

func (s *state) check(t lexer.Type) bool {
	return s.peek().Type() == t
}

func (s *state) advance() {
	if s.current < len(s.tokens) && !s.check(lexer.EOF) {
		s.current++
	}
}

// peek returns the current token; past the end it returns an EOF token
// on the last known line.
func (s *state) peek() lexer.Token {
	if s.current < len(s.tokens) {
		return s.tokens[s.current]
	}
	eof := lexer.Token{Kind: lexer.Simple(lexer.EOF), Span: lexer.Span{Line: 1}}
	if n := len(s.tokens); n > 0 {
		eof.Span = s.tokens[n-1].Span
	}
	return eof
}

func (s *state) previous() lexer.Token {
	return s.tokens[s.current-1]
}

// errorAt builds a syntax error positioned at tok; EOF carries no lexeme
func (s *state) errorAt(tok lexer.Token, message string) error {
	err := loxerr.New(loxerr.Syntax, message).AtLine(tok.Span.Line)
	if tok.Type() != lexer.EOF {
		err.WithLexeme(tok.Lexeme)
	}
	return err
}
