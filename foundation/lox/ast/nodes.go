// File: nodes.go
// Title: Lox Syntax Tree Nodes
// Description: Defines the closed set of expression nodes: Binary,
//              Grouping, Literal and Unary. Nodes own their children and
//              are not modified after the parser builds them.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial node definitions

package ast

import (
	"github.com/msto63/mlox/foundation/lox/lexer"
	"github.com/msto63/mlox/foundation/lox/value"
)

// Expr is an expression node. The implementations are exactly
// *Binary, *Grouping, *Literal and *Unary; consumers use a type switch.
type Expr interface {
	// String returns the canonical prefix rendering
	String() string

	expr()
}

// Binary is an infix operation: left operator right
type Binary struct {
	Left     Expr
	Operator lexer.Token
	Right    Expr
}

// Grouping is a parenthesized expression
type Grouping struct {
	Inner Expr
}

// Literal holds a constant value
type Literal struct {
	Value value.Value
}

// Unary is a prefix operation: operator operand
type Unary struct {
	Operator lexer.Token
	Operand  Expr
}

func (*Binary) expr()   {}
func (*Grouping) expr() {}
func (*Literal) expr()  {}
func (*Unary) expr()    {}

func (e *Binary) String() string   { return Print(e) }
func (e *Grouping) String() string { return Print(e) }
func (e *Literal) String() string  { return Print(e) }
func (e *Unary) String() string    { return Print(e) }

// NewBinary creates a binary node
func NewBinary(left Expr, operator lexer.Token, right Expr) *Binary {
	return &Binary{Left: left, Operator: operator, Right: right}
}

// NewGrouping creates a grouping node
func NewGrouping(inner Expr) *Grouping {
	return &Grouping{Inner: inner}
}

// NewLiteral creates a literal node
func NewLiteral(v value.Value) *Literal {
	return &Literal{Value: v}
}

// NewUnary creates a unary node
func NewUnary(operator lexer.Token, operand Expr) *Unary {
	return &Unary{Operator: operator, Operand: operand}
}

// Line returns the source line of the first operator in e, or 0 when the
// tree holds only literals and groupings.
func Line(e Expr) int {
	switch node := e.(type) {
	case *Binary:
		if line := Line(node.Left); line > 0 {
			return line
		}
		return node.Operator.Span.Line
	case *Unary:
		return node.Operator.Span.Line
	case *Grouping:
		return Line(node.Inner)
	default:
		return 0
	}
}
