// File: walk.go
// Title: Tree Traversal Helpers
// Description: Pre-order traversal, size and depth summaries and a
//              structural validation pass for hand-built trees.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial traversal helpers

package ast

import (
	"fmt"

	"github.com/msto63/mlox/foundation/lox/lexer"
)

// Walk visits e and its descendants in pre-order. Children of a node are
// skipped when fn returns false for it.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, child := range Children(e) {
		Walk(child, fn)
	}
}

// Children returns the direct children of e, left to right
func Children(e Expr) []Expr {
	switch node := e.(type) {
	case *Binary:
		return []Expr{node.Left, node.Right}
	case *Grouping:
		return []Expr{node.Inner}
	case *Unary:
		return []Expr{node.Operand}
	default:
		return nil
	}
}

// Count returns the number of nodes in e
func Count(e Expr) int {
	n := 0
	Walk(e, func(Expr) bool {
		n++
		return true
	})
	return n
}

// Depth returns the height of e; a single literal has depth 1
func Depth(e Expr) int {
	if e == nil {
		return 0
	}
	deepest := 0
	for _, child := range Children(e) {
		if d := Depth(child); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

var (
	binaryOperators = []lexer.Type{
		lexer.Equal, lexer.EqualEqual, lexer.BangEqual,
		lexer.Greater, lexer.GreaterEqual, lexer.Less, lexer.LessEqual,
		lexer.Minus, lexer.Plus, lexer.Star, lexer.Slash,
	}
	unaryOperators = []lexer.Type{lexer.Bang, lexer.Minus}
)

// Validate checks that every node has its children and that operators are
// ones the grammar produces. Trees from the parser always pass.
func Validate(e Expr) error {
	var err error
	Walk(e, func(node Expr) bool {
		if err != nil {
			return false
		}
		switch n := node.(type) {
		case *Binary:
			if n.Left == nil || n.Right == nil {
				err = fmt.Errorf("binary %q is missing an operand", n.Operator.Lexeme)
			} else if !n.Operator.Is(binaryOperators...) {
				err = fmt.Errorf("binary operator %s is not supported", n.Operator.Type())
			}
		case *Grouping:
			if n.Inner == nil {
				err = fmt.Errorf("grouping is empty")
			}
		case *Literal:
			if n.Value == nil {
				err = fmt.Errorf("literal has no value")
			}
		case *Unary:
			if n.Operand == nil {
				err = fmt.Errorf("unary %q is missing its operand", n.Operator.Lexeme)
			} else if !n.Operator.Is(unaryOperators...) {
				err = fmt.Errorf("unary operator %s is not supported", n.Operator.Type())
			}
		}
		return err == nil
	})
	if e == nil {
		return fmt.Errorf("expression is nil")
	}
	return err
}
