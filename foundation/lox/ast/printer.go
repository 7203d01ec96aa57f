// File: printer.go
// Title: Canonical Tree Rendering
// Description: Renders a tree in fully parenthesized prefix form and as a
//              generic map for JSON and YAML dumps.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial printer

package ast

import (
	"math"
	"strings"

	"github.com/msto63/mlox/foundation/lox/value"
)

// Print renders e in prefix form:
//
//	Binary   (<op> <left> <right>)
//	Unary    (<op> <operand>)
//	Grouping (group <inner>)
//	Literal  display form of the value
//
// A nil node renders as "<nil>".
func Print(e Expr) string {
	var sb strings.Builder
	writeExpr(&sb, e)
	return sb.String()
}

func writeExpr(sb *strings.Builder, e Expr) {
	switch node := e.(type) {
	case *Binary:
		parenthesize(sb, node.Operator.Lexeme, node.Left, node.Right)
	case *Grouping:
		parenthesize(sb, "group", node.Inner)
	case *Literal:
		if node.Value == nil {
			sb.WriteString("nil")
			return
		}
		sb.WriteString(node.Value.Display())
	case *Unary:
		parenthesize(sb, node.Operator.Lexeme, node.Operand)
	default:
		sb.WriteString("<nil>")
	}
}

func parenthesize(sb *strings.Builder, name string, exprs ...Expr) {
	sb.WriteByte('(')
	sb.WriteString(name)
	for _, e := range exprs {
		sb.WriteByte(' ')
		writeExpr(sb, e)
	}
	sb.WriteByte(')')
}

// ToMap converts e into nested maps with a "type" key per node.
// Non-finite numbers are stored by their display form so the result can
// always be encoded as JSON.
func ToMap(e Expr) map[string]interface{} {
	switch node := e.(type) {
	case *Binary:
		return map[string]interface{}{
			"type":     "binary",
			"operator": node.Operator.Lexeme,
			"line":     node.Operator.Span.Line,
			"left":     ToMap(node.Left),
			"right":    ToMap(node.Right),
		}
	case *Grouping:
		return map[string]interface{}{
			"type":       "grouping",
			"expression": ToMap(node.Inner),
		}
	case *Literal:
		return map[string]interface{}{
			"type":       "literal",
			"value_type": value.TypeOf(node.Value).String(),
			"value":      literalInterface(node.Value),
		}
	case *Unary:
		return map[string]interface{}{
			"type":     "unary",
			"operator": node.Operator.Lexeme,
			"line":     node.Operator.Span.Line,
			"operand":  ToMap(node.Operand),
		}
	default:
		return nil
	}
}

func literalInterface(v value.Value) interface{} {
	if n, ok := v.(value.Number); ok {
		f := float64(n)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return n.Display()
		}
	}
	return value.Interface(v)
}
