// Package parser builds Lox expression trees from tokens.
//
// Package: parser
// Title: Lox Recursive Descent Parser
// Description: One function per precedence level, loosest first:
//              equality, comparison, term, factor, unary, primary. Every
//              binary level is left-associative except factor, whose
//              single optional tail recurses into factor and therefore
//              groups '*' and '/' chains to the right. The grouping is
//              exposed as Options.FactorAssociativity. A single '=' is an
//              equality operator; the grammar has no assignment.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial implementation
//
// Errors:
//
// The first syntax error ends the parse. Messages are
// "expected ')' after expression", "expected expression",
// "expected end of expression" and
// "expression nesting exceeds maximum depth".
//
// Usage:
//
//	tokens, _ := lexer.Scan("2 * 3 * 4")
//	tree, err := parser.Parse(tokens)
//	fmt.Println(tree) // (* 2 (* 3 4))
package parser
