// Package ast defines the Lox expression tree.
//
// Package: ast
// Title: Lox Syntax Tree
// Description: Expr is a closed sum type with four variants (Binary,
//              Grouping, Literal, Unary). There is no visitor interface:
//              consumers switch on the concrete type, so the printer, the
//              evaluator and the traversal helpers each handle every
//              variant in one place.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial implementation
//
// Usage:
//
//	tree := ast.NewBinary(
//		ast.NewUnary(minus, ast.NewLiteral(value.Number(123))),
//		star,
//		ast.NewGrouping(ast.NewLiteral(value.Number(45.67))),
//	)
//	fmt.Println(ast.Print(tree)) // (* (- 123) (group 45.67))
package ast
