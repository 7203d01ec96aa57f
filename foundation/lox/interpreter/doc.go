// Package interpreter evaluates Lox expression trees.
//
// Package: interpreter
// Title: Lox Tree-Walking Evaluator
// Description: Children are evaluated before their parent operator. '+'
//              adds numbers or concatenates strings; '-', '*', '/' and
//              the comparisons need two numbers; '==' and '=' compare
//              structurally with exact float equality; '!' negates
//              truthiness (nil and false are falsy). There is no implicit
//              coercion between value types. Division by zero yields
//              inf or NaN.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial implementation
package interpreter
