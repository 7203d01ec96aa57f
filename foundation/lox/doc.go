// Package lox is the entry point to the mlox expression pipeline.
//
// Package: lox
// Title: mlox Expression Engine
// Description: Source text flows through lexer.Scan, parser.Parse and
//              interpreter.Evaluate. Each stage is pure, fails fast and
//              reports failures as *loxerr.Error with kind Lexical, Syntax
//              or Runtime. Engine bundles one configuration for all three
//              stages and is shared by the REPL, the script runner and
//              the network services.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial implementation
//
// Package layout:
//
//	value        runtime values, truthiness, equality, display
//	loxerr       error record and rendering
//	lexer        tokens and scanner
//	ast          expression tree and printer
//	parser       recursive descent parser
//	interpreter  tree-walking evaluator
//
// Usage:
//
//	engine := lox.New(lox.Options{})
//	result, err := engine.Run(ctx, "(1 + 2) * 3")
//	if err != nil {
//		fmt.Println(err) // [line 1] Error at '+': invalid operands for +
//		return
//	}
//	fmt.Println(result.Value.Display()) // 9
package lox
