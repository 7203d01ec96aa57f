// Package lexer converts Lox source text into tokens.
//
// Package: lexer
// Title: Lox Lexical Analyzer
// Description: Single-pass scanner with one character of lookahead for
//              two-character operators, // line comments, verbatim
//              multi-line strings, decimal numbers and the reserved word
//              table. Literal payloads live inside the token kind
//              (Identifier, String, Number); everything else is Simple.
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
//	tokens, err := lexer.Scan(`(1 + 2) * "x"`)
//	if err != nil {
//		// *loxerr.Error with Kind == loxerr.Lexical
//	}
//	for _, tok := range tokens {
//		fmt.Println(tok) // LEFT_PAREN ( nil
//	}
package lexer
