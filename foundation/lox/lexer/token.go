// File: token.go
// Title: Lox Token Definitions
// Description: Defines token types, the tagged token kind with inline
//              literal payloads, source spans and the reserved word table.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial token definitions

package lexer

import (
	"fmt"
	"strconv"
)

// Type represents the type of a lexical token
type Type int

const (
	// Single-character tokens
	LeftParen Type = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	// One or two character tokens
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals
	IdentifierType
	StringType
	NumberType

	// Keywords
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	EOF
)

var typeNames = [...]string{
	LeftParen:      "LEFT_PAREN",
	RightParen:     "RIGHT_PAREN",
	LeftBrace:      "LEFT_BRACE",
	RightBrace:     "RIGHT_BRACE",
	Comma:          "COMMA",
	Dot:            "DOT",
	Minus:          "MINUS",
	Plus:           "PLUS",
	Semicolon:      "SEMICOLON",
	Slash:          "SLASH",
	Star:           "STAR",
	Bang:           "BANG",
	BangEqual:      "BANG_EQUAL",
	Equal:          "EQUAL",
	EqualEqual:     "EQUAL_EQUAL",
	Greater:        "GREATER",
	GreaterEqual:   "GREATER_EQUAL",
	Less:           "LESS",
	LessEqual:      "LESS_EQUAL",
	IdentifierType: "IDENTIFIER",
	StringType:     "STRING",
	NumberType:     "NUMBER",
	And:            "AND",
	Class:          "CLASS",
	Else:           "ELSE",
	False:          "FALSE",
	Fun:            "FUN",
	For:            "FOR",
	If:             "IF",
	Nil:            "NIL",
	Or:             "OR",
	Print:          "PRINT",
	Return:         "RETURN",
	Super:          "SUPER",
	This:           "THIS",
	True:           "TRUE",
	Var:            "VAR",
	While:          "WHILE",
	EOF:            "EOF",
}

// String returns the upper snake case name of the type
func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "UNKNOWN"
}

// IsKeyword reports whether t is a reserved word
func (t Type) IsKeyword() bool {
	return t >= And && t <= While
}

var keywords = map[string]Type{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"fun":    Fun,
	"for":    For,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// LookupKeyword returns the keyword type for text, if it is reserved
func LookupKeyword(text string) (Type, bool) {
	t, ok := keywords[text]
	return t, ok
}

// Kind is the tagged variant of a token. Literal-bearing variants carry
// their decoded payload; everything else is Simple.
type Kind interface {
	Type() Type
	kind()
}

// Simple is a token without payload: punctuation, operators, keywords, EOF
type Simple Type

// Identifier carries the identifier text
type Identifier struct {
	Name string
}

// String carries the text between the quotes
type String struct {
	Value string
}

// Number carries the parsed numeric value
type Number struct {
	Value float64
}

func (s Simple) Type() Type   { return Type(s) }
func (Identifier) Type() Type { return IdentifierType }
func (String) Type() Type     { return StringType }
func (Number) Type() Type     { return NumberType }

func (Simple) kind()     {}
func (Identifier) kind() {}
func (String) kind()     {}
func (Number) kind()     {}

// Span is the source position of a token
type Span struct {
	Line   int // Line number (1-based)
	Column int // Column number (1-based)
	Offset int // Byte offset (0-based)
}

// Token is an immutable lexical unit
type Token struct {
	Kind   Kind
	Lexeme string
	Span   Span
}

// Type returns the token type
func (t Token) Type() Type {
	if t.Kind == nil {
		return EOF
	}
	return t.Kind.Type()
}

// Is reports whether the token has one of the given types
func (t Token) Is(types ...Type) bool {
	tt := t.Type()
	for _, want := range types {
		if tt == want {
			return true
		}
	}
	return false
}

// Literal returns the payload rendered for dumps, or "nil" for payload-free kinds
func (t Token) Literal() string {
	switch k := t.Kind.(type) {
	case Identifier:
		return k.Name
	case String:
		return strconv.Quote(k.Value)
	case Number:
		return strconv.FormatFloat(k.Value, 'f', -1, 64)
	default:
		return "nil"
	}
}

// String returns "TYPE lexeme literal"
func (t Token) String() string {
	return fmt.Sprintf("%s %s %s", t.Type(), t.Lexeme, t.Literal())
}
