// File: lexer.go
// Title: Lox Lexical Analyzer
// Description: Converts source text into a token sequence with a single
//              left-to-right cursor. Fails fast on the first lexical error.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial lexer implementation

package lexer

import (
	"strconv"
	"unicode/utf8"

	"github.com/msto63/mlox/foundation/lox/loxerr"
)

const (
	msgUnterminatedString  = "unterminated string"
	msgUnexpectedCharacter = "unexpected character"
)

// Lexer performs lexical analysis of Lox source
type Lexer struct {
	input    string // Input string
	position int    // Current position in input (points to current char)
	readPos  int    // Current reading position (after current char)
	ch       byte   // Current char under examination
	line     int    // Current line number (1-based)
	column   int    // Current column number (1-based)
}

// New creates a new lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
	}
	l.readChar()
	return l
}

// Scan converts source into tokens terminated by a single EOF token.
// On error no tokens are returned.
func Scan(source string) ([]Token, error) {
	return New(source).Tokenize()
}

// Tokenize returns all tokens from the input
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token

	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)

		if tok.Type() == EOF {
			return tokens, nil
		}
	}
}

// NextToken returns the next token. Comments and whitespace are skipped.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespaceAndComments()

	pos := l.position
	line := l.line
	column := l.column

	if l.atEnd() {
		return Token{Kind: Simple(EOF), Span: Span{Line: line, Column: column, Offset: pos}}, nil
	}

	simple := func(t Type) (Token, error) {
		l.readChar()
		return Token{Kind: Simple(t), Lexeme: l.input[pos:l.position], Span: Span{line, column, pos}}, nil
	}
	twoChar := func(one, two Type) (Token, error) {
		if l.peekChar() == '=' {
			l.readChar()
			return simple(two)
		}
		return simple(one)
	}

	switch l.ch {
	case '(':
		return simple(LeftParen)
	case ')':
		return simple(RightParen)
	case '{':
		return simple(LeftBrace)
	case '}':
		return simple(RightBrace)
	case ',':
		return simple(Comma)
	case '.':
		return simple(Dot)
	case '-':
		return simple(Minus)
	case '+':
		return simple(Plus)
	case ';':
		return simple(Semicolon)
	case '*':
		return simple(Star)
	case '/':
		return simple(Slash)
	case '!':
		return twoChar(Bang, BangEqual)
	case '=':
		return twoChar(Equal, EqualEqual)
	case '<':
		return twoChar(Less, LessEqual)
	case '>':
		return twoChar(Greater, GreaterEqual)
	case '"':
		return l.readString()
	}

	switch {
	case isDigit(l.ch):
		return l.readNumber()
	case isLetter(l.ch):
		return l.readIdentifier(), nil
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.position:])
	return Token{}, loxerr.New(loxerr.Lexical, msgUnexpectedCharacter).
		AtLine(line).
		WithLexeme(string(r))
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}

	l.position = l.readPos
	if l.readPos <= len(l.input) {
		l.readPos++
	}

	// The previous character decides whether a new line starts here
	if l.position > 0 && l.position <= len(l.input) && l.input[l.position-1] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// skipWhitespaceAndComments skips blanks, line breaks and // comments
func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEnd() {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for !l.atEnd() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readString reads a double-quoted string. Line breaks are kept verbatim.
func (l *Lexer) readString() (Token, error) {
	pos := l.position
	line := l.line
	column := l.column

	l.readChar() // opening quote
	for !l.atEnd() && l.ch != '"' {
		l.readChar()
	}
	if l.atEnd() {
		return Token{}, loxerr.New(loxerr.Lexical, msgUnterminatedString).AtLine(line)
	}
	l.readChar() // closing quote

	lexeme := l.input[pos:l.position]
	return Token{
		Kind:   String{Value: lexeme[1 : len(lexeme)-1]},
		Lexeme: lexeme,
		Span:   Span{Line: line, Column: column, Offset: pos},
	}, nil
}

// readNumber reads digits with an optional fraction; a trailing '.' is left alone
func (l *Lexer) readNumber() (Token, error) {
	pos := l.position
	line := l.line
	column := l.column

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	lexeme := l.input[pos:l.position]
	n, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return Token{}, loxerr.Newf(loxerr.Lexical, "invalid number literal: %v", err).
			AtLine(line).
			WithLexeme(lexeme)
	}

	return Token{
		Kind:   Number{Value: n},
		Lexeme: lexeme,
		Span:   Span{Line: line, Column: column, Offset: pos},
	}, nil
}

// readIdentifier reads an identifier or reserved word
func (l *Lexer) readIdentifier() Token {
	pos := l.position
	line := l.line
	column := l.column

	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}

	text := l.input[pos:l.position]
	span := Span{Line: line, Column: column, Offset: pos}
	if t, ok := LookupKeyword(text); ok {
		return Token{Kind: Simple(t), Lexeme: text, Span: span}
	}
	return Token{Kind: Identifier{Name: text}, Lexeme: text, Span: span}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
