// File: value.go
// Title: Lox Runtime Values
// Description: Defines the closed set of runtime values produced by literals
//              and by evaluation: numbers, strings, booleans and nil.
//              Provides truthiness, structural equality and display form.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial value model

package value

import (
	"math"
	"strconv"
)

// Type identifies the variant of a Value
type Type int

const (
	TypeNil Type = iota
	TypeBoolean
	TypeNumber
	TypeString
)

// String returns the lower-case type name
func (t Type) String() string {
	switch t {
	case TypeNil:
		return "nil"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a runtime value. The set of implementations is closed:
// Number, String, Boolean and Nil.
type Value interface {
	// Type returns the variant tag
	Type() Type

	// Display returns the textual form printed by the REPL
	Display() string

	sealed()
}

// Number is a 64-bit floating point value
type Number float64

// String is a text value
type String string

// Boolean is a truth value
type Boolean bool

// Nil is the absent value
type Nil struct{}

func (Number) Type() Type  { return TypeNumber }
func (String) Type() Type  { return TypeString }
func (Boolean) Type() Type { return TypeBoolean }
func (Nil) Type() Type     { return TypeNil }

func (Number) sealed()  {}
func (String) sealed()  {}
func (Boolean) sealed() {}
func (Nil) sealed()     {}

// Display formats the number in shortest decimal form without exponent
func (n Number) Display() string {
	return FormatNumber(float64(n))
}

// Display quotes the string
func (s String) Display() string {
	return `"` + string(s) + `"`
}

// Display returns true or false
func (b Boolean) Display() string {
	if b {
		return "true"
	}
	return "false"
}

// Display returns nil
func (Nil) Display() string {
	return "nil"
}

// FormatNumber renders f the way number literals and results are shown:
// 3 for whole values, 45.67 for fractions, inf, -inf and NaN otherwise.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsTruthy reports the truthiness of v. Nil and false are falsy,
// every other value, including 0 and "", is truthy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case nil, Nil:
		return false
	case Boolean:
		return bool(val)
	default:
		return true
	}
}

// Equal compares two values structurally. Values of different variants are
// never equal; numbers compare with exact IEEE754 equality, so NaN is not
// equal to itself.
func Equal(a, b Value) bool {
	switch left := a.(type) {
	case nil, Nil:
		switch b.(type) {
		case nil, Nil:
			return true
		}
		return false
	case Boolean:
		right, ok := b.(Boolean)
		return ok && left == right
	case Number:
		right, ok := b.(Number)
		return ok && float64(left) == float64(right)
	case String:
		right, ok := b.(String)
		return ok && left == right
	default:
		return false
	}
}

// Interface returns the Go representation of v: float64, string, bool or nil
func Interface(v Value) interface{} {
	switch val := v.(type) {
	case Number:
		return float64(val)
	case String:
		return string(val)
	case Boolean:
		return bool(val)
	default:
		return nil
	}
}

// TypeOf returns the variant tag, treating a nil interface as Nil
func TypeOf(v Value) Type {
	if v == nil {
		return TypeNil
	}
	return v.Type()
}
