// File: value_test.go
// Title: Lox Runtime Value Tests
// Description: Tests for display form, truthiness and equality.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial tests

package value

import (
	"math"
	"testing"
)

func TestDisplay(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"whole number", Number(3), "3"},
		{"fraction", Number(45.67), "45.67"},
		{"negative", Number(-123), "-123"},
		{"large", Number(1e21), "1000000000000000000000"},
		{"positive infinity", Number(math.Inf(1)), "inf"},
		{"negative infinity", Number(math.Inf(-1)), "-inf"},
		{"nan", Number(math.NaN()), "NaN"},
		{"string", String("ab"), `"ab"`},
		{"empty string", String(""), `""`},
		{"true", Boolean(true), "true"},
		{"false", Boolean(false), "false"},
		{"nil", Nil{}, "nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Display(); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		value Value
		want  bool
	}{
		{Nil{}, false},
		{nil, false},
		{Boolean(false), false},
		{Boolean(true), true},
		{Number(0), true},
		{String(""), true},
		{String("x"), true},
	}

	for _, tt := range tests {
		if got := IsTruthy(tt.value); got != tt.want {
			t.Errorf("IsTruthy(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil nil", Nil{}, Nil{}, true},
		{"nil false", Nil{}, Boolean(false), false},
		{"bool same", Boolean(true), Boolean(true), true},
		{"bool differ", Boolean(true), Boolean(false), false},
		{"number same", Number(1), Number(1.0), true},
		{"number differ", Number(0.30000000000000004), Number(0.3), false},
		{"nan", Number(math.NaN()), Number(math.NaN()), false},
		{"string same", String("a"), String("a"), true},
		{"string differ", String("a"), String("A"), false},
		{"number string", Number(1), String("1"), false},
		{"string nil", String(""), Nil{}, false},
		{"zero false", Number(0), Boolean(false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := Equal(tt.b, tt.a); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestInterfaceAndType(t *testing.T) {
	if Interface(Number(2)) != 2.0 {
		t.Error("Interface(Number) should be float64")
	}
	if Interface(String("s")) != "s" {
		t.Error("Interface(String) should be string")
	}
	if Interface(Nil{}) != nil {
		t.Error("Interface(Nil) should be nil")
	}
	if TypeOf(nil) != TypeNil || TypeOf(Boolean(true)).String() != "boolean" {
		t.Error("TypeOf() mismatch")
	}
}
