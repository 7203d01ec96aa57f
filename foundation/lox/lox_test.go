// File: lox_test.go
// Title: Lox Engine Tests
// Description: End-to-end pipeline tests through the engine facade.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial tests

package lox

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	mdwerror "github.com/msto63/mlox/foundation/core/error"
	mdwlog "github.com/msto63/mlox/foundation/core/log"
	"github.com/msto63/mlox/foundation/lox/ast"
	"github.com/msto63/mlox/foundation/lox/loxerr"
	"github.com/msto63/mlox/foundation/lox/parser"
	"github.com/msto63/mlox/foundation/lox/value"
)

func newTestEngine(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = mdwlog.Discard()
	}
	return New(opts)
}

func TestEngineRun(t *testing.T) {
	tests := []struct {
		source      string
		wantDisplay string
		wantTree    string
	}{
		{"1 + 2", "3", "(+ 1 2)"},
		{`"a" + "b"`, `"ab"`, `(+ "a" "b")`},
		{"(1 + 2) * 3", "9", "(* (group (+ 1 2)) 3)"},
		{"!0", "false", "(! 0)"},
		{"1 == 1.0", "true", "(== 1 1)"},
		{"nil", "nil", "nil"},
		{"10 / 4", "2.5", "(/ 10 4)"},
	}

	engine := newTestEngine(Options{})
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			result, err := engine.Run(context.Background(), tt.source)
			if err != nil {
				t.Fatalf("Run(%q) error = %v", tt.source, err)
			}
			if got := result.Value.Display(); got != tt.wantDisplay {
				t.Errorf("Value = %s, want %s", got, tt.wantDisplay)
			}
			if got := ast.Print(result.Tree); got != tt.wantTree {
				t.Errorf("Tree = %s, want %s", got, tt.wantTree)
			}
			if result.Source != tt.source || len(result.Tokens) == 0 {
				t.Errorf("Result = %+v", result)
			}
		})
	}
}

func TestEngineRunErrors(t *testing.T) {
	tests := []struct {
		source string
		kind   loxerr.Kind
		want   string
	}{
		{`"abc`, loxerr.Lexical, "[line 1] Error: unterminated string"},
		{"1 # 2", loxerr.Lexical, "[line 1] Error at '#': unexpected character"},
		{"(1 + 2", loxerr.Syntax, "[line 1] Error: expected ')' after expression"},
		{"\n)", loxerr.Syntax, "[line 2] Error at ')': expected expression"},
		{`1 + "a"`, loxerr.Runtime, "[line 1] Error at '+': invalid operands for +"},
		{`-"x"`, loxerr.Runtime, "[line 1] Error at '-': expected number literal for unary operand"},
	}

	engine := newTestEngine(Options{})
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			result, err := engine.Run(context.Background(), tt.source)
			if result != nil {
				t.Errorf("Run() returned a result alongside an error")
			}
			if loxerr.KindOf(err) != tt.kind {
				t.Errorf("kind = %v, want %v", loxerr.KindOf(err), tt.kind)
			}
			if err == nil || err.Error() != tt.want {
				t.Errorf("Error() = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestEngineStages(t *testing.T) {
	engine := newTestEngine(Options{})

	tokens, err := engine.Scan("1 + 2")
	if err != nil || len(tokens) != 4 {
		t.Fatalf("Scan() = %v, %v", tokens, err)
	}

	tree, err := engine.Parse("-123 * 45.67")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := ast.Print(tree); got != "(* (- 123) 45.67)" {
		t.Errorf("Parse() = %s", got)
	}

	v, err := engine.Evaluate(`"x" + "y"`)
	if err != nil || v != value.String("xy") {
		t.Errorf("Evaluate() = %v, %v", v, err)
	}

	v, err = engine.EvaluateTree(tree)
	if err != nil {
		t.Fatalf("EvaluateTree() error = %v", err)
	}
	if _, ok := v.(value.Number); !ok {
		t.Errorf("EvaluateTree() = %#v, want a number", v)
	}
}

func TestEngineOptions(t *testing.T) {
	engine := newTestEngine(Options{})
	opts := engine.Options()
	if opts.MaxSourceLength != DefaultMaxSourceLength || opts.ParserMaxDepth != parser.DefaultMaxDepth {
		t.Errorf("defaults not applied: %+v", opts)
	}

	left := newTestEngine(Options{FactorAssociativity: parser.LeftAssociative})
	tree, err := left.Parse("2 * 3 * 4")
	if err != nil {
		t.Fatal(err)
	}
	if got := ast.Print(tree); got != "(* (* 2 3) 4)" {
		t.Errorf("left associative Parse() = %s", got)
	}

	right, err := engine.Parse("2 * 3 * 4")
	if err != nil {
		t.Fatal(err)
	}
	if got := ast.Print(right); got != "(* 2 (* 3 4))" {
		t.Errorf("right associative Parse() = %s", got)
	}
}

func TestEngineMaxSourceLength(t *testing.T) {
	engine := newTestEngine(Options{MaxSourceLength: 8})

	if _, err := engine.Evaluate("1 + 2"); err != nil {
		t.Errorf("short source error = %v", err)
	}
	_, err := engine.Evaluate("1 + 2 + 3 + 4")
	if !loxerr.IsKind(err, loxerr.Lexical) || !strings.Contains(err.Error(), "maximum length") {
		t.Errorf("long source error = %v", err)
	}
}

func TestEngineRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(Options{}).Run(ctx, "1")
	if !mdwerror.HasCode(err, mdwerror.CodeCanceled) {
		t.Errorf("Run() error = %v, want canceled", err)
	}
}

func TestEngineRunLogsTiming(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelDebug, Output: buf})
	engine := New(Options{Logger: logger})

	if _, err := engine.Run(context.Background(), "1 + 1"); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Run(context.Background(), "1 +"); err == nil {
		t.Fatal("expected error")
	}

	out := buf.String()
	for _, want := range []string{"lox run completed", "scanned", "lox run failed", `"error_kind":"syntax"`, `"error_code":"LOX_SYNTAX"`, `"error_line":1`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q", want)
		}
	}
	if strings.Contains(out, `"level":"warn"`) {
		t.Error("user input errors should not be logged as warnings")
	}
}

func TestEngineConcurrentRuns(t *testing.T) {
	engine := newTestEngine(Options{})
	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := engine.Run(context.Background(), "(1 + 2) * 3 == 9")
			if err != nil {
				errs <- err
				return
			}
			if result.Value != value.Boolean(true) {
				errs <- mdwerror.New("unexpected value " + result.Value.Display())
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestEngineLongChains(t *testing.T) {
	engine := newTestEngine(Options{})

	v, err := engine.Evaluate("1" + strings.Repeat(" + 1", 999))
	if err != nil || v != value.Number(1000) {
		t.Errorf("addition chain = %v, %v, want 1000", v, err)
	}
	v, err = engine.Evaluate("nil" + strings.Repeat(" == nil", 1000))
	if err != nil || v != value.Boolean(false) {
		t.Errorf("equality chain = %v, %v, want false", v, err)
	}
}

func TestEngineEvalDepthFollowsParser(t *testing.T) {
	engine := newTestEngine(Options{ParserMaxDepth: 50, EvalMaxDepth: 10})
	if got := engine.Options().EvalMaxDepth; got != 50 {
		t.Fatalf("EvalMaxDepth = %d, want 50", got)
	}

	source := strings.Repeat("(", 40) + "1" + strings.Repeat(")", 40)
	if _, err := engine.Evaluate(source); err != nil {
		t.Errorf("Evaluate() error = %v", err)
	}
}
