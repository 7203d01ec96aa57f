// File: interpreter.go
// Title: Lox Tree-Walking Evaluator
// Description: Reduces an expression tree to a runtime value with a
//              post-order walk. Applies operator semantics and operand
//              type checks and returns the first runtime error.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-12
// Modified: 2026-10-16
//
// Change History:
// - 2026-10-12 v0.1.0: Initial evaluator implementation
// - 2026-10-16 v0.1.1: Walk left spines iteratively; charge depth like the parser

package interpreter

import (
	mdwlog "github.com/msto63/mlox/foundation/core/log"
	"github.com/msto63/mlox/foundation/lox/ast"
	"github.com/msto63/mlox/foundation/lox/lexer"
	"github.com/msto63/mlox/foundation/lox/loxerr"
	"github.com/msto63/mlox/foundation/lox/value"
)

// DefaultMaxDepth bounds the recursion of a single evaluation
const DefaultMaxDepth = 512

const (
	msgUnaryOperand    = "expected number literal for unary operand"
	msgPlusOperands    = "invalid operands for +"
	msgNumericOperands = "expected number literals for operand %s"
	msgUnknownOperator = "unknown operator"
	msgInvalidNode     = "invalid expression node"
	msgTooDeep         = "expression nesting exceeds maximum depth"
)

// Options configures evaluator behavior
type Options struct {
	Logger   *mdwlog.Logger
	MaxDepth int
}

// Interpreter evaluates trees. It holds only configuration, so one
// Interpreter can serve concurrent Evaluate calls.
type Interpreter struct {
	logger  *mdwlog.Logger
	options Options
}

// New creates an interpreter with the given options
func New(opts Options) *Interpreter {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	return &Interpreter{
		logger:  opts.Logger.WithField("component", "lox-interpreter"),
		options: opts,
	}
}

// Evaluate evaluates expr with default options
func Evaluate(expr ast.Expr) (value.Value, error) {
	return New(Options{}).Evaluate(expr)
}

// Options returns the effective options
func (i *Interpreter) Options() Options {
	return i.options
}

// Evaluate reduces expr to a value. On error the value is nil.
func (i *Interpreter) Evaluate(expr ast.Expr) (value.Value, error) {
	w := &walker{maxDepth: i.options.MaxDepth}

	result, err := w.descend(expr)
	if err != nil {
		i.logger.Debug("evaluation failed", mdwlog.Fields{"error": err.Error()})
		return nil, err
	}

	if i.logger.Enabled(mdwlog.LevelTrace) {
		i.logger.Trace("evaluation completed", mdwlog.Fields{
			"type":  result.Type().String(),
			"value": result.Display(),
		})
	}
	return result, nil
}

// walker carries the depth counter of a single Evaluate call.
//
// Depth is charged on the same edges the parser charges: the root, a
// grouping's inner expression, a unary operand and a binary right
// operand. Left spines are walked in a loop, so a flat chain such as
// 1 + 1 + ... + 1 costs one level no matter how long it is.
type walker struct {
	depth    int
	maxDepth int
}

func (w *walker) descend(expr ast.Expr) (value.Value, error) {
	w.depth++
	defer func() { w.depth-- }()
	if w.depth > w.maxDepth {
		return nil, loxerr.New(loxerr.Runtime, msgTooDeep).AtLine(ast.Line(expr))
	}
	return w.eval(expr)
}

func (w *walker) eval(expr ast.Expr) (value.Value, error) {
	switch node := expr.(type) {
	case *ast.Literal:
		if node.Value == nil {
			return nil, loxerr.New(loxerr.Runtime, msgInvalidNode)
		}
		return node.Value, nil
	case *ast.Grouping:
		return w.descend(node.Inner)
	case *ast.Unary:
		return w.unary(node)
	case *ast.Binary:
		return w.binary(node)
	default:
		return nil, loxerr.New(loxerr.Runtime, msgInvalidNode)
	}
}

func (w *walker) unary(node *ast.Unary) (value.Value, error) {
	operand, err := w.descend(node.Operand)
	if err != nil {
		return nil, err
	}

	switch node.Operator.Type() {
	case lexer.Minus:
		n, ok := operand.(value.Number)
		if !ok {
			return nil, runtimeError(node.Operator, msgUnaryOperand)
		}
		return -n, nil
	case lexer.Bang:
		return value.Boolean(!value.IsTruthy(operand)), nil
	default:
		return nil, runtimeError(node.Operator, msgUnknownOperator)
	}
}

// binary evaluates node and every Binary down its Left links bottom-up
func (w *walker) binary(node *ast.Binary) (value.Value, error) {
	spine := []*ast.Binary{node}
	for {
		left, ok := spine[len(spine)-1].Left.(*ast.Binary)
		if !ok {
			break
		}
		spine = append(spine, left)
	}

	acc, err := w.eval(spine[len(spine)-1].Left)
	if err != nil {
		return nil, err
	}
	for i := len(spine) - 1; i >= 0; i-- {
		right, err := w.descend(spine[i].Right)
		if err != nil {
			return nil, err
		}
		if acc, err = apply(spine[i].Operator, acc, right); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// apply combines two evaluated operands
func apply(op lexer.Token, left, right value.Value) (value.Value, error) {
	switch op.Type() {
	case lexer.Plus:
		switch l := left.(type) {
		case value.Number:
			if r, ok := right.(value.Number); ok {
				return l + r, nil
			}
		case value.String:
			if r, ok := right.(value.String); ok {
				return l + r, nil
			}
		}
		return nil, runtimeError(op, msgPlusOperands)

	case lexer.Equal, lexer.EqualEqual:
		return value.Boolean(value.Equal(left, right)), nil
	case lexer.BangEqual:
		return value.Boolean(!value.Equal(left, right)), nil

	case lexer.Minus, lexer.Star, lexer.Slash,
		lexer.Greater, lexer.GreaterEqual, lexer.Less, lexer.LessEqual:
		l, lok := left.(value.Number)
		r, rok := right.(value.Number)
		if !lok || !rok {
			return nil, loxerr.Newf(loxerr.Runtime, msgNumericOperands, op.Lexeme).
				AtLine(op.Span.Line).
				WithLexeme(op.Lexeme)
		}
		return arithmetic(op.Type(), l, r), nil

	default:
		return nil, runtimeError(op, msgUnknownOperator)
	}
}

// arithmetic applies a numeric operator; '/' follows IEEE754
func arithmetic(t lexer.Type, l, r value.Number) value.Value {
	switch t {
	case lexer.Minus:
		return l - r
	case lexer.Star:
		return l * r
	case lexer.Slash:
		return l / r
	case lexer.Greater:
		return value.Boolean(l > r)
	case lexer.GreaterEqual:
		return value.Boolean(l >= r)
	case lexer.Less:
		return value.Boolean(l < r)
	default:
		return value.Boolean(l <= r)
	}
}

func runtimeError(op lexer.Token, message string) error {
	return loxerr.New(loxerr.Runtime, message).
		AtLine(op.Span.Line).
		WithLexeme(op.Lexeme)
}
