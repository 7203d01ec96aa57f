// File: lox.go
// Title: Lox Engine
// Description: High-level facade that runs source text through the lexer,
//              parser and evaluator with shared configuration and logging.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial engine implementation

package lox

import (
	"context"
	"time"

	mdwerror "github.com/msto63/mlox/foundation/core/error"
	mdwlog "github.com/msto63/mlox/foundation/core/log"
	"github.com/msto63/mlox/foundation/lox/ast"
	"github.com/msto63/mlox/foundation/lox/interpreter"
	"github.com/msto63/mlox/foundation/lox/lexer"
	"github.com/msto63/mlox/foundation/lox/loxerr"
	"github.com/msto63/mlox/foundation/lox/parser"
	"github.com/msto63/mlox/foundation/lox/value"
)

// DefaultMaxSourceLength is the largest accepted source in bytes
const DefaultMaxSourceLength = 1 << 20

// Engine runs the scan, parse and evaluate pipeline. It holds only
// configuration and is safe for concurrent use.
type Engine struct {
	parser      *parser.Parser
	interpreter *interpreter.Interpreter
	logger      *mdwlog.Logger
	options     Options
}

// Options configures the engine
type Options struct {
	// Logger for pipeline operations (optional, defaults to default logger)
	Logger *mdwlog.Logger

	// MaxSourceLength limits input size in bytes (default: 1 MiB)
	MaxSourceLength int

	// ParserMaxDepth limits syntactic nesting (default: parser.DefaultMaxDepth)
	ParserMaxDepth int

	// EvalMaxDepth limits evaluation recursion (default: interpreter.DefaultMaxDepth)
	EvalMaxDepth int

	// FactorAssociativity selects how '*' and '/' chains group (default: right)
	FactorAssociativity parser.Associativity
}

// Result is the output of a complete run
type Result struct {
	Source   string
	Tokens   []lexer.Token
	Tree     ast.Expr
	Value    value.Value
	Duration time.Duration
}

// New creates an engine with the given options
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.MaxSourceLength <= 0 {
		opts.MaxSourceLength = DefaultMaxSourceLength
	}

	logger := opts.Logger.WithField("component", "lox-engine")

	p := parser.New(parser.Options{
		Logger:              opts.Logger,
		MaxDepth:            opts.ParserMaxDepth,
		FactorAssociativity: opts.FactorAssociativity,
	})
	// The walker charges the same edges as the parser, so a limit at
	// least as deep as the parser's never rejects a tree Parse accepted.
	if opts.EvalMaxDepth > 0 && opts.EvalMaxDepth < p.Options().MaxDepth {
		opts.EvalMaxDepth = p.Options().MaxDepth
	}
	i := interpreter.New(interpreter.Options{
		Logger:   opts.Logger,
		MaxDepth: opts.EvalMaxDepth,
	})
	opts.ParserMaxDepth = p.Options().MaxDepth
	opts.EvalMaxDepth = i.Options().MaxDepth

	logger.Debug("lox engine initialized", mdwlog.Fields{
		"maxSourceLength":     opts.MaxSourceLength,
		"parserMaxDepth":      opts.ParserMaxDepth,
		"evalMaxDepth":        opts.EvalMaxDepth,
		"factorAssociativity": opts.FactorAssociativity.String(),
	})

	return &Engine{
		parser:      p,
		interpreter: i,
		logger:      logger,
		options:     opts,
	}
}

// Options returns the effective options
func (e *Engine) Options() Options {
	return e.options
}

// Scan converts source into tokens
func (e *Engine) Scan(source string) ([]lexer.Token, error) {
	if len(source) > e.options.MaxSourceLength {
		return nil, loxerr.Newf(loxerr.Lexical,
			"source exceeds maximum length: %d > %d bytes", len(source), e.options.MaxSourceLength)
	}
	return lexer.Scan(source)
}

// Parse scans and parses source into a tree
func (e *Engine) Parse(source string) (ast.Expr, error) {
	tokens, err := e.Scan(source)
	if err != nil {
		return nil, err
	}
	return e.parser.Parse(tokens)
}

// Evaluate scans, parses and evaluates source
func (e *Engine) Evaluate(source string) (value.Value, error) {
	expr, err := e.Parse(source)
	if err != nil {
		return nil, err
	}
	return e.interpreter.Evaluate(expr)
}

// EvaluateTree evaluates an already parsed tree
func (e *Engine) EvaluateTree(expr ast.Expr) (value.Value, error) {
	return e.interpreter.Evaluate(expr)
}

// Run executes the full pipeline and reports every intermediate product.
// A context that is already done stops the run before scanning; once
// started, the pipeline runs to completion.
func (e *Engine) Run(ctx context.Context, source string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, mdwerror.Wrap(err, "lox run not started").
			WithCode(mdwerror.CodeCanceled).
			WithOperation("lox.Run")
	}

	timer := e.logger.StartTimer("lox run").WithField("source_length", len(source))
	start := time.Now()

	tokens, err := e.Scan(source)
	if err != nil {
		return nil, e.fail(timer, err)
	}
	timer.Checkpoint("scanned", mdwlog.Fields{"tokens": len(tokens)})

	tree, err := e.parser.Parse(tokens)
	if err != nil {
		return nil, e.fail(timer, err)
	}
	timer.Checkpoint("parsed", mdwlog.Fields{"nodes": ast.Count(tree)})

	result, err := e.interpreter.Evaluate(tree)
	if err != nil {
		return nil, e.fail(timer, err)
	}

	timer.WithField("type", result.Type().String()).Stop()

	return &Result{
		Source:   source,
		Tokens:   tokens,
		Tree:     tree,
		Value:    result,
		Duration: time.Since(start),
	}, nil
}

// fail records a pipeline error on the timer. Lox errors are user input
// problems; their low severity keeps them at debug level.
func (e *Engine) fail(timer *mdwlog.Timer, err error) error {
	if loxErr, ok := loxerr.As(err); ok {
		timer.StopWithError(loxErr.Core())
		return err
	}
	timer.StopWithError(err)
	return err
}
