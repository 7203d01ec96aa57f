// ============================================================================
// mlox - Lox expression engine
// ============================================================================
//
// Package:     evalservice
// Description: Transport-independent evaluation service
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package evalservice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	mdwerror "github.com/msto63/mlox/foundation/core/error"
	mdwlog "github.com/msto63/mlox/foundation/core/log"
	"github.com/msto63/mlox/foundation/lox"
	"github.com/msto63/mlox/foundation/lox/ast"
	"github.com/msto63/mlox/foundation/lox/lexer"
	"github.com/msto63/mlox/foundation/lox/loxerr"
	"github.com/msto63/mlox/foundation/lox/value"
	"github.com/msto63/mlox/pkg/core/cache"
	coregrpc "github.com/msto63/mlox/pkg/core/grpc"
	"github.com/msto63/mlox/pkg/core/health"
	"github.com/msto63/mlox/pkg/core/version"
)

// MaxCachedSource is the longest source whose tree the parse cache keeps.
// Longer sources are parsed on every request.
const MaxCachedSource = 16 << 10

// Mode selects how far the pipeline runs
type Mode string

const (
	// ModeEval scans, parses and evaluates
	ModeEval Mode = "eval"
	// ModeAST scans and parses
	ModeAST Mode = "ast"
	// ModeTokens only scans
	ModeTokens Mode = "tokens"
)

// ParseMode accepts "eval", "ast" and "tokens"; "" means eval
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeEval:
		return ModeEval, nil
	case ModeAST, ModeTokens:
		return Mode(s), nil
	default:
		return "", mdwerror.New(fmt.Sprintf("unknown mode: %q (want eval, ast or tokens)", s)).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("evalservice.ParseMode")
	}
}

// Token is the wire form of a lexer token
type Token struct {
	Type    string `json:"type"`
	Lexeme  string `json:"lexeme"`
	Literal string `json:"literal"`
	Line    int    `json:"line"`
}

// Error is the wire form of a lexical, syntax or runtime error
type Error struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
	Lexeme   string `json:"lexeme,omitempty"`
	Rendered string `json:"rendered"`
}

// Response is the result of one evaluation request. Lox errors are
// reported in Error, never as a Go error.
type Response struct {
	Mode   Mode                   `json:"mode"`
	Value  string                 `json:"value,omitempty"`
	Type   string                 `json:"type,omitempty"`
	Tree   string                 `json:"tree,omitempty"`
	AST    map[string]interface{} `json:"ast,omitempty"`
	Tokens []Token                `json:"tokens,omitempty"`
	Error  *Error                 `json:"error,omitempty"`
}

// Service evaluates source text for remote callers
type Service struct {
	engine *lox.Engine
	logger *mdwlog.Logger
	trees  *cache.Cache[ast.Expr]
	health *health.Registry
}

// Option configures a Service
type Option func(*Service)

// WithParseCache keeps up to size parsed trees for ttl so repeated
// sources skip scanning and parsing. A size <= 0 disables the cache.
func WithParseCache(size int, ttl time.Duration) Option {
	return func(s *Service) {
		if size <= 0 {
			return
		}
		cfg := cache.DefaultConfig()
		cfg.MaxItems = size
		cfg.TTL = ttl
		s.trees = cache.New[ast.Expr](cfg)
	}
}

// NewService creates a service on top of an engine
func NewService(engine *lox.Engine, logger *mdwlog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	s := &Service{
		engine: engine,
		logger: logger.WithField("component", "evalservice"),
		health: health.NewRegistry("mlox-evalservice", version.EvalService),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.health.RegisterFunc("engine", s.checkEngine)
	if s.trees != nil {
		s.health.RegisterFunc("parse-cache", s.checkCache)
	}
	return s
}

// Health returns the registry behind /healthz
func (s *Service) Health() *health.Registry {
	return s.health
}

// Close releases the parse cache
func (s *Service) Close() {
	if s.trees != nil {
		s.trees.Close()
	}
}

// checkEngine runs a fixed expression through the whole pipeline
func (s *Service) checkEngine(ctx context.Context) health.CheckResult {
	result, err := s.engine.Run(ctx, "(1 + 2) * 3")
	if err != nil {
		return health.CheckResult{Status: health.StatusUnhealthy, Message: err.Error()}
	}
	if !value.Equal(result.Value, value.Number(9)) {
		return health.CheckResult{
			Status:  health.StatusUnhealthy,
			Message: "unexpected result " + result.Value.Display(),
		}
	}
	opts := s.engine.Options()
	return health.CheckResult{
		Status: health.StatusHealthy,
		Details: map[string]interface{}{
			"factor_associativity": opts.FactorAssociativity.String(),
			"parser_max_depth":     opts.ParserMaxDepth,
			"eval_max_depth":       opts.EvalMaxDepth,
		},
	}
}

func (s *Service) checkCache(ctx context.Context) health.CheckResult {
	stats := s.trees.Stats()
	return health.CheckResult{
		Status: health.StatusHealthy,
		Details: map[string]interface{}{
			"size":     stats.Size,
			"hits":     stats.Hits,
			"misses":   stats.Misses,
			"hit_rate": stats.HitRate,
		},
	}
}

// parse returns the tree for source, from the cache when possible.
// Failed parses are never cached.
func (s *Service) parse(source string) (ast.Expr, error) {
	if s.trees == nil || len(source) > MaxCachedSource {
		return s.engine.Parse(source)
	}
	return s.trees.GetOrSet(cacheKey(source), func() (ast.Expr, error) {
		return s.engine.Parse(source)
	})
}

// cacheKey is the hex SHA-256 of source
func cacheKey(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Evaluate runs source in the given mode. The returned error is non-nil
// only for an unknown mode or a done context.
func (s *Service) Evaluate(ctx context.Context, source string, mode Mode) (*Response, error) {
	mode, err := ParseMode(string(mode))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, mdwerror.Wrap(err, "evaluation canceled").
			WithCode(mdwerror.CodeCanceled).
			WithOperation("evalservice.Evaluate")
	}

	resp := &Response{Mode: mode}

	switch mode {
	case ModeTokens:
		tokens, err := s.engine.Scan(source)
		if err != nil {
			return s.failed(ctx, resp, err)
		}
		resp.Tokens = convertTokens(tokens)

	case ModeAST:
		tree, err := s.parse(source)
		if err != nil {
			return s.failed(ctx, resp, err)
		}
		resp.Tree = ast.Print(tree)
		resp.AST = ast.ToMap(tree)

	default:
		tree, err := s.parse(source)
		if err != nil {
			return s.failed(ctx, resp, err)
		}
		result, err := s.engine.EvaluateTree(tree)
		if err != nil {
			if _, ok := loxerr.As(err); !ok {
				return nil, err
			}
			return s.failed(ctx, resp, err)
		}
		resp.Value = result.Display()
		resp.Type = result.Type().String()
		resp.Tree = ast.Print(tree)
	}

	s.logger.Debug("request evaluated", mdwlog.Fields{
		"mode":          string(mode),
		"source_length": len(source),
		"request_id":    coregrpc.RequestID(ctx),
	})
	return resp, nil
}

func (s *Service) failed(ctx context.Context, resp *Response, err error) (*Response, error) {
	resp.Error = convertError(err)
	s.logger.Debug("request failed", mdwlog.Fields{
		"mode":       string(resp.Mode),
		"error_kind": resp.Error.Kind,
		"request_id": coregrpc.RequestID(ctx),
	})
	return resp, nil
}

func convertTokens(tokens []lexer.Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, Token{
			Type:    tok.Type().String(),
			Lexeme:  tok.Lexeme,
			Literal: tok.Literal(),
			Line:    tok.Span.Line,
		})
	}
	return out
}

func convertError(err error) *Error {
	loxErr, ok := loxerr.As(err)
	if !ok {
		return &Error{Kind: "internal", Message: err.Error(), Rendered: "Error: " + err.Error()}
	}
	return &Error{
		Kind:     loxErr.Kind.String(),
		Message:  loxErr.Message,
		Line:     loxErr.Line,
		Lexeme:   loxErr.Lexeme,
		Rendered: loxErr.Error(),
	}
}
