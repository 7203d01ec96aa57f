// ============================================================================
// mlox - Lox expression engine
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating loggers from configuration
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	mdwlog "github.com/msto63/mlox/foundation/core/log"
	"github.com/msto63/mlox/pkg/core/config"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Component or command name
	ServiceName string

	// Log level (trace, debug, info, warn, error, fatal)
	Level string

	// Output format: json, text, console or logfmt (default: text)
	Format string

	// Output (default: os.Stderr, stdout carries program output)
	Output io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "warn",
		Format:      "text",
	}
}

// FromConfig derives a LoggerConfig from the [general] section.
// verbose lowers the level to debug.
func FromConfig(general config.GeneralConfig, serviceName string, verbose bool) LoggerConfig {
	cfg := DefaultLoggerConfig(serviceName)
	if general.LogLevel != "" {
		cfg.Level = general.LogLevel
	}
	if general.LogFormat != "" {
		cfg.Format = general.LogFormat
	}
	if verbose {
		cfg.Level = "debug"
	}
	return cfg
}

// NewLogger creates a new Foundation logger. Unknown levels and formats
// fall back to warn and text.
func NewLogger(cfg LoggerConfig) *mdwlog.Logger {
	level, err := mdwlog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = mdwlog.LevelWarn
	}

	format, err := mdwlog.ParseFormat(cfg.Format)
	if err != nil || cfg.Format == "" {
		format = mdwlog.FormatText
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}

	return mdwlog.NewWithConfig(mdwlog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	})
}
