// ============================================================================
// mlox - Lox expression engine
// ============================================================================
//
// Package:     version
// Description: Central version management for the CLI and services
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants for mlox components
const (
	// Platform version
	Platform = "0.3.0"

	// Component versions
	Engine      = "0.3.0"
	CLI         = "0.3.0"
	EvalService = "0.2.0"
	History     = "0.1.0"

	// Protocol is the version of the gRPC and WebSocket message schema
	Protocol = "mlox.v1"
)

// Commit and BuildDate are set at link time via -ldflags
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info describes the running binary
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Protocol  string `json:"protocol" yaml:"protocol"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Get returns the build information of the running binary
func Get() Info {
	return Info{
		Version:   Platform,
		Protocol:  Protocol,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the info on one line
func (i Info) String() string {
	return fmt.Sprintf("mlox %s (%s, commit %s, built %s, %s %s)",
		i.Version, i.Protocol, i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "engine":
		return Engine
	case "cli":
		return CLI
	case "evalservice", "server":
		return EvalService
	case "history":
		return History
	default:
		return Platform
	}
}
