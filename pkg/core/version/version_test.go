package version

import (
	"regexp"
	"runtime"
	"strings"
	"testing"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestVersionConstants(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"Platform", Platform},
		{"Engine", Engine},
		{"CLI", CLI},
		{"EvalService", EvalService},
		{"History", History},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.version == "" {
				t.Errorf("%s version is empty", tt.name)
			}
			if !semverRegex.MatchString(tt.version) {
				t.Errorf("%s version %q does not match semver format (x.y.z)", tt.name, tt.version)
			}
		})
	}
}

func TestComponentVersion(t *testing.T) {
	tests := []struct {
		name      string
		component string
		expected  string
	}{
		{"engine", "engine", Engine},
		{"cli", "cli", CLI},
		{"evalservice", "evalservice", EvalService},
		{"server alias", "server", EvalService},
		{"history", "history", History},
		{"unknown component", "unknown", Platform},
		{"empty component", "", Platform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComponentVersion(tt.component)
			if result != tt.expected {
				t.Errorf("ComponentVersion(%q) = %q, want %q", tt.component, result, tt.expected)
			}
		})
	}
}

func TestGet(t *testing.T) {
	info := Get()

	if info.Version != Platform {
		t.Errorf("Version = %q, want %q", info.Version, Platform)
	}
	if info.Protocol != Protocol {
		t.Errorf("Protocol = %q, want %q", info.Protocol, Protocol)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if !strings.HasPrefix(info.String(), "mlox "+Platform+" (mlox.v1") {
		t.Errorf("String() = %q", info.String())
	}
}
