package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/mlox/foundation/core/error"
	mdwlog "github.com/msto63/mlox/foundation/core/log"
	"github.com/msto63/mlox/foundation/lox/parser"
)

// EnvConfigPath names the environment variable that points at a config file
const EnvConfigPath = "MLOX_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Engine  EngineConfig  `toml:"engine" yaml:"engine"`
	REPL    REPLConfig    `toml:"repl" yaml:"repl"`
	Server  ServerConfig  `toml:"server" yaml:"server"`

	// Path is the file the configuration was loaded from, empty for defaults
	Path string `toml:"-" yaml:"-"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
	DataDir   string `toml:"data_dir" yaml:"data_dir"`
}

// EngineConfig holds limits and grammar options of the expression engine
type EngineConfig struct {
	MaxSourceLength     int    `toml:"max_source_length" yaml:"max_source_length"`
	ParserMaxDepth      int    `toml:"parser_max_depth" yaml:"parser_max_depth"`
	EvalMaxDepth        int    `toml:"eval_max_depth" yaml:"eval_max_depth"`
	FactorAssociativity string `toml:"factor_associativity" yaml:"factor_associativity"`
}

// REPLConfig holds interactive prompt settings
type REPLConfig struct {
	Prompt         string `toml:"prompt" yaml:"prompt"`
	HistoryEnabled bool   `toml:"history_enabled" yaml:"history_enabled"`
	HistoryPath    string `toml:"history_path" yaml:"history_path"`
	HistoryLimit   int    `toml:"history_limit" yaml:"history_limit"`
	Plain          bool   `toml:"plain" yaml:"plain"`
}

// ServerConfig holds evaluation service settings
type ServerConfig struct {
	Host         string   `toml:"host" yaml:"host"`
	GRPCPort     int      `toml:"grpc_port" yaml:"grpc_port"`
	HTTPPort     int      `toml:"http_port" yaml:"http_port"`
	ReadTimeout  Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout" yaml:"write_timeout"`

	// ParseCacheSize caps cached parse trees; negative disables the cache
	ParseCacheSize int      `toml:"parse_cache_size" yaml:"parse_cache_size"`
	ParseCacheTTL  Duration `toml:"parse_cache_ttl" yaml:"parse_cache_ttl"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, got %v at line %d", node.Tag, node.Line)
	}
	return d.UnmarshalText([]byte(node.Value))
}

// MarshalYAML formats the duration as a string
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{
		REPL: REPLConfig{HistoryEnabled: true},
	}
	cfg.applyDefaults()
	cfg.expandEnvVars()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = expandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mdwerror.New(fmt.Sprintf("config file not found: %s", path)).
				WithCode(mdwerror.CodeConfigError).
				WithOperation("config.Load").
				WithDetail("path", path)
		}
		return nil, mdwerror.Wrap(err, "failed to read config").
			WithCode(mdwerror.CodeIOError).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	// Start from the zero-value sections so explicit false values survive
	cfg := &Config{REPL: REPLConfig{HistoryEnabled: true}}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		_, err = toml.Decode(string(data), cfg)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from the MLOX_CONFIG environment variable
// or the first default location that exists. Without any file the defaults
// are returned.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return Load(path)
	}

	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	return Default(), nil
}

// DefaultPaths lists the locations searched by LoadFromEnv, in order
func DefaultPaths() []string {
	paths := []string{
		"./configs/config.toml",
		"./config.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "mlox", "config.toml"))
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "${HOME}/.mlox"
	}

	// Engine
	if c.Engine.MaxSourceLength == 0 {
		c.Engine.MaxSourceLength = 1 << 20
	}
	if c.Engine.ParserMaxDepth == 0 {
		c.Engine.ParserMaxDepth = parser.DefaultMaxDepth
	}
	if c.Engine.EvalMaxDepth == 0 {
		c.Engine.EvalMaxDepth = 512
	}
	if c.Engine.FactorAssociativity == "" {
		c.Engine.FactorAssociativity = parser.RightAssociative.String()
	}

	// REPL
	if c.REPL.Prompt == "" {
		c.REPL.Prompt = "> "
	}
	if c.REPL.HistoryLimit == 0 {
		c.REPL.HistoryLimit = 500
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = 9470
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 9471
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 15 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 15 * time.Second
	}
	if c.Server.ParseCacheSize == 0 {
		c.Server.ParseCacheSize = 1024
	}
	if c.Server.ParseCacheTTL.Duration == 0 {
		c.Server.ParseCacheTTL.Duration = 10 * time.Minute
	}
}

// expandEnvVars expands environment variables in path-like values
func (c *Config) expandEnvVars() {
	c.General.DataDir = expandPath(c.General.DataDir)
	if c.REPL.HistoryPath == "" {
		c.REPL.HistoryPath = filepath.Join(c.General.DataDir, "history.db")
	}
	c.REPL.HistoryPath = expandPath(c.REPL.HistoryPath)
	c.Server.Host = os.ExpandEnv(c.Server.Host)
}

// Validate checks values that have a closed set of choices or bounds
func (c *Config) Validate() error {
	invalid := func(field string, value interface{}, msg string) error {
		return mdwerror.New(fmt.Sprintf("invalid %s: %s", field, msg)).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("field", field).
			WithDetail("value", value)
	}

	if _, err := mdwlog.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level", c.General.LogLevel, err.Error())
	}
	if _, err := mdwlog.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format", c.General.LogFormat, err.Error())
	}
	if _, err := parser.ParseAssociativity(c.Engine.FactorAssociativity); err != nil {
		return invalid("engine.factor_associativity", c.Engine.FactorAssociativity, err.Error())
	}
	if c.Engine.MaxSourceLength < 0 {
		return invalid("engine.max_source_length", c.Engine.MaxSourceLength, "must not be negative")
	}
	if c.Engine.ParserMaxDepth < 0 {
		return invalid("engine.parser_max_depth", c.Engine.ParserMaxDepth, "must not be negative")
	}
	if c.Engine.EvalMaxDepth < 0 {
		return invalid("engine.eval_max_depth", c.Engine.EvalMaxDepth, "must not be negative")
	}
	if c.Engine.EvalMaxDepth > 0 && c.Engine.EvalMaxDepth < c.Engine.ParserMaxDepth {
		return invalid("engine.eval_max_depth", c.Engine.EvalMaxDepth, "must not be below engine.parser_max_depth")
	}
	if c.REPL.HistoryLimit < 0 {
		return invalid("repl.history_limit", c.REPL.HistoryLimit, "must not be negative")
	}
	for field, port := range map[string]int{"server.grpc_port": c.Server.GRPCPort, "server.http_port": c.Server.HTTPPort} {
		if port < 0 || port > 65535 {
			return invalid(field, port, "port out of range")
		}
	}
	return nil
}

// GRPCAddress returns the listen address of the gRPC evaluation service
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}

// HTTPAddress returns the listen address of the HTTP/WebSocket endpoint
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}

// expandPath expands environment variables and a leading "~/"
func expandPath(path string) string {
	path = os.ExpandEnv(path)
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}
