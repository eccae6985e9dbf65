// Package config provides configuration management for cramp.
// Configuration is loaded from YAML files with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"cramp/pkg/clamp"
)

// Version is the current config schema version.
const Version = "1"

// Default file paths.
const (
	GlobalConfigDir   = ".config/cramp"
	GlobalConfigFile  = "config.yaml"
	ProjectConfigFile = ".cramp.yaml"
)

// Measurer names.
const (
	MeasurerFont  = "font"
	MeasurerFixed = "fixed"
)

// Default values.
const (
	DefaultViewportWidth  = 800
	DefaultViewportHeight = 600
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultScriptTimeout  = "5s"
	DefaultFetchTimeout   = "30s"
)

// Environment variable names.
const (
	EnvLines         = "CRAMP_LINES"
	EnvMarker        = "CRAMP_MARKER"
	EnvViewportWidth = "CRAMP_VIEWPORT_WIDTH"
	EnvLogLevel      = "CRAMP_LOG_LEVEL"
	EnvLogFormat     = "CRAMP_LOG_FORMAT"
	EnvFontDir       = "CRAMP_FONT_DIR"
	EnvMeasurer      = "CRAMP_MEASURER"
)

// Config represents the complete cramp configuration.
type Config struct {
	Version string       `json:"version" yaml:"version"`
	Clamp   ClampConfig  `json:"clamp" yaml:"clamp"`
	Layout  LayoutConfig `json:"layout" yaml:"layout"`
	Script  ScriptConfig `json:"script" yaml:"script"`
	Fetch   FetchConfig  `json:"fetch" yaml:"fetch"`
	Log     LogConfig    `json:"log" yaml:"log"`
}

// ClampConfig holds the defaults applied when a command gets no flags.
type ClampConfig struct {
	Lines      string `json:"lines" yaml:"lines"`
	Marker     string `json:"marker" yaml:"marker"`
	OmitMarker bool   `json:"omit_marker" yaml:"omit_marker"`
}

// LayoutConfig holds layout engine settings.
type LayoutConfig struct {
	ViewportWidth  int    `json:"viewport_width" yaml:"viewport_width"`
	ViewportHeight int    `json:"viewport_height" yaml:"viewport_height"`
	FontDir        string `json:"font_dir" yaml:"font_dir"`
	Measurer       string `json:"measurer" yaml:"measurer"`
}

// ScriptConfig holds JavaScript execution settings.
type ScriptConfig struct {
	Timeout string `json:"timeout" yaml:"timeout"`
}

// FetchConfig holds settings for loading pages over HTTP.
type FetchConfig struct {
	Timeout string `json:"timeout" yaml:"timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// Errors.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Version: Version,
		Clamp: ClampConfig{
			Lines:  strconv.Itoa(clamp.DefaultLines),
			Marker: clamp.DefaultMarker,
		},
		Layout: LayoutConfig{
			ViewportWidth:  DefaultViewportWidth,
			ViewportHeight: DefaultViewportHeight,
			Measurer:       MeasurerFont,
		},
		Script: ScriptConfig{Timeout: DefaultScriptTimeout},
		Fetch:  FetchConfig{Timeout: DefaultFetchTimeout},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// LoadOptions configures config loading behavior.
type LoadOptions struct {
	// ExplicitPath overrides config discovery (--config flag).
	ExplicitPath string
	// SkipGlobal skips loading global config (~/.config/cramp/config.yaml).
	SkipGlobal bool
	// SkipProject skips loading project config (.cramp.yaml).
	SkipProject bool
	// SkipEnv skips environment variable overrides.
	SkipEnv bool
}

// Load loads configuration with the following precedence (highest to lowest):
// 1. Environment variables
// 2. Project config (.cramp.yaml in the working directory or a parent)
// 3. Global config (~/.config/cramp/config.yaml)
// 4. Built-in defaults
//
// If ExplicitPath is set, it replaces both global and project configs.
func Load(opts LoadOptions) (*Config, error) {
	cfg := New()

	if !opts.SkipGlobal && opts.ExplicitPath == "" {
		if globalPath, err := globalConfigPath(); err == nil {
			if loadErr := loadFile(cfg, globalPath); loadErr != nil && !errors.Is(loadErr, os.ErrNotExist) {
				return nil, fmt.Errorf("load global config: %w", loadErr)
			}
		}
	}

	if !opts.SkipProject && opts.ExplicitPath == "" {
		if projectPath, err := discoverProjectConfig(); err == nil {
			if loadErr := loadFile(cfg, projectPath); loadErr != nil && !errors.Is(loadErr, os.ErrNotExist) {
				return nil, fmt.Errorf("load project config: %w", loadErr)
			}
		}
	}

	if opts.ExplicitPath != "" {
		if err := loadFile(cfg, opts.ExplicitPath); err != nil {
			return nil, fmt.Errorf("load config %s: %w", opts.ExplicitPath, err)
		}
	}

	if !opts.SkipEnv {
		if err := applyEnvOverrides(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// loadFile reads and unmarshals a YAML config file into cfg.
// Fields not present in the file retain their current values (merge behavior).
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile), nil
}

// discoverProjectConfig walks up from CWD looking for .cramp.yaml.
// Stops at git root or filesystem root.
func discoverProjectConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvLines); v != "" {
		cfg.Clamp.Lines = v
	}
	if v, ok := os.LookupEnv(EnvMarker); ok {
		cfg.Clamp.Marker = v
	}
	if v := os.Getenv(EnvViewportWidth); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvViewportWidth, v, err)
		}
		cfg.Layout.ViewportWidth = n
	}
	if v := os.Getenv(EnvFontDir); v != "" {
		cfg.Layout.FontDir = v
	}
	if v := os.Getenv(EnvMeasurer); v != "" {
		cfg.Layout.Measurer = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
	return nil
}

// CLIOverrides contains values from CLI flags that override config.
type CLIOverrides struct {
	Lines         string
	Marker        string
	ViewportWidth int
	Measurer      string
	LogLevel      string
}

// ApplyCLIOverrides applies CLI flag values to config.
// Only non-zero values are applied (highest priority).
func (cfg *Config) ApplyCLIOverrides(o CLIOverrides) {
	if o.Lines != "" {
		cfg.Clamp.Lines = o.Lines
	}
	if o.Marker != "" {
		cfg.Clamp.Marker = o.Marker
	}
	if o.ViewportWidth != 0 {
		cfg.Layout.ViewportWidth = o.ViewportWidth
	}
	if o.Measurer != "" {
		cfg.Layout.Measurer = strings.ToLower(o.Measurer)
	}
	if o.LogLevel != "" {
		cfg.Log.Level = strings.ToLower(o.LogLevel)
	}
}

// Validate checks the configuration for errors.
func (cfg *Config) Validate() error {
	if _, err := clamp.ParseValue(cfg.Clamp.Lines); err != nil {
		return fmt.Errorf("%w: clamp.lines: %w", ErrInvalidConfig, err)
	}
	if cfg.Layout.ViewportWidth <= 0 {
		return fmt.Errorf("%w: layout.viewport_width must be positive, got %d", ErrInvalidConfig, cfg.Layout.ViewportWidth)
	}
	if cfg.Layout.ViewportHeight <= 0 {
		return fmt.Errorf("%w: layout.viewport_height must be positive, got %d", ErrInvalidConfig, cfg.Layout.ViewportHeight)
	}
	switch cfg.Layout.Measurer {
	case MeasurerFont, MeasurerFixed:
	default:
		return fmt.Errorf("%w: layout.measurer must be %q or %q, got %q", ErrInvalidConfig, MeasurerFont, MeasurerFixed, cfg.Layout.Measurer)
	}
	if _, err := parseLevel(cfg.Log.Level); err != nil {
		return err
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalidConfig, cfg.Log.Format)
	}
	for name, v := range map[string]string{"script.timeout": cfg.Script.Timeout, "fetch.timeout": cfg.Fetch.Timeout} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("%w: invalid %s %q: %w", ErrInvalidConfig, name, v, err)
		}
	}
	return nil
}

// ClampOptions returns clamp options carrying the configured defaults.
func (cfg *Config) ClampOptions(logger *slog.Logger) clamp.Options {
	return clamp.Options{
		Lines:      cfg.Clamp.Lines,
		Marker:     cfg.Clamp.Marker,
		OmitMarker: cfg.Clamp.OmitMarker,
		Logger:     logger,
	}
}

// ScriptTimeout returns script.timeout, or 0 for no limit.
func (cfg *Config) ScriptTimeout() time.Duration {
	d, _ := time.ParseDuration(cfg.Script.Timeout)
	return d
}

// FetchTimeout returns fetch.timeout, or 0 for no limit.
func (cfg *Config) FetchTimeout() time.Duration {
	d, _ := time.ParseDuration(cfg.Fetch.Timeout)
	return d
}

func parseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, level)
	}
	return l, nil
}

// NewLogger builds the process logger writing to w.
func (cfg *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// String returns the config as YAML.
func (cfg *Config) String() string {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Sprintf("config error: %v", err)
	}
	return string(data)
}

// DiscoveredPaths returns which config files were found.
// Returns empty strings for paths that don't exist or can't be determined.
func DiscoveredPaths() (global, project string) {
	if globalPath, err := globalConfigPath(); err == nil {
		if _, statErr := os.Stat(globalPath); statErr == nil {
			global = globalPath
		}
	}
	if projectPath, err := discoverProjectConfig(); err == nil {
		project = projectPath
	}
	return global, project
}
