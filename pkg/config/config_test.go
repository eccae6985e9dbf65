package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cramp/pkg/clamp"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, Version, cfg.Version)
	assert.Equal(t, "2", cfg.Clamp.Lines)
	assert.Equal(t, clamp.DefaultMarker, cfg.Clamp.Marker)
	assert.Equal(t, DefaultViewportWidth, cfg.Layout.ViewportWidth)
	assert.Equal(t, MeasurerFont, cfg.Layout.Measurer)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	configContent := `
clamp:
  lines: 3em
  marker: " [more]"
layout:
  viewport_width: 320
  measurer: fixed
script:
  timeout: 250ms
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o600))

	cfg, err := Load(LoadOptions{ExplicitPath: configPath, SkipEnv: true})
	require.NoError(t, err)

	assert.Equal(t, "3em", cfg.Clamp.Lines)
	assert.Equal(t, " [more]", cfg.Clamp.Marker)
	assert.Equal(t, 320, cfg.Layout.ViewportWidth)
	assert.Equal(t, MeasurerFixed, cfg.Layout.Measurer)
	assert.Equal(t, 250*time.Millisecond, cfg.ScriptTimeout())

	// Defaults should still be present for unspecified fields
	assert.Equal(t, DefaultViewportHeight, cfg.Layout.ViewportHeight)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("clamp:\n  lines: \"4\"\n"), 0o600))

	t.Setenv(EnvLines, "auto")
	t.Setenv(EnvMarker, "")
	t.Setenv(EnvViewportWidth, "1024")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvFontDir, "/fonts")

	cfg, err := Load(LoadOptions{ExplicitPath: configPath})
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.Clamp.Lines)
	assert.Equal(t, "", cfg.Clamp.Marker, "a set but empty marker still overrides")
	assert.Equal(t, 1024, cfg.Layout.ViewportWidth)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/fonts", cfg.Layout.FontDir)
}

func TestLoad_BadEnvViewport(t *testing.T) {
	t.Setenv(EnvViewportWidth, "wide")
	_, err := Load(LoadOptions{SkipGlobal: true, SkipProject: true})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(LoadOptions{ExplicitPath: filepath.Join(t.TempDir(), "nope.yaml"), SkipEnv: true})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("layout: [unclosed"), 0o600))

	_, err := Load(LoadOptions{ExplicitPath: configPath, SkipEnv: true})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_ProjectConfigDiscovery(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectConfigFile), []byte("clamp:\n  lines: \"5\"\n"), 0o600))
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(sub))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load(LoadOptions{SkipGlobal: true, SkipEnv: true})
	require.NoError(t, err)
	assert.Equal(t, "5", cfg.Clamp.Lines)

	_, project := DiscoveredPaths()
	assert.Equal(t, filepath.Join(root, ProjectConfigFile), project)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad lines", func(c *Config) { c.Clamp.Lines = "many" }},
		{"zero viewport", func(c *Config) { c.Layout.ViewportWidth = 0 }},
		{"unknown measurer", func(c *Config) { c.Layout.Measurer = "guess" }},
		{"unknown level", func(c *Config) { c.Log.Level = "loud" }},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }},
		{"bad timeout", func(c *Config) { c.Script.Timeout = "soon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestApplyCLIOverrides(t *testing.T) {
	cfg := New()
	cfg.ApplyCLIOverrides(CLIOverrides{Lines: "1", ViewportWidth: 200, Measurer: "FIXED"})

	assert.Equal(t, "1", cfg.Clamp.Lines)
	assert.Equal(t, 200, cfg.Layout.ViewportWidth)
	assert.Equal(t, MeasurerFixed, cfg.Layout.Measurer)
	assert.Equal(t, clamp.DefaultMarker, cfg.Clamp.Marker, "empty overrides leave values alone")
}

func TestNewLogger(t *testing.T) {
	cfg := New()
	cfg.Log.Level = "warn"
	cfg.Log.Format = "json"

	var buf bytes.Buffer
	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestClampOptions(t *testing.T) {
	cfg := New()
	cfg.Clamp.OmitMarker = true
	opts := cfg.ClampOptions(nil)
	assert.Equal(t, "2", opts.Lines)
	assert.True(t, opts.OmitMarker)
}

func TestString(t *testing.T) {
	out := New().String()
	assert.Contains(t, out, "viewport_width: 800")
	assert.Contains(t, out, "measurer: font")
}
