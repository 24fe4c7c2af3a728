package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/strata/pkg/errors"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "longest-path", cfg.Layering)
	assert.True(t, cfg.Transpose)
	assert.False(t, cfg.EarlyStop)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"zero horizontal spacing", func(c *Config) { c.HorizontalSpacing = 0 }, "horizontal_spacing"},
		{"negative vertical spacing", func(c *Config) { c.VerticalSpacing = -1 }, "vertical_spacing"},
		{"no passes", func(c *Config) { c.MaxPasses = 0 }, "max_passes"},
		{"too many passes", func(c *Config) { c.MaxPasses = 5000 }, "max_passes"},
		{"network simplex", func(c *Config) { c.Layering = "network-simplex" }, "layering"},
		{"empty layering", func(c *Config) { c.Layering = "" }, "layering"},
		{"negative width", func(c *Config) { c.MaxWidth = -2 }, "max_width"},
		{"negative cap", func(c *Config) { c.LargeGraphMaxPasses = -1 }, "large_graph_max_passes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestConfig_ValidateReportsAll(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPasses = 0
	cfg.HorizontalSpacing = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_passes")
	assert.Contains(t, err.Error(), "horizontal_spacing")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_TOML(t *testing.T) {
	path := writeFile(t, "layout.toml", `
horizontal_spacing = 25.5
max_passes = 8
layering = "coffman-graham"
max_width = 3
post_straighten = true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 25.5, cfg.HorizontalSpacing)
	assert.Equal(t, 8, cfg.MaxPasses)
	assert.Equal(t, "coffman-graham", cfg.Layering)
	assert.Equal(t, 3, cfg.MaxWidth)
	assert.True(t, cfg.PostStraighten)
	// untouched fields keep their defaults
	assert.Equal(t, DefaultConfig().VerticalSpacing, cfg.VerticalSpacing)
	assert.True(t, cfg.Transpose)
}

func TestLoadConfig_YAML(t *testing.T) {
	for _, name := range []string{"layout.yaml", "layout.yml"} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, "vertical_spacing: 80\ntranspose: false\nearly_stop: true\n")
			cfg, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, 80.0, cfg.VerticalSpacing)
			assert.False(t, cfg.Transpose)
			assert.True(t, cfg.EarlyStop)
			assert.Equal(t, DefaultConfig().MaxPasses, cfg.MaxPasses)
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code errors.Code
	}{
		{"missing", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.toml") }, errors.ErrCodeFileNotFound},
		{"empty path", func(t *testing.T) string { return "" }, errors.ErrCodeInvalidInput},
		{"unknown extension", func(t *testing.T) string { return writeFile(t, "layout.ini", "x=1") }, errors.ErrCodeUnsupported},
		{"malformed toml", func(t *testing.T) string { return writeFile(t, "layout.toml", "max_passes = [") }, errors.ErrCodeInvalidFormat},
		{"invalid values", func(t *testing.T) string { return writeFile(t, "layout.yaml", "max_passes: 0\n") }, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.path(t))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}
