package am

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/graph"
	"github.com/teranos/tagweb/physics"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := defaultConfig(t)

	assert.Equal(t, 800, cfg.Canvas.Width)
	assert.Equal(t, 600, cfg.Canvas.Height)
	assert.Equal(t, 50, cfg.Physics.IntervalMs)
	assert.Equal(t, physics.DefaultConfig(), cfg.Physics.Config)
	assert.Equal(t, 0.5, cfg.Interaction.MinZoom)
	assert.Equal(t, 3.0, cfg.Interaction.MaxZoom)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, 20.0, cfg.Server.MaxFPS)
	assert.Equal(t, "all", cfg.Filter.RelationType)
}

func TestDerivedSettings(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Physics.Seed = 42
	cfg.Filter.RelationType = "Parent"
	cfg.Render.Background = "#000000"
	cfg.Render.ShowLegend = true

	assert.Equal(t, 50*time.Millisecond, cfg.EngineConfig().Interval)
	assert.Equal(t, graph.RelationParent, cfg.FilterState().RelationType)

	style := cfg.Style()
	assert.Equal(t, uint8(0), style.Background.R)
	assert.True(t, style.ShowLegend)

	opts := cfg.SceneOptions()
	assert.Equal(t, int64(42), opts.Seed)
	assert.Equal(t, 800.0, opts.Width)
	assert.Equal(t, cfg.Physics.Config, opts.Physics)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero canvas", func(c *Config) { c.Canvas.Width = 0 }, true},
		{"zero interval", func(c *Config) { c.Physics.IntervalMs = 0 }, true},
		{"damping above one", func(c *Config) { c.Physics.Damping = 1.2 }, true},
		{"bad background", func(c *Config) { c.Render.Background = "blue" }, true},
		{"label threshold above one", func(c *Config) { c.Render.LabelThreshold = 2 }, true},
		{"zoom range excludes one", func(c *Config) { c.Interaction.MinZoom = 1.5 }, true},
		{"unknown relation filter", func(c *Config) { c.Filter.RelationType = "cousin" }, true},
		{"empty relation filter means all", func(c *Config) { c.Filter.RelationType = "" }, false},
		{"threshold above one", func(c *Config) { c.Filter.StrengthThreshold = 1.5 }, true},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"huge port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero fps", func(c *Config) { c.Server.MaxFPS = 0 }, true},
		{"zero fetch timeout", func(c *Config) { c.Fetch.TimeoutSeconds = 0 }, true},
		{"negative fetch limit", func(c *Config) { c.Fetch.MaxBytes = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidConfig(err), "expected invalid config error, got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[canvas]
width = 1024

[physics]
damping = 0.75
interval_ms = 20

[server]
port = 9000
`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Canvas.Width)
	assert.Equal(t, 600, cfg.Canvas.Height, "unset keys keep defaults")
	assert.Equal(t, 0.75, cfg.Physics.Damping)
	assert.Equal(t, 20, cfg.Physics.IntervalMs)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoadFromFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	require.NoError(t, os.WriteFile(path, []byte("[physics]\ndamping = 0\n"), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestGetServerAllowedOrigins(t *testing.T) {
	cfg := &Config{}
	assert.Contains(t, cfg.GetServerAllowedOrigins(), "http://localhost")

	cfg.Server.AllowedOrigins = []string{"https://example.org"}
	assert.Equal(t, []string{"https://example.org"}, cfg.GetServerAllowedOrigins())
}
