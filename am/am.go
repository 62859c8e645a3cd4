package am

import (
	"time"

	"github.com/teranos/tagweb/graph"
	"github.com/teranos/tagweb/internal/httpclient"
	"github.com/teranos/tagweb/interact"
	"github.com/teranos/tagweb/physics"
	"github.com/teranos/tagweb/render"
	"github.com/teranos/tagweb/view"
)

// Config represents the tagweb configuration
type Config struct {
	Canvas      CanvasConfig    `mapstructure:"canvas"`
	Physics     PhysicsConfig   `mapstructure:"physics"`
	Render      RenderConfig    `mapstructure:"render"`
	Interaction interact.Limits `mapstructure:"interaction"`
	Filter      FilterConfig    `mapstructure:"filter"`
	Server      ServerConfig    `mapstructure:"server"`
	Fetch       FetchConfig     `mapstructure:"fetch"`
}

// CanvasConfig is the drawing surface size in pixels
type CanvasConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// PhysicsConfig configures the simulation loop and force coefficients
type PhysicsConfig struct {
	IntervalMs int   `mapstructure:"interval_ms"` // Milliseconds between simulation steps (default: 50)
	Seed       int64 `mapstructure:"seed"`        // Initial placement seed; 0 = time-based

	physics.Config `mapstructure:",squash"`
}

// RenderConfig configures frame drawing
type RenderConfig struct {
	Background     string  `mapstructure:"background"`      // Hex colour
	LinkWidth      float64 `mapstructure:"link_width"`      // Link stroke width in world units
	LabelThreshold float64 `mapstructure:"label_threshold"` // Strength above which links show a percentage
	ShowLegend     bool    `mapstructure:"show_legend"`     // Draw the relation type legend
}

// FilterConfig holds the filter applied when a snapshot carries none
type FilterConfig struct {
	StrengthThreshold float64 `mapstructure:"strength_threshold"`
	RelationType      string  `mapstructure:"relation_type"` // "all" or a relation type
}

// ServerConfig configures the live view server
type ServerConfig struct {
	Port           int      `mapstructure:"port"`    // Listen port (default: 8787)
	MaxFPS         float64  `mapstructure:"max_fps"` // Frame broadcast rate limit
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// FetchConfig governs loading snapshots from http(s) URLs
type FetchConfig struct {
	TimeoutSeconds    int   `mapstructure:"timeout_seconds"`     // Whole-request timeout
	MaxBytes          int64 `mapstructure:"max_bytes"`           // Larger bodies are rejected
	AllowPrivateHosts bool  `mapstructure:"allow_private_hosts"` // Permit localhost and private networks
}

// Server port constants
const (
	DefaultServerPort = 8787
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// EngineConfig returns the simulation loop cadence
func (c *Config) EngineConfig() view.EngineConfig {
	return view.EngineConfig{Interval: time.Duration(c.Physics.IntervalMs) * time.Millisecond}
}

// FetchOptions returns the HTTP client options for remote snapshots
func (c *Config) FetchOptions() httpclient.Options {
	return httpclient.Options{
		Timeout:      time.Duration(c.Fetch.TimeoutSeconds) * time.Second,
		AllowPrivate: c.Fetch.AllowPrivateHosts,
	}
}

// FilterState converts the filter section
func (c *Config) FilterState() graph.FilterState {
	rt := graph.RelationAll
	if t, ok := graph.ParseRelationType(c.Filter.RelationType, true); ok {
		rt = t
	}
	return graph.FilterState{StrengthThreshold: c.Filter.StrengthThreshold, RelationType: rt}
}

// Style applies the render section on top of the default style
func (c *Config) Style() render.Style {
	style := render.DefaultStyle()
	if bg, err := render.ParseHexColor(c.Render.Background); err == nil {
		style.Background = bg
	}
	if c.Render.LinkWidth > 0 {
		style.LinkWidth = c.Render.LinkWidth
	}
	if c.Render.LabelThreshold > 0 {
		style.LinkLabelThreshold = c.Render.LabelThreshold
	}
	style.ShowLegend = c.Render.ShowLegend
	return style
}

// SceneOptions assembles view options from every section
func (c *Config) SceneOptions() view.Options {
	seed := c.Physics.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return view.Options{
		Width:   float64(c.Canvas.Width),
		Height:  float64(c.Canvas.Height),
		Physics: c.Physics.Config,
		Style:   c.Style(),
		Limits:  c.Interaction,
		Filter:  c.FilterState(),
		Seed:    seed,
	}
}
