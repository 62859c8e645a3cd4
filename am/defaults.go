package am

import (
	"github.com/spf13/viper"

	"github.com/teranos/tagweb/interact"
	"github.com/teranos/tagweb/physics"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Canvas defaults
	v.SetDefault("canvas.width", 800)
	v.SetDefault("canvas.height", 600)

	// Physics defaults
	forces := physics.DefaultConfig()
	v.SetDefault("physics.interval_ms", 50) // 20 steps per second
	v.SetDefault("physics.seed", 0)         // Time-based placement
	v.SetDefault("physics.center_force", forces.CenterForce)
	v.SetDefault("physics.repel_force", forces.RepelForce)
	v.SetDefault("physics.repel_cutoff", forces.RepelCutoff)
	v.SetDefault("physics.link_base_distance", forces.LinkBaseDistance)
	v.SetDefault("physics.link_spread", forces.LinkSpread)
	v.SetDefault("physics.link_force", forces.LinkForce)
	v.SetDefault("physics.damping", forces.Damping)
	v.SetDefault("physics.time_step", forces.TimeStep)

	// Render defaults
	v.SetDefault("render.background", "#ffffff")
	v.SetDefault("render.link_width", 2.0)
	v.SetDefault("render.label_threshold", 0.8)
	v.SetDefault("render.show_legend", false)

	// Interaction defaults
	limits := interact.DefaultLimits()
	v.SetDefault("interaction.min_zoom", limits.MinZoom)
	v.SetDefault("interaction.max_zoom", limits.MaxZoom)
	v.SetDefault("interaction.zoom_step", limits.ZoomStep)

	// Filter defaults
	v.SetDefault("filter.strength_threshold", 0.0)
	v.SetDefault("filter.relation_type", "all")

	// Server configuration defaults
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.max_fps", 20.0)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
	})

	// Remote snapshot defaults
	v.SetDefault("fetch.timeout_seconds", 15)
	v.SetDefault("fetch.max_bytes", 16<<20)
	v.SetDefault("fetch.allow_private_hosts", false)
}

// GetServerAllowedOrigins returns the allowed WebSocket origins
func (c *Config) GetServerAllowedOrigins() []string {
	if len(c.Server.AllowedOrigins) == 0 {
		return []string{
			"http://localhost",
			"https://localhost",
			"http://127.0.0.1",
			"https://127.0.0.1",
		}
	}
	return c.Server.AllowedOrigins
}
