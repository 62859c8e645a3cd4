package am

import (
	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/graph"
	"github.com/teranos/tagweb/render"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return errors.NewInvalidConfigError("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}

	// Physics interval: the loop needs a positive cadence
	if c.Physics.IntervalMs <= 0 {
		return errors.NewInvalidConfigError("physics.interval_ms must be > 0, got %d", c.Physics.IntervalMs)
	}
	if err := c.Physics.Config.Validate(); err != nil {
		return err
	}

	if c.Render.Background != "" {
		if _, err := render.ParseHexColor(c.Render.Background); err != nil {
			return errors.Wrap(errors.NewInvalidConfigError("render.background %q is not a hex colour", c.Render.Background), err.Error())
		}
	}
	if c.Render.LinkWidth < 0 {
		return errors.NewInvalidConfigError("render.link_width must be >= 0, got %g", c.Render.LinkWidth)
	}
	if c.Render.LabelThreshold < 0 || c.Render.LabelThreshold > 1 {
		return errors.NewInvalidConfigError("render.label_threshold must be in [0, 1], got %g", c.Render.LabelThreshold)
	}

	if err := c.Interaction.Validate(); err != nil {
		return err
	}

	if _, ok := graph.ParseRelationType(c.Filter.RelationType, true); c.Filter.RelationType != "" && !ok {
		return errors.WithHintf(
			errors.NewInvalidConfigError("filter.relation_type %q is unknown", c.Filter.RelationType),
			"use \"all\" or one of %v", graph.RelationTypes())
	}
	if err := c.FilterState().Validate(); err != nil {
		return err
	}

	// Server port: 0 is invalid, negative is invalid
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.NewInvalidConfigError("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.MaxFPS <= 0 {
		return errors.NewInvalidConfigError("server.max_fps must be > 0, got %g", c.Server.MaxFPS)
	}

	if c.Fetch.TimeoutSeconds <= 0 {
		return errors.NewInvalidConfigError("fetch.timeout_seconds must be > 0, got %d", c.Fetch.TimeoutSeconds)
	}
	if c.Fetch.MaxBytes <= 0 {
		return errors.NewInvalidConfigError("fetch.max_bytes must be > 0, got %d", c.Fetch.MaxBytes)
	}

	return nil
}
