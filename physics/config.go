package physics

import (
	"github.com/teranos/tagweb/errors"
)

// Config holds the simulator coefficients. The defaults are tuned by eye for
// tens of nodes on an 800x600 surface; any values that keep nodes inside the
// bounds are acceptable.
type Config struct {
	CenterForce      float64 `mapstructure:"center_force" json:"center_force"`             // Pull toward the viewport centre
	RepelForce       float64 `mapstructure:"repel_force" json:"repel_force"`               // Numerator of the inverse-square repulsion
	RepelCutoff      float64 `mapstructure:"repel_cutoff" json:"repel_cutoff"`             // Pairs farther apart than this do not repel
	LinkBaseDistance float64 `mapstructure:"link_base_distance" json:"link_base_distance"` // Rest length of a strength-1 link
	LinkSpread       float64 `mapstructure:"link_spread" json:"link_spread"`               // Extra rest length of a strength-0 link
	LinkForce        float64 `mapstructure:"link_force" json:"link_force"`                 // Spring stiffness
	Damping          float64 `mapstructure:"damping" json:"damping"`                       // Velocity retained per step
	TimeStep         float64 `mapstructure:"time_step" json:"time_step"`                   // Integration dt in step units
}

// DefaultConfig returns the stock coefficients
func DefaultConfig() Config {
	return Config{
		CenterForce:      0.01,
		RepelForce:       1000,
		RepelCutoff:      100,
		LinkBaseDistance: 100,
		LinkSpread:       50,
		LinkForce:        0.05,
		Damping:          0.9,
		TimeStep:         1,
	}
}

// Validate rejects coefficients that would make the layout diverge
func (c Config) Validate() error {
	if c.CenterForce < 0 {
		return errors.NewInvalidConfigError("physics.center_force must be >= 0, got %g", c.CenterForce)
	}
	if c.RepelForce < 0 {
		return errors.NewInvalidConfigError("physics.repel_force must be >= 0, got %g", c.RepelForce)
	}
	if c.RepelCutoff < 0 {
		return errors.NewInvalidConfigError("physics.repel_cutoff must be >= 0, got %g", c.RepelCutoff)
	}
	if c.LinkBaseDistance < 0 || c.LinkSpread < 0 {
		return errors.NewInvalidConfigError("physics link distances must be >= 0, got base=%g spread=%g", c.LinkBaseDistance, c.LinkSpread)
	}
	if c.LinkForce < 0 {
		return errors.NewInvalidConfigError("physics.link_force must be >= 0, got %g", c.LinkForce)
	}
	if c.Damping <= 0 || c.Damping > 1 {
		return errors.WithHint(
			errors.NewInvalidConfigError("physics.damping must be in (0, 1], got %g", c.Damping),
			"values below 1 bleed energy so the layout settles")
	}
	if c.TimeStep <= 0 {
		return errors.NewInvalidConfigError("physics.time_step must be > 0, got %g", c.TimeStep)
	}
	return nil
}
